package resputil

type ErrorCode int

const (
	OK ErrorCode = 0

	// General
	InvalidRequest ErrorCode = 40001

	// Token
	TokenExpired ErrorCode = 40101
	TokenInvalid ErrorCode = 40102

	// Login
	InvalidCredentials ErrorCode = 40106

	// Actor is not allowed to perform the action
	UserNotAllowed ErrorCode = 40301

	// Entity does not exist
	EntityNotFound ErrorCode = 40401

	// Mutation conflicts with existing state
	StateConflict ErrorCode = 40901

	// Server-side failure; detail stays in the server log
	ServerError ErrorCode = 50001

	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
