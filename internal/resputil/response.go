package resputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loopwork/taskboard/pkg/logutils"
	"github.com/loopwork/taskboard/pkg/taskctl"
)

// Response is the uniform envelope of every endpoint.
type Response[T any] struct {
	Code ErrorCode `json:"code"`
	Data T         `json:"data"`
	Msg  string    `json:"msg"`
}

func wrapResponse(c *gin.Context, httpCode int, msg string, data any, code ErrorCode) {
	c.JSON(httpCode, gin.H{
		"code": code,
		"data": data,
		"msg":  msg,
	})
}

func Success(c *gin.Context, data any) {
	wrapResponse(c, http.StatusOK, "", data, OK)
}

func Error(c *gin.Context, msg string, code ErrorCode) {
	wrapResponse(c, http.StatusInternalServerError, msg, nil, code)
}

func HTTPError(c *gin.Context, httpCode int, msg string, code ErrorCode) {
	wrapResponse(c, httpCode, msg, nil, code)
}

func BadRequestError(c *gin.Context, msg string) {
	wrapResponse(c, http.StatusBadRequest, msg, nil, InvalidRequest)
}

// WrapServiceError maps a controller error onto the response category of
// its kind. Internal detail is logged server-side and not exposed.
func WrapServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, taskctl.ErrNotFound):
		HTTPError(c, http.StatusNotFound, err.Error(), EntityNotFound)
	case errors.Is(err, taskctl.ErrForbidden):
		HTTPError(c, http.StatusForbidden, err.Error(), UserNotAllowed)
	case errors.Is(err, taskctl.ErrInvalidInput):
		HTTPError(c, http.StatusBadRequest, err.Error(), InvalidRequest)
	case errors.Is(err, taskctl.ErrConflict):
		HTTPError(c, http.StatusConflict, err.Error(), StateConflict)
	default:
		logutils.Log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		HTTPError(c, http.StatusInternalServerError, "internal server error", ServerError)
	}
}
