package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/loopwork/taskboard/dao"
	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/internal/resputil"
	"github.com/loopwork/taskboard/internal/util"
	"github.com/loopwork/taskboard/pkg/logutils"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAuthMgr)
}

type AuthMgr struct {
	name     string
	store    *dao.Store
	tokenMgr *util.TokenManager
}

func NewAuthMgr(conf RegisterConfig) Manager {
	return &AuthMgr{
		name:     "auth",
		store:    conf.Store,
		tokenMgr: util.GetTokenMgr(),
	}
}

func (mgr *AuthMgr) GetName() string { return mgr.name }

func (mgr *AuthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("signup", mgr.Signup)
	g.POST("login", mgr.Login)
	g.POST("refresh", mgr.RefreshToken)
}

func (mgr *AuthMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *AuthMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	SignupReq struct {
		Username string  `json:"username" binding:"required"`
		Password string  `json:"password" binding:"required,min=8"`
		Nickname *string `json:"nickname"`
		Email    *string `json:"email" binding:"omitempty,email"`
	}

	LoginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	RefreshReq struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	LoginResp struct {
		AccessToken  string     `json:"accessToken"`
		RefreshToken string     `json:"refreshToken"`
		UserID       uint       `json:"userID"`
		Username     string     `json:"username"`
		Role         model.Role `json:"role"`
	}
)

// Signup godoc
// @Summary Register a new user
// @Description Store the user with a bcrypt password hash and return a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body SignupReq true "user info"
// @Success 200 {object} resputil.Response[LoginResp] "token pair"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Failure 409 {object} resputil.Response[any] "Username already taken"
// @Router /v1/signup [post]
func (mgr *AuthMgr) Signup(c *gin.Context) {
	var req SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	if _, err := mgr.store.GetUserByName(c, req.Username); err == nil {
		resputil.HTTPError(c, http.StatusConflict, "Username already taken", resputil.StateConflict)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		resputil.WrapServiceError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	user := &model.User{
		Name:     req.Username,
		Nickname: req.Nickname,
		Email:    req.Email,
		Password: string(hash),
		Role:     model.RoleDeveloper,
	}
	if err := mgr.store.CreateUser(c, user); err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	logutils.Log.Infof("new user %s registered", user.Name)

	mgr.respondWithTokens(c, user)
}

// Login godoc
// @Summary User login
// @Description Verify the credentials and issue a JWT token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body LoginReq true "credentials"
// @Success 200 {object} resputil.Response[LoginResp] "token pair"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Failure 401 {object} resputil.Response[any] "Invalid credentials"
// @Router /v1/login [post]
func (mgr *AuthMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	user, err := mgr.store.GetUserByName(c, req.Username)
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
		return
	}

	mgr.respondWithTokens(c, user)
}

// RefreshToken godoc
// @Summary Refresh the token pair
// @Description Validate the refresh token and issue a new pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body RefreshReq true "refresh token"
// @Success 200 {object} resputil.Response[LoginResp] "token pair"
// @Failure 401 {object} resputil.Response[any] "Invalid refresh token"
// @Router /v1/refresh [post]
func (mgr *AuthMgr) RefreshToken(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	msg, err := mgr.tokenMgr.CheckToken(req.RefreshToken)
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, err.Error(), resputil.TokenExpired)
		return
	}
	// Re-read the user so a role change invalidates stale refresh tokens.
	user, err := mgr.store.GetUser(c, msg.UserID)
	if err != nil {
		resputil.HTTPError(c, http.StatusUnauthorized, "User not found", resputil.TokenInvalid)
		return
	}

	mgr.respondWithTokens(c, user)
}

func (mgr *AuthMgr) respondWithTokens(c *gin.Context, user *model.User) {
	msg := &util.JWTMessage{
		UserID:   user.ID,
		Username: user.Name,
		Role:     user.Role,
	}
	access, refresh, err := mgr.tokenMgr.CreateTokens(msg)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, LoginResp{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       user.ID,
		Username:     user.Name,
		Role:         user.Role,
	})
}
