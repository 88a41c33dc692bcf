package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/loopwork/taskboard/dao"
	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/internal/resputil"
	"github.com/loopwork/taskboard/internal/util"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewUserMgr)
}

type UserMgr struct {
	name  string
	store *dao.Store
}

func NewUserMgr(conf RegisterConfig) Manager {
	return &UserMgr{
		name:  "users",
		store: conf.Store,
	}
}

func (mgr *UserMgr) GetName() string { return mgr.name }

func (mgr *UserMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *UserMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("users/me", mgr.GetCurrentUser)
}

func (mgr *UserMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.GET("users", mgr.ListUsers)
	g.PUT("users/:id/role", mgr.UpdateRole)
}

type UserResp struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Nickname  *string    `json:"nickname,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

type UpdateRoleReq struct {
	Role model.Role `json:"role" binding:"required"`
}

type UserIDURI struct {
	ID uint `uri:"id" binding:"required"`
}

func toUserResp(u model.User) UserResp {
	return UserResp{
		ID:        u.ID,
		Name:      u.Name,
		Nickname:  u.Nickname,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// GetCurrentUser godoc
// @Summary Get the authenticated user's profile
// @Tags User
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[UserResp] "profile"
// @Router /v1/users/me [get]
func (mgr *UserMgr) GetCurrentUser(c *gin.Context) {
	token := util.GetToken(c)
	user, err := mgr.store.GetUser(c, token.UserID)
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, "User not found", resputil.EntityNotFound)
		return
	}
	resputil.Success(c, toUserResp(*user))
}

// ListUsers godoc
// @Summary List every registered user
// @Tags User
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[[]UserResp] "users"
// @Router /v1/admin/users [get]
func (mgr *UserMgr) ListUsers(c *gin.Context) {
	users, err := mgr.store.ListUsers(c)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, lo.Map(users, func(u model.User, _ int) UserResp {
		return toUserResp(u)
	}))
}

// UpdateRole godoc
// @Summary Change a user's platform role
// @Tags User
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "user id"
// @Param data body UpdateRoleReq true "new role"
// @Success 200 {object} resputil.Response[any] "updated"
// @Failure 400 {object} resputil.Response[any] "unknown role"
// @Failure 404 {object} resputil.Response[any] "User not found"
// @Router /v1/admin/users/{id}/role [put]
func (mgr *UserMgr) UpdateRole(c *gin.Context) {
	var uri UserIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req UpdateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if !req.Role.Valid() {
		resputil.BadRequestError(c, "unknown role")
		return
	}
	if _, err := mgr.store.GetUser(c, uri.ID); err != nil {
		resputil.HTTPError(c, http.StatusNotFound, "User not found", resputil.EntityNotFound)
		return
	}
	if err := mgr.store.UpdateUserRole(c, uri.ID, req.Role); err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, "")
}
