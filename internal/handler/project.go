package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/loopwork/taskboard/dao"
	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/internal/resputil"
	"github.com/loopwork/taskboard/internal/util"
	"github.com/loopwork/taskboard/pkg/taskctl"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewProjectMgr)
}

type ProjectMgr struct {
	name       string
	store      *dao.Store
	controller *taskctl.TaskController
}

func NewProjectMgr(conf RegisterConfig) Manager {
	return &ProjectMgr{
		name:       "projects",
		store:      conf.Store,
		controller: conf.Controller,
	}
}

func (mgr *ProjectMgr) GetName() string { return mgr.name }

func (mgr *ProjectMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ProjectMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("projects", mgr.List)
	g.POST("projects", mgr.Create)
	g.GET("projects/:id", mgr.Get)
	g.PUT("projects/:id", mgr.Update)
	g.DELETE("projects/:id", mgr.Delete)
	g.GET("projects/:id/members", mgr.ListMembers)
	g.POST("projects/:id/members", mgr.AddMember)
	g.PUT("projects/:id/members/:uid", mgr.UpdateMemberRole)
	g.DELETE("projects/:id/members/:uid", mgr.RemoveMember)
}

func (mgr *ProjectMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	ProjectURI struct {
		ID uint `uri:"id" binding:"required"`
	}

	MemberURI struct {
		ID     uint `uri:"id" binding:"required"`
		UserID uint `uri:"uid" binding:"required"`
	}

	ProjectCreateReq struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}

	ProjectUpdateReq struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	MemberAddReq struct {
		UserID uint              `json:"userID" binding:"required"`
		Role   model.ProjectRole `json:"role" binding:"required"`
	}

	MemberRoleReq struct {
		Role model.ProjectRole `json:"role" binding:"required"`
	}

	MemberResp struct {
		UserID uint              `json:"userID"`
		Role   model.ProjectRole `json:"role"`
	}
)

// List godoc
// @Summary List the actor's projects
// @Tags Project
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[[]model.Project] "projects"
// @Router /v1/projects [get]
func (mgr *ProjectMgr) List(c *gin.Context) {
	projects, err := mgr.controller.ListProjects(c, util.GetActor(c))
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, projects)
}

// Create godoc
// @Summary Create a project owned by the actor
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body ProjectCreateReq true "project info"
// @Success 200 {object} resputil.Response[model.Project] "created project"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Router /v1/projects [post]
func (mgr *ProjectMgr) Create(c *gin.Context) {
	var req ProjectCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	project, err := mgr.controller.CreateProject(c, util.GetActor(c), req.Name, req.Description)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, project)
}

// Get godoc
// @Summary Get one project
// @Tags Project
// @Produce json
// @Security Bearer
// @Param id path uint true "project id"
// @Success 200 {object} resputil.Response[model.Project] "project"
// @Failure 404 {object} resputil.Response[any] "Project not found"
// @Router /v1/projects/{id} [get]
func (mgr *ProjectMgr) Get(c *gin.Context) {
	var uri ProjectURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	project, err := mgr.controller.GetProject(c, util.GetActor(c), uri.ID)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, project)
}

// Update godoc
// @Summary Rename or re-describe a project
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "project id"
// @Param data body ProjectUpdateReq true "fields to update"
// @Success 200 {object} resputil.Response[model.Project] "updated project"
// @Failure 403 {object} resputil.Response[any] "Not allowed"
// @Router /v1/projects/{id} [put]
func (mgr *ProjectMgr) Update(c *gin.Context) {
	var uri ProjectURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req ProjectUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	project, err := mgr.controller.UpdateProject(c, util.GetActor(c), uri.ID, req.Name, req.Description)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, project)
}

// Delete godoc
// @Summary Delete a project and everything in it
// @Tags Project
// @Produce json
// @Security Bearer
// @Param id path uint true "project id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Failure 403 {object} resputil.Response[any] "Not allowed"
// @Router /v1/projects/{id} [delete]
func (mgr *ProjectMgr) Delete(c *gin.Context) {
	var uri ProjectURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.controller.DeleteProject(c, util.GetActor(c), uri.ID); err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, "")
}

// ListMembers godoc
// @Summary List project members with their roles
// @Tags Project
// @Produce json
// @Security Bearer
// @Param id path uint true "project id"
// @Success 200 {object} resputil.Response[[]MemberResp] "members"
// @Router /v1/projects/{id}/members [get]
func (mgr *ProjectMgr) ListMembers(c *gin.Context) {
	var uri ProjectURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	// Viewing membership is gated the same way as viewing the board.
	if _, err := mgr.controller.GetProject(c, util.GetActor(c), uri.ID); err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	memberships, err := mgr.store.ListMemberships(c, uri.ID)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resp := lo.Map(memberships, func(m model.Membership, _ int) MemberResp {
		return MemberResp{UserID: m.UserID, Role: m.Role}
	})
	resputil.Success(c, resp)
}

// AddMember godoc
// @Summary Add a user to the project
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "project id"
// @Param data body MemberAddReq true "user and role"
// @Success 200 {object} resputil.Response[model.Membership] "membership"
// @Failure 409 {object} resputil.Response[any] "Already a member"
// @Router /v1/projects/{id}/members [post]
func (mgr *ProjectMgr) AddMember(c *gin.Context) {
	var uri ProjectURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req MemberAddReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	membership, err := mgr.controller.AddMember(c, util.GetActor(c), uri.ID, req.UserID, req.Role)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, membership)
}

// UpdateMemberRole godoc
// @Summary Change a member's role
// @Tags Project
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "project id"
// @Param uid path uint true "user id"
// @Param data body MemberRoleReq true "new role"
// @Success 200 {object} resputil.Response[model.Membership] "membership"
// @Failure 409 {object} resputil.Response[any] "Role unchanged"
// @Router /v1/projects/{id}/members/{uid} [put]
func (mgr *ProjectMgr) UpdateMemberRole(c *gin.Context) {
	var uri MemberURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req MemberRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	membership, err := mgr.controller.UpdateMemberRole(c, util.GetActor(c), uri.ID, uri.UserID, req.Role)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, membership)
}

// RemoveMember godoc
// @Summary Remove a user from the project
// @Tags Project
// @Produce json
// @Security Bearer
// @Param id path uint true "project id"
// @Param uid path uint true "user id"
// @Success 200 {object} resputil.Response[any] "removed"
// @Failure 403 {object} resputil.Response[any] "Not allowed"
// @Router /v1/projects/{id}/members/{uid} [delete]
func (mgr *ProjectMgr) RemoveMember(c *gin.Context) {
	var uri MemberURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.controller.RemoveMember(c, util.GetActor(c), uri.ID, uri.UserID); err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, "")
}
