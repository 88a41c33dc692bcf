package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/internal/resputil"
	"github.com/loopwork/taskboard/internal/util"
	"github.com/loopwork/taskboard/pkg/taskctl"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewTaskMgr)
}

type TaskMgr struct {
	name       string
	controller *taskctl.TaskController
}

func NewTaskMgr(conf RegisterConfig) Manager {
	return &TaskMgr{
		name:       "tasks",
		controller: conf.Controller,
	}
}

func (mgr *TaskMgr) GetName() string { return mgr.name }

func (mgr *TaskMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *TaskMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("projects/:id/tasks", mgr.List)
	g.POST("projects/:id/tasks", mgr.Create)
	g.GET("tasks/:id", mgr.Get)
	g.PUT("tasks/:id", mgr.Update)
	g.PUT("tasks/:id/status", mgr.UpdateStatus)
	g.PUT("tasks/:id/position", mgr.Reorder)
	g.DELETE("tasks/:id", mgr.Delete)
	g.GET("tasks/:id/auditlogs", mgr.ListAudit)
	g.GET("auditlogs", mgr.ListActorAudit)
}

func (mgr *TaskMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	TaskURI struct {
		ID uint `uri:"id" binding:"required"`
	}

	TaskCreateReq struct {
		Title       string              `json:"title" binding:"required"`
		Description *string             `json:"description"`
		Status      *model.TaskStatus   `json:"status"`
		Priority    *model.TaskPriority `json:"priority"`
		AssigneeID  *uint               `json:"assigneeID"`
	}

	// TaskUpdateReq distinguishes absent fields from submitted ones. The
	// assignee uses a nested object so that "unassign" (null user) and
	// "not submitted" stay distinguishable in JSON.
	TaskUpdateReq struct {
		Title       *string             `json:"title"`
		Description *string             `json:"description"`
		Status      *model.TaskStatus   `json:"status"`
		Priority    *model.TaskPriority `json:"priority"`
		Assignee    *struct {
			UserID *uint `json:"userID"`
		} `json:"assignee"`
	}

	TaskStatusReq struct {
		Status model.TaskStatus `json:"status" binding:"required"`
	}

	TaskPositionReq struct {
		Position *int `json:"position" binding:"required"`
	}
)

// List godoc
// @Summary List the project's tasks ordered by position
// @Tags Task
// @Produce json
// @Security Bearer
// @Param id path uint true "project id"
// @Success 200 {object} resputil.Response[[]model.Task] "tasks"
// @Router /v1/projects/{id}/tasks [get]
func (mgr *TaskMgr) List(c *gin.Context) {
	var uri TaskURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	tasks, err := mgr.controller.ListTasks(c, util.GetActor(c), uri.ID)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, tasks)
}

// Create godoc
// @Summary Create a task at the end of the project's list
// @Tags Task
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "project id"
// @Param data body TaskCreateReq true "task fields"
// @Success 200 {object} resputil.Response[model.Task] "created task"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Router /v1/projects/{id}/tasks [post]
func (mgr *TaskMgr) Create(c *gin.Context) {
	var uri TaskURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req TaskCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, err := mgr.controller.CreateTask(c, util.GetActor(c), uri.ID, taskctl.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, task)
}

// Get godoc
// @Summary Get one task
// @Tags Task
// @Produce json
// @Security Bearer
// @Param id path uint true "task id"
// @Success 200 {object} resputil.Response[model.Task] "task"
// @Failure 404 {object} resputil.Response[any] "Task not found"
// @Router /v1/tasks/{id} [get]
func (mgr *TaskMgr) Get(c *gin.Context) {
	var uri TaskURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, err := mgr.controller.GetTask(c, util.GetActor(c), uri.ID)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, task)
}

// Update godoc
// @Summary Update the submitted task fields
// @Description Submitting a tracked field records an audit entry even when the value is unchanged
// @Tags Task
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "task id"
// @Param data body TaskUpdateReq true "fields to update"
// @Success 200 {object} resputil.Response[model.Task] "updated task"
// @Failure 403 {object} resputil.Response[any] "Not allowed"
// @Router /v1/tasks/{id} [put]
func (mgr *TaskMgr) Update(c *gin.Context) {
	var uri TaskURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req TaskUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	in := taskctl.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.Assignee != nil {
		in.Assignee = &taskctl.AssigneeInput{UserID: req.Assignee.UserID}
	}
	task, err := mgr.controller.UpdateTask(c, util.GetActor(c), uri.ID, in)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, task)
}

// UpdateStatus godoc
// @Summary Change the task status
// @Tags Task
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "task id"
// @Param data body TaskStatusReq true "new status"
// @Success 200 {object} resputil.Response[model.Task] "updated task"
// @Router /v1/tasks/{id}/status [put]
func (mgr *TaskMgr) UpdateStatus(c *gin.Context) {
	var uri TaskURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req TaskStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	task, err := mgr.controller.UpdateTaskStatus(c, util.GetActor(c), uri.ID, req.Status)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, task)
}

// Reorder godoc
// @Summary Move the task to a position and renumber the list
// @Description The target position is clamped into the list bounds
// @Tags Task
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path uint true "task id"
// @Param data body TaskPositionReq true "target position"
// @Success 200 {object} resputil.Response[[]model.Task] "reordered tasks"
// @Router /v1/tasks/{id}/position [put]
func (mgr *TaskMgr) Reorder(c *gin.Context) {
	var uri TaskURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var req TaskPositionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	actor := util.GetActor(c)
	task, err := mgr.controller.GetTask(c, actor, uri.ID)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	tasks, err := mgr.controller.ReorderTask(c, actor, task.ProjectID, uri.ID, *req.Position)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, tasks)
}

// Delete godoc
// @Summary Delete the task and its audit entries
// @Tags Task
// @Produce json
// @Security Bearer
// @Param id path uint true "task id"
// @Success 200 {object} resputil.Response[any] "deleted"
// @Failure 403 {object} resputil.Response[any] "Not allowed"
// @Router /v1/tasks/{id} [delete]
func (mgr *TaskMgr) Delete(c *gin.Context) {
	var uri TaskURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.controller.DeleteTask(c, util.GetActor(c), uri.ID); err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, "")
}

// ListAudit godoc
// @Summary List a task's audit entries, most recent first
// @Tags Audit
// @Produce json
// @Security Bearer
// @Param id path uint true "task id"
// @Success 200 {object} resputil.Response[[]model.AuditLog] "entries"
// @Router /v1/tasks/{id}/auditlogs [get]
func (mgr *TaskMgr) ListAudit(c *gin.Context) {
	var uri TaskURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	entries, err := mgr.controller.ListTaskAudit(c, util.GetActor(c), uri.ID)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, entries)
}

// ListActorAudit godoc
// @Summary List audit entries across the actor's projects
// @Tags Audit
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[[]model.AuditLog] "entries"
// @Router /v1/auditlogs [get]
func (mgr *TaskMgr) ListActorAudit(c *gin.Context) {
	entries, err := mgr.controller.ListActorAudit(c, util.GetActor(c))
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, entries)
}
