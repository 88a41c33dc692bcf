package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/loopwork/taskboard/dao"
	"github.com/loopwork/taskboard/internal/resputil"
	"github.com/loopwork/taskboard/internal/util"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewNotificationMgr)
}

type NotificationMgr struct {
	name  string
	store *dao.Store
}

func NewNotificationMgr(conf RegisterConfig) Manager {
	return &NotificationMgr{
		name:  "notifications",
		store: conf.Store,
	}
}

func (mgr *NotificationMgr) GetName() string { return mgr.name }

func (mgr *NotificationMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *NotificationMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("notifications", mgr.List)
	g.GET("notifications/unread_count", mgr.UnreadCount)
	g.PUT("notifications/:id/read", mgr.MarkRead)
}

func (mgr *NotificationMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	NotificationListReq struct {
		Unread bool `form:"unread"`
	}

	NotificationURI struct {
		ID uint `uri:"id" binding:"required"`
	}

	UnreadCountResp struct {
		Count int64 `json:"count"`
	}
)

// List godoc
// @Summary List the actor's notifications, newest first
// @Tags Notification
// @Produce json
// @Security Bearer
// @Param unread query bool false "only unread"
// @Success 200 {object} resputil.Response[[]model.Notification] "notifications"
// @Router /v1/notifications [get]
func (mgr *NotificationMgr) List(c *gin.Context) {
	var req NotificationListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	token := util.GetToken(c)
	notifications, err := mgr.store.ListNotifications(c, token.UserID, req.Unread)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, notifications)
}

// UnreadCount godoc
// @Summary Count the actor's unread notifications
// @Tags Notification
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[UnreadCountResp] "count"
// @Router /v1/notifications/unread_count [get]
func (mgr *NotificationMgr) UnreadCount(c *gin.Context) {
	token := util.GetToken(c)
	count, err := mgr.store.CountUnreadNotifications(c, token.UserID)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, UnreadCountResp{Count: count})
}

// MarkRead godoc
// @Summary Mark one notification as read
// @Description Read only moves from false to true; repeating the call is harmless
// @Tags Notification
// @Produce json
// @Security Bearer
// @Param id path uint true "notification id"
// @Success 200 {object} resputil.Response[any] "marked"
// @Failure 404 {object} resputil.Response[any] "Notification not found"
// @Router /v1/notifications/{id}/read [put]
func (mgr *NotificationMgr) MarkRead(c *gin.Context) {
	var uri NotificationURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	token := util.GetToken(c)

	notification, err := mgr.store.GetNotification(c, uri.ID)
	if err != nil {
		resputil.HTTPError(c, http.StatusNotFound, "Notification not found", resputil.EntityNotFound)
		return
	}
	if notification.RecipientID != token.UserID {
		resputil.HTTPError(c, http.StatusForbidden, "Not your notification", resputil.UserNotAllowed)
		return
	}
	if err := mgr.store.MarkNotificationRead(c, uri.ID); err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, "")
}
