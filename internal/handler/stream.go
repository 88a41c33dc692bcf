package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/loopwork/taskboard/internal/resputil"
	"github.com/loopwork/taskboard/internal/util"
	"github.com/loopwork/taskboard/pkg/config"
	"github.com/loopwork/taskboard/pkg/eventbus"
	"github.com/loopwork/taskboard/pkg/logutils"
	"github.com/loopwork/taskboard/pkg/taskctl"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewStreamMgr)
}

type StreamMgr struct {
	name       string
	controller *taskctl.TaskController
	bus        eventbus.Bus
}

func NewStreamMgr(conf RegisterConfig) Manager {
	return &StreamMgr{
		name:       "stream",
		controller: conf.Controller,
		bus:        conf.Bus,
	}
}

func (mgr *StreamMgr) GetName() string { return mgr.name }

func (mgr *StreamMgr) RegisterPublic(_ *gin.RouterGroup) {}
func (mgr *StreamMgr) RegisterAdmin(_ *gin.RouterGroup)  {}

func (mgr *StreamMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("projects/:id/stream", mgr.StreamProjectEvents)
}

type StreamURI struct {
	ProjectID uint `uri:"id" binding:"required"`
}

const (
	// writeTimeout specifies the maximum duration for completing a write operation.
	writeTimeout = 10 * time.Second
	// pingInterval keeps idle connections from being dropped by proxies.
	pingInterval = 30 * time.Second
)

// StreamProjectEvents godoc
// @Summary Stream project events over a websocket
// @Description Pushes task and project change events as JSON frames until the client disconnects
// @Tags Stream
// @Security Bearer
// @Param id path uint true "project id"
// @Failure 403 {object} resputil.Response[any] "Not a member of the project"
// @Router /v1/projects/{id}/stream [get]
func (mgr *StreamMgr) StreamProjectEvents(c *gin.Context) {
	var uri StreamURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	actor := util.GetActor(c)

	// Viewing gate before the upgrade, same rules as GET project.
	if _, err := mgr.controller.GetProject(c, actor, uri.ProjectID); err != nil {
		resputil.WrapServiceError(c, err)
		return
	}

	upgrade := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	// Allow all origins in debug mode
	if config.IsDebugMode() {
		upgrade.CheckOrigin = func(_ *http.Request) bool {
			return true
		}
	}
	ws, err := upgrade.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	defer ws.Close()

	subscriberID := uuid.NewString()
	events := mgr.bus.Subscribe(uri.ProjectID, subscriberID)
	defer mgr.bus.Unsubscribe(uri.ProjectID, subscriberID)

	// Read pump: we never expect frames from the client, but reading is
	// the only way to observe the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return
			}
			if err := ws.WriteJSON(event); err != nil {
				logutils.Log.Debugf("stream: write to subscriber %s failed: %v", subscriberID, err)
				return
			}
		case <-ticker.C:
			if err := ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				return
			}
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
