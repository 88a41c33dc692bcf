package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/loopwork/taskboard/dao"
	"github.com/loopwork/taskboard/pkg/eventbus"
	"github.com/loopwork/taskboard/pkg/taskctl"
)

// Manager registers one resource's routes on the public, protected and
// admin groups.
type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the shared collaborators handed to each manager.
type RegisterConfig struct {
	Store      *dao.Store
	Controller *taskctl.TaskController
	Bus        eventbus.Bus
}

type ManagerRegister func(conf RegisterConfig) Manager

// Registers collects the manager constructors added by each handler file.
var Registers []ManagerRegister
