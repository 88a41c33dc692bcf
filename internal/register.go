package internal

import (
	"github.com/loopwork/taskboard/internal/handler"
	"github.com/loopwork/taskboard/pkg/logutils"
)

// registerManagers instantiates every manager added to handler.Registers.
func registerManagers(conf handler.RegisterConfig) []handler.Manager {
	var managers []handler.Manager
	for _, register := range handler.Registers {
		manager := register(conf)
		managers = append(managers, manager)
		logutils.Log.Infof("Registered manager: %s", manager.GetName())
	}
	return managers
}
