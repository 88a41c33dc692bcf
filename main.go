package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/loopwork/taskboard/dao"
	"github.com/loopwork/taskboard/dao/query"
	"github.com/loopwork/taskboard/internal"
	"github.com/loopwork/taskboard/internal/handler"
	"github.com/loopwork/taskboard/pkg/alert"
	"github.com/loopwork/taskboard/pkg/config"
	"github.com/loopwork/taskboard/pkg/cronjob"
	"github.com/loopwork/taskboard/pkg/eventbus"
	"github.com/loopwork/taskboard/pkg/logutils"
	"github.com/loopwork/taskboard/pkg/taskctl"
)

// @title Taskboard API
// @version 0.1.0
// @description Collaborative task management backend with project scoped roles, ordered task lists and an audit trail.
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Call /v1/login to get a token, then fill in 'Bearer ${TOKEN}' to access protected routes.
func main() {
	// set global timezone
	time.Local = time.UTC

	backendConfig := config.GetConfig()
	// variable changes in local development
	if gin.Mode() == gin.DebugMode {
		if err := godotenv.Load(".debug.env"); err != nil {
			logutils.Log.Warnf("no .debug.env loaded: %v", err)
		}
		if be := os.Getenv("TASKBOARD_BE_PORT"); be != "" {
			backendConfig.ServerAddr = ":" + be
		}
	}

	db := query.GetDB()
	store := dao.NewStore(db)

	bus := eventbus.NewChannelBus()

	var mailer alert.Mailer
	if backendConfig.SMTP.Enable {
		m, err := alert.NewSMTPMailer()
		if err != nil {
			logutils.Log.Fatalf("init smtp mailer: %v", err)
		}
		mailer = m
	}
	notifier := alert.NewDispatcher(store, mailer)
	defer notifier.Stop()

	controller := taskctl.NewTaskController(store, bus, notifier)

	cronMgr := cronjob.NewManager(store, backendConfig.Notification.RetentionDays)
	if err := cronMgr.Start(); err != nil {
		logutils.Log.Fatalf("start cron manager: %v", err)
	}
	defer cronMgr.Stop()

	backend := internal.Register(handler.RegisterConfig{
		Store:      store,
		Controller: controller,
		Bus:        bus,
	})

	srv := &http.Server{
		Addr:              backendConfig.ServerAddr,
		Handler:           backend.R,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logutils.Log.Infof("listening on %s", backendConfig.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logutils.Log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logutils.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logutils.Log.Errorf("server shutdown: %v", err)
	}
}
