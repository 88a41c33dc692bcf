package internal

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/loopwork/taskboard/internal/handler"
	"github.com/loopwork/taskboard/internal/middleware"
)

type Backend struct {
	R *gin.Engine
}

func Register(conf handler.RegisterConfig) *Backend {
	s := new(Backend)
	s.R = gin.Default()

	// Health check
	s.R.GET("/v1/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ok",
		})
	})

	s.RegisterService(conf)

	return s
}

func (b *Backend) RegisterService(conf handler.RegisterConfig) {
	// Enable CORS for http://localhost:XXXX in debug mode
	if gin.Mode() == gin.DebugMode {
		fe := os.Getenv("TASKBOARD_FE_PORT")
		if fe != "" {
			url := "http://localhost:" + fe
			corsConf := cors.DefaultConfig()
			corsConf.AllowOrigins = []string{url}
			corsConf.AllowHeaders = append(corsConf.AllowHeaders, "Authorization")
			b.R.Use(cors.New(corsConf))
		}
	}

	managers := registerManagers(conf)

	publicRouter := b.R.Group("/v1")

	protectedRouter := b.R.Group("/v1")
	protectedRouter.Use(middleware.AuthProtected())

	adminRouter := b.R.Group("/v1/admin")
	adminRouter.Use(middleware.AuthProtected(), middleware.AuthAdmin())

	metricsRouter := b.R.Group("/metrics")

	for _, mgr := range managers {
		if mgr.GetName() == "metrics" {
			mgr.RegisterPublic(metricsRouter)
			continue
		}
		mgr.RegisterPublic(publicRouter)
		mgr.RegisterProtected(protectedRouter)
		mgr.RegisterAdmin(adminRouter)
	}
}
