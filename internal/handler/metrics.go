package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loopwork/taskboard/dao"
	"github.com/loopwork/taskboard/dao/model"
	"github.com/loopwork/taskboard/internal/resputil"
)

type MetricsMgr struct {
	name  string
	store *dao.Store
}

func NewMetricsMgr(conf RegisterConfig) Manager {
	return &MetricsMgr{
		name:  "metrics",
		store: conf.Store,
	}
}

func (mgr *MetricsMgr) GetName() string { return mgr.name }

func (mgr *MetricsMgr) RegisterPublic(metrics *gin.RouterGroup) {
	metrics.GET("", mgr.GetMetrics)
}

func (mgr *MetricsMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *MetricsMgr) RegisterAdmin(_ *gin.RouterGroup) {}

var registry *prometheus.Registry

var promHTTPHandler http.Handler

var tasksByStatusGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "tasks_by_status_total",
		Help: "Number of tasks per status",
	},
	[]string{"status"},
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewMetricsMgr)
	registry = prometheus.NewRegistry()
	promHTTPHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	registry.MustRegister(tasksByStatusGauge)
}

// GetMetrics godoc
// @Summary Expose task counts per status in Prometheus format
// @Tags Metrics
// @Produce plain
// @Success 200 {string} string "metrics"
// @Failure 500 {object} resputil.Response[any] "query failed"
// @Router /metrics [get]
func (mgr *MetricsMgr) GetMetrics(c *gin.Context) {
	counts, err := mgr.store.CountTasksByStatus(c)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	for _, status := range []model.TaskStatus{model.TaskStatusPending, model.TaskStatusInProgress, model.TaskStatusCompleted} {
		tasksByStatusGauge.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	promHTTPHandler.ServeHTTP(c.Writer, c.Request)
}
