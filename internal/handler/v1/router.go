package v1

import (
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(h *AppointmentHandler, m *metrics.Collector, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log), Metrics(m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")
	h.Register(api)

	return r
}
