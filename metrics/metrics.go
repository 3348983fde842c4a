package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nav-overlay/model"
)

const namespace = "navoverlay"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"method", "path"})

	ShapeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "shapes",
		Name:      "events_total",
		Help:      "Shape lifecycle events (created, edited, deleted)",
	}, []string{"kind", "event"})

	ActiveShapes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "shapes",
		Name:      "active",
		Help:      "Shapes currently held in the drawn layer registry",
	})

	AnnotationsProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "annotate",
		Name:      "annotations_total",
		Help:      "Annotations produced by kind",
	}, []string{"kind"})

	GridLookups = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "grid",
		Name:      "lookups_total",
		Help:      "Points converted to grid indices",
	})

	OutOfBoundsLookups = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "grid",
		Name:      "out_of_bounds_total",
		Help:      "Grid lookups for points outside the map bounds",
	})

	TravelSpeed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "annotate",
		Name:      "speed",
		Help:      "Current travel speed used for annotation",
	})
)

// RecordAnnotations 按类型统计标注数量
func RecordAnnotations(annotations []model.Annotation) {
	for _, a := range annotations {
		AnnotationsProduced.WithLabelValues(string(a.Kind)).Inc()
	}
}

// RecordShape 统计图形生命周期事件
func RecordShape(kind model.ShapeKind, event string) {
	ShapeEvents.WithLabelValues(string(kind), event).Inc()
}

// Middleware 记录请求指标，path 使用路由模板避免高基数
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
