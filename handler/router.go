package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nav-overlay/metrics"
)

// RouterOptions 构建路由所需的依赖
type RouterOptions struct {
	Map       *MapHandler
	Auth      *AuthHandler
	StaticDir string // 为空时不提供静态页面
	Log       *zap.Logger
}

// SetupRouter 配置路由
func SetupRouter(opts RouterOptions) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(RecoveryMiddleware(log))
	r.Use(LoggerMiddleware(log))
	r.Use(metrics.Middleware())
	r.Use(CORSMiddleware())

	// 静态文件服务 - 前端地图页面
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/static/index.html")
		})
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	opts.Auth.RegisterRoutes(api)
	opts.Map.RegisterRoutes(api, opts.Auth.AuthMiddleware())

	return r
}
