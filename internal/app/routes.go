package app

import (
	"github.com/cyberpompier/lumina/internal/config"
	"github.com/cyberpompier/lumina/internal/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	_ "github.com/cyberpompier/lumina/docs"
)

// setup registers all routes on the given engine.
func setup(r *gin.Engine, cfg config.Config, d deps) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{})))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	api := r.Group("/api/v1")

	taskHandler := handlers.NewTaskHandler(d.tasks)
	registerTaskRoutes(api, taskHandler)

	statusHandler := handlers.NewStatusHandler(d.observer, d.sw, d.mediator, d.relay, cfg.Install.WaitTimeout.Duration())
	registerStatusRoutes(api, statusHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Lumina API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.POST("/tasks/clear-completed", h.ClearCompleted)
	api.POST("/tasks/:id/toggle", h.Toggle)
	api.DELETE("/tasks/:id", h.Delete)
}

func registerStatusRoutes(api *gin.RouterGroup, h *handlers.StatusHandler) {
	api.GET("/status", h.Status)
	api.POST("/connectivity", h.Connectivity)
	api.POST("/install/offer", h.Offer)
	api.POST("/install", h.Install)
	api.POST("/install/choice", h.Choice)
}
