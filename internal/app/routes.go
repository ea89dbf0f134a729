package app

import (
	"net/http"

	"userapi/internal/auth"
	"userapi/internal/config"
	"userapi/internal/handlers"
	"userapi/internal/metrics"
	"userapi/internal/repo"
	"userapi/internal/service"

	_ "userapi/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup installs the bearer gate and registers all routes on the given engine.
// The gate is installed first so it also covers unmatched paths.
func Setup(r *gin.Engine, cfg config.Config, users repo.UserRepo, verifier auth.TokenVerifier) {
	r.Use(auth.RequireBearer(verifier, auth.NewPublicPaths(cfg.Auth.PublicPrefixes...)))

	r.GET("/public/info", infoHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/v3/api-docs", swaggerDocHandler())
	r.GET("/swagger", redirectTo("/swagger/index.html"))
	r.GET("/swagger-ui.html", redirectTo("/swagger/index.html"))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	userSvc := service.NewUserService(users)
	registerUserRoutes(r, handlers.NewUserHandler(userSvc))
}

// infoHandler godoc
// @Summary  Service information
// @Tags     public
// @Produce  json
// @Success  200  {object}  map[string]interface{}
// @Router   /public/info [get]
func infoHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "User API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/users",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func redirectTo(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, location)
	}
}

func registerUserRoutes(r *gin.Engine, h *handlers.UserHandler) {
	r.GET("/users", h.List)
	r.POST("/users", h.Create)
	r.GET("/users/:id", h.GetByID)
	r.PUT("/users/:id", h.Update)
	r.DELETE("/users/:id", h.Delete)
}
