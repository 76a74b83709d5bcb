package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/sceneforge/scene-backend/internal/api/http"
	"github.com/sceneforge/scene-backend/internal/api/http/middleware"
	"github.com/sceneforge/scene-backend/internal/projects"
	"github.com/sceneforge/scene-backend/internal/storage"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigin  string
	DB          *pgxpool.Pool
	Assets      storage.Provider
	Cleanup     projects.CleanupRecorder
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{dep.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	r.GET("/healthz", healthHandler.HealthCheck)

	api := r.Group("/api")
	api.GET("/health", healthHandler.HealthCheck)

	projectRepo := projects.NewRepo(dep.DB)
	projects.Register(api.Group("/projects"), projectRepo, dep.Assets, dep.Cleanup)

	return r
}
