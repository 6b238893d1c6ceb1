package v1

import (
	"context"
	"net/http"
	"time"

	"jan-server/services/thread-api/internal/config"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/public"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/v1/message"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/v1/model"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/v1/share"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/v1/thread"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const readyzPingTimeout = 2 * time.Second

type V1Route struct {
	thread      *thread.ThreadRoute
	generation  *thread.GenerationRoute
	message     *message.MessageRoute
	share       *share.ShareRoute
	model       *model.ModelRoute
	publicShare *public.PublicShareRoute
	db          *gorm.DB
}

func NewV1Route(
	thread *thread.ThreadRoute,
	generation *thread.GenerationRoute,
	message *message.MessageRoute,
	share *share.ShareRoute,
	model *model.ModelRoute,
	publicShare *public.PublicShareRoute,
	db *gorm.DB,
) *V1Route {
	return &V1Route{
		thread,
		generation,
		message,
		share,
		model,
		publicShare,
		db,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Router.GET("/healthz", GetHealthz)
	v1Router.GET("/readyz", v1Route.GetReadyz)

	v1Route.thread.RegisterRouter(v1Router)
	v1Route.generation.RegisterRouter(v1Router)
	v1Route.message.RegisterRouter(v1Router)
	v1Route.share.RegisterRouter(v1Router)
	v1Route.model.RegisterRouter(v1Router)
}

// RegisterPublicRouter registers endpoints that do not require authentication
func (v1Route *V1Route) RegisterPublicRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Route.publicShare.RegisterRouter(v1Router)
}

// GetVersion godoc
// @Summary Get API build version
// @Description Returns the current build version of the API server and environment reload timestamp.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Version information including version number and environment reload timestamp"
// @Router /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":         config.Version,
		"env_reloaded_at": config.GetEnvReloadedAt().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetHealthz godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API server. Used by orchestrators and monitoring systems.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Health status OK"
// @Router /v1/healthz [get]
func GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadyz godoc
// @Summary Readiness check endpoint
// @Description Reports whether the service can reach its database and is ready to accept traffic.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Readiness status ready"
// @Failure 503 {object} map[string]string "Database unreachable"
// @Router /v1/readyz [get]
func (v1Route *V1Route) GetReadyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyzPingTimeout)
	defer cancel()

	sqlDB, err := v1Route.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
