package app

import (
	"context"
	"net/http"
	"time"

	"go-tasktracker/internal/config"
	"go-tasktracker/internal/middleware"
	"go-tasktracker/internal/shared/apperror"
	"go-tasktracker/internal/shared/metrics"
	"go-tasktracker/internal/shared/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the HTTP surface: infrastructure endpoints at the root and
// the API under /api/v1.
func NewRouter(ctx context.Context, in *Infra, cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(in.Metrics))
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/healthz", healthz(in))
	r.GET("/metrics", gin.WrapH(metrics.Handler(in.Registry)))

	if err := registerModules(ctx, r.Group("/api/v1"), in, cfg, logger); err != nil {
		return nil, err
	}
	return r, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = []string{cfg.ClientURL}
	c.AllowCredentials = true
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Client-Type", "X-Request-ID", middleware.IdempotencyHeader}
	c.ExposeHeaders = []string{"X-Request-ID"}
	c.MaxAge = 12 * time.Hour
	return c
}

func healthz(in *Infra) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok"}
		dbErr := in.DB.PingContext(ctx)
		if dbErr != nil {
			checks["database"] = dbErr.Error()
		}
		if in.Redis != nil {
			checks["redis"] = "ok"
			if err := in.Redis.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
			}
		}

		if dbErr != nil {
			e := apperror.ErrUnavailable
			response.Error(c, e.HTTPStatus, e.Code, e.Message, checks)
			return
		}
		response.Success(c, http.StatusOK, checks, nil)
	}
}
