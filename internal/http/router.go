package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ticketdesk/assigner/internal/config"
	"github.com/ticketdesk/assigner/internal/http/handlers"
	"github.com/ticketdesk/assigner/internal/http/middleware"
	"github.com/ticketdesk/assigner/internal/metrics"

	_ "github.com/ticketdesk/assigner/docs"
)

func Router(cfg config.Config, store handlers.Store, assigner handlers.Assigner, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" || cfg.CORSAllowed == "" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:    store,
		Assigner: assigner,
		Logger:   logger,
	}

	r.GET("/", h.Landing)
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/tickets", h.TicketsList)
	r.GET("/tickets/agents", h.TicketsByAgent)
	r.POST("/tickets/auto-assign", h.AutoAssign)
	r.GET("/agents", h.AgentsList)
	r.GET("/runs/latest", h.RunsLatest)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
