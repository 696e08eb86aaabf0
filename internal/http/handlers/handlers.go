package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ticketdesk/assigner/internal/models"
	"github.com/ticketdesk/assigner/internal/service"
)

type Store interface {
	service.Reader
	Ping(ctx context.Context) error
	LatestRun(ctx context.Context) (models.Run, error)
}

type Assigner interface {
	Run(ctx context.Context) (service.Result, error)
}

type Handler struct {
	Store    Store
	Assigner Assigner
	Logger   zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		h.Logger.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": "ok"}})
}

// @Summary List tickets
// @Tags tickets
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /tickets [get]
func (h *Handler) TicketsList(c *gin.Context) {
	tickets, err := h.Store.ListTickets(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch tickets")
		return
	}
	writeData(c, tickets)
}

// @Summary Ticket count per assigned agent
// @Description Tickets with no agent are counted under "Unassigned".
// @Tags tickets
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /tickets/agents [get]
func (h *Handler) TicketsByAgent(c *gin.Context) {
	tickets, err := h.Store.ListTickets(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to aggregate ticket count by agent")
		return
	}
	writeData(c, service.CountByAgent(tickets))
}

// @Summary List agents
// @Tags agents
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /agents [get]
func (h *Handler) AgentsList(c *gin.Context) {
	agents, err := h.Store.ListAgents(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch agent data")
		return
	}
	writeData(c, agents)
}

// @Summary Auto-assign tickets
// @Description Hands every "Auto Assign" ticket to the least loaded agent on shift.
// @Tags tickets
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /tickets/auto-assign [post]
func (h *Handler) AutoAssign(c *gin.Context) {
	res, err := h.Assigner.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			h.fail(c, err, "Auto-assign already running")
			return
		}
		h.fail(c, err, "Failed to auto-assign tickets")
		return
	}
	c.Header("X-Run-Id", res.RunID)
	writeData(c, res.Summaries)
}

// @Summary Latest auto-assign run
// @Tags runs
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /runs/latest [get]
func (h *Handler) RunsLatest(c *gin.Context) {
	run, err := h.Store.LatestRun(c.Request.Context())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No runs found"})
			return
		}
		h.fail(c, err, "Failed to load latest run")
		return
	}
	writeData(c, run)
}

func writeData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// fail logs the cause and answers 500 with a generic message.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	h.Logger.Error().Err(err).Str("path", c.FullPath()).Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": message})
}
