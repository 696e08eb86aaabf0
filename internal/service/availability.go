package service

import (
	"time"

	"github.com/ticketdesk/assigner/internal/models"
)

// IsAvailable reports whether the agent is on shift at now and not Offline.
// The shift window is half open: shift_start <= now < shift_end, compared in
// whole seconds. Agents without shift timestamps are never available.
func IsAvailable(a models.Agent, now time.Time) bool {
	if a.ShiftStart == nil || a.ShiftEnd == nil {
		return false
	}
	if a.Status == models.AgentStatusOffline {
		return false
	}
	sec := now.Unix()
	return a.ShiftStart.Seconds <= sec && sec < a.ShiftEnd.Seconds
}

// FilterAvailable keeps the agents available at now, preserving input order.
func FilterAvailable(agents []models.Agent, now time.Time) []models.Agent {
	return filterAgents(agents, func(a models.Agent) bool {
		return IsAvailable(a, now)
	})
}

func filterAgents(agents []models.Agent, keep func(models.Agent) bool) []models.Agent {
	out := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
