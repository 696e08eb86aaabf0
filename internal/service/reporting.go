package service

import "github.com/ticketdesk/assigner/internal/models"

// CountByAgent is the read model behind GET /tickets/agents. It never looks at
// agent availability and never changes an assignment.
func CountByAgent(tickets []models.Ticket) LoadMap {
	return AggregateLoad(tickets, models.Unassigned)
}
