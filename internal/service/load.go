package service

import "github.com/ticketdesk/assigner/internal/models"

// LoadMap counts tickets per agent key.
type LoadMap map[string]int

// IsUnassignedForReporting is true for tickets with no agent at all. The
// Auto Assign sentinel is a real value here and gets its own bucket.
func IsUnassignedForReporting(t models.Ticket) bool {
	return t.AssignedAgent == ""
}

// IsPendingForScheduling is true only for the exact Auto Assign sentinel.
func IsPendingForScheduling(t models.Ticket) bool {
	return t.AssignedAgent == models.AutoAssign
}

// AggregateLoad counts every ticket once under its assigned agent, or under
// emptyBucket when the ticket has none.
func AggregateLoad(tickets []models.Ticket, emptyBucket string) LoadMap {
	loads := LoadMap{}
	for _, t := range tickets {
		key := t.AssignedAgent
		if IsUnassignedForReporting(t) {
			key = emptyBucket
		}
		loads[key]++
	}
	return loads
}
