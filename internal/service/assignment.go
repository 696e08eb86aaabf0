package service

import (
	"time"

	"github.com/ticketdesk/assigner/internal/models"
)

// DueDateLayout matches the en-US locale rendering of a date and time.
const DueDateLayout = "1/2/2006, 3:04:05 PM"

type Decision struct {
	Ticket   models.Ticket
	Summary  models.TicketSummary
	Assigned bool
}

type Plan struct {
	Decisions []Decision
	Available []models.Agent
	Loads     LoadMap
	Malformed []error
}

// PlanAssignments hands every Auto Assign ticket, in input order, to the
// available agent with the lowest current load. The load of the chosen agent is
// bumped before the next ticket is considered. Ties go to the agent listed
// first. Tickets carrying any other value keep it.
//
// Agents without shift timestamps and tickets without a due date are reported
// in Plan.Malformed. Malformed tickets still count toward load but produce no
// decision.
func PlanAssignments(tickets []models.Ticket, agents []models.Agent, now time.Time, loc *time.Location) Plan {
	if loc == nil {
		loc = time.UTC
	}
	plan := Plan{Decisions: make([]Decision, 0, len(tickets))}

	wellFormed := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if err := ValidateAgent(a); err != nil {
			plan.Malformed = append(plan.Malformed, err)
			continue
		}
		wellFormed = append(wellFormed, a)
	}
	plan.Available = FilterAvailable(wellFormed, now)

	plan.Loads = AggregateLoad(tickets, models.AutoAssign)
	delete(plan.Loads, models.AutoAssign)

	for _, t := range tickets {
		if err := ValidateTicket(t); err != nil {
			plan.Malformed = append(plan.Malformed, err)
			continue
		}

		agent := t.AssignedAgent
		assigned := false
		if IsPendingForScheduling(t) && len(plan.Available) > 0 {
			picked := PickAssignee(plan.Available, plan.Loads)
			agent = picked.Name
			plan.Loads[agent]++
			assigned = true
		}

		plan.Decisions = append(plan.Decisions, Decision{
			Ticket:   t,
			Assigned: assigned,
			Summary: models.TicketSummary{
				Title:         t.Title,
				DueDate:       FormatDueDate(*t.DueDate, loc),
				AssignedAgent: agent,
				Status:        ticketStatus(t),
			},
		})
	}
	return plan
}

// PickAssignee returns the first agent with the minimum load. available must
// not be empty.
func PickAssignee(available []models.Agent, loads LoadMap) models.Agent {
	best := available[0]
	bestLoad := loads[best.Name]
	for _, a := range available[1:] {
		if l := loads[a.Name]; l < bestLoad {
			best, bestLoad = a, l
		}
	}
	return best
}

func FormatDueDate(ts models.Timestamp, loc *time.Location) string {
	return ts.Time().In(loc).Format(DueDateLayout)
}

func ticketStatus(t models.Ticket) string {
	if t.Status == "" {
		return models.TicketStatusPending
	}
	return t.Status
}
