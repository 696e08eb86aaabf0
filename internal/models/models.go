package models

import "time"

const (
	// AutoAssign marks a ticket that is waiting for the scheduler.
	AutoAssign = "Auto Assign"
	// Unassigned is the reporting bucket for tickets without an agent.
	Unassigned = "Unassigned"

	AgentStatusOffline  = "Offline"
	TicketStatusPending = "Pending"
)

// Timestamp is the store's native time representation: whole seconds since the
// epoch plus a nanosecond remainder.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanoseconds"`
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

type Agent struct {
	ID         string     `json:"agent_id"`
	Name       string     `json:"name"`
	ShiftStart *Timestamp `json:"shift_start" validate:"required"`
	ShiftEnd   *Timestamp `json:"shift_end" validate:"required"`
	Status     string     `json:"status"`
}

type Ticket struct {
	ID            string     `json:"ticket_id"`
	Title         string     `json:"title"`
	DueDate       *Timestamp `json:"due_date" validate:"required"`
	AssignedAgent string     `json:"assigned_agent,omitempty"`
	Status        string     `json:"status,omitempty"`
}

// TicketSummary is what a scheduling run reports back for each ticket.
type TicketSummary struct {
	Title         string `json:"title"`
	DueDate       string `json:"due_date"`
	AssignedAgent string `json:"assigned_agent"`
	Status        string `json:"status"`
}

type AssignmentRecord struct {
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	TicketID      string    `json:"ticket_id"`
	Title         string    `json:"title"`
	DueDate       string    `json:"due_date"`
	AssignedAgent string    `json:"assigned_agent"`
	Status        string    `json:"status"`
	AssignedAt    time.Time `json:"assigned_at"`
}

type RunCounts struct {
	Tickets        int `json:"tickets"`
	Pending        int `json:"pending"`
	Assigned       int `json:"assigned"`
	LeftPending    int `json:"left_pending"`
	Malformed      int `json:"malformed"`
	AppendFailures int `json:"append_failures"`
	AgentsTotal    int `json:"agents_total"`
	AgentsOnShift  int `json:"agents_available"`
}

type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Status     string     `json:"status"`
	Counts     RunCounts  `json:"counts"`
}
