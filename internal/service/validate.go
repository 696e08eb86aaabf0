package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/ticketdesk/assigner/internal/models"
)

var validate = validator.New()

// ValidateAgent reports a MalformedRecord error when the agent is missing the
// shift timestamps needed to decide availability.
func ValidateAgent(a models.Agent) error {
	return recordError("agent", a.ID, validate.Struct(a))
}

// ValidateTicket reports a MalformedRecord error when the ticket has no due date.
func ValidateTicket(t models.Ticket) error {
	return recordError("ticket", t.ID, validate.Struct(t))
}

func recordError(collection, id string, err error) error {
	if err == nil {
		return nil
	}
	rec := &models.RecordError{Collection: collection, ID: id, Err: models.ErrMalformedRecord}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		rec.Field = verrs[0].Field()
	}
	return rec
}
