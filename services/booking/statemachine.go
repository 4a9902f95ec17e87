package booking

import "tourly/models"

// Command is a booking lifecycle command.
type Command string

const (
	CommandConfirm  Command = "confirm"
	CommandCancel   Command = "cancel"
	CommandComplete Command = "complete"
)

// transitions maps every legal (status, command) pair to its next status.
// Completed and cancelled are terminal; any pair not listed here fails with
// an invalid-transition error and leaves the booking untouched.
var transitions = map[models.BookingStatus]map[Command]models.BookingStatus{
	models.BookingPending: {
		CommandConfirm: models.BookingConfirmed,
		CommandCancel:  models.BookingCancelled,
	},
	models.BookingConfirmed: {
		CommandComplete: models.BookingCompleted,
		CommandCancel:   models.BookingCancelled,
	},
}

// NextStatus resolves the transition table for a (status, command) pair.
func NextStatus(current models.BookingStatus, cmd Command) (models.BookingStatus, bool) {
	next, ok := transitions[current][cmd]
	return next, ok
}
