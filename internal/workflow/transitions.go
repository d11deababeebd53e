package workflow

import "staysync-backend/internal/model"

// ticketTransitions maps a ticket's current status to the statuses an
// owner may set from it. Any enum value is reachable while the ticket is
// open, including pending straight to completed; completed is terminal.
var ticketTransitions = map[string][]string{
	model.TicketPending:    {model.TicketPending, model.TicketInProgress, model.TicketCompleted},
	model.TicketInProgress: {model.TicketPending, model.TicketInProgress, model.TicketCompleted},
	model.TicketCompleted:  {model.TicketCompleted},
}

// TicketTransitionAllowed reports whether a ticket may move from one
// status to another.
func TicketTransitionAllowed(from, to string) bool {
	allowed, ok := ticketTransitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}
