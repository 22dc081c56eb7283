// Package notify carries confirmation emails from the status workflow to a
// background sender. The workflow enqueues a job and returns; delivery runs
// on a worker and can never block or reverse a persisted status change.
package notify

import "context"

// Job is a self-contained snapshot of everything the confirmation email
// needs. It deliberately copies fields off the registration so the worker
// never reads shared mutable state.
type Job struct {
	RegistrationID  string   `json:"registration_id"`
	Email           string   `json:"email"`
	ParticipantName string   `json:"participant_name"`
	TeammateName    string   `json:"teammate_name,omitempty"`
	TeamID          string   `json:"team_id,omitempty"`
	TicketNumbers   []string `json:"ticket_numbers,omitempty"`
	ActualAmount    string   `json:"actual_amount"`
}

// Queue hands jobs to the delivery side. Enqueue must not block the caller;
// a full or unavailable queue returns an error the workflow treats as
// non-fatal.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}
