package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dErrors "fundrace/pkg/domain-errors"
)

// Status is the review state of a registration. Transitions are
// administrator-driven; there are no automatic transitions.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "status must be one of pending, confirmed, rejected")
	}
}

// Registration is the aggregate root for a single team's submission.
//
// Invariants:
//   - TeamID, TicketsAssigned and TicketNumbers are set iff Status is
//     confirmed
//   - a transition away from confirmed clears ActualAmount and all
//     allocation fields in the same write
//   - Amount (the requested amount) is immutable after creation
type Registration struct {
	ID                    uuid.UUID        `json:"id"`
	ParticipantName       string           `json:"participant_name"`
	TeammateName          string           `json:"teammate_name"`
	Email                 string           `json:"email"`
	Address               string           `json:"address"`
	ContactNumber1        string           `json:"contact_number_1"`
	ContactNumber2        string           `json:"contact_number_2,omitempty"`
	WhatsappNumber        string           `json:"whatsapp_number"`
	Zone                  string           `json:"zone"`
	Diocese               string           `json:"diocese"`
	HowKnown              string           `json:"how_known"`
	OtherHowKnown         string           `json:"other_how_known,omitempty"`
	PreviousParticipation bool             `json:"previous_participation"`
	Amount                decimal.Decimal  `json:"amount"`
	ActualAmount          *decimal.Decimal `json:"actual_amount,omitempty"`
	Status                Status           `json:"status"`
	TeamID                *string          `json:"team_id,omitempty"`
	TicketsAssigned       *int             `json:"tickets_assigned,omitempty"`
	TicketNumbers         []string         `json:"ticket_numbers,omitempty"`
	PaymentScreenshotURL  string           `json:"payment_screenshot_url"`
	PaymentScreenshotID   string           `json:"-"`
	PaymentLinkUsed       string           `json:"payment_link_used"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// NewRegistrationInput carries the applicant-submitted fields.
type NewRegistrationInput struct {
	ParticipantName       string
	TeammateName          string
	Email                 string
	Address               string
	ContactNumber1        string
	ContactNumber2        string
	WhatsappNumber        string
	Zone                  string
	Diocese               string
	HowKnown              string
	OtherHowKnown         string
	PreviousParticipation bool
	Amount                decimal.Decimal
	PaymentScreenshotURL  string
	PaymentScreenshotID   string
	PaymentLinkUsed       string
}

// NewRegistration constructs a pending registration, enforcing required
// fields.
func NewRegistration(id uuid.UUID, in NewRegistrationInput, now time.Time) (*Registration, error) {
	required := map[string]string{
		"participant_name": in.ParticipantName,
		"teammate_name":    in.TeammateName,
		"email":            in.Email,
		"address":          in.Address,
		"contact_number_1": in.ContactNumber1,
		"whatsapp_number":  in.WhatsappNumber,
		"zone":             in.Zone,
		"diocese":          in.Diocese,
		"how_known":        in.HowKnown,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, dErrors.New(dErrors.CodeValidation, field+" is required")
		}
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be a positive number")
	}
	if in.PaymentScreenshotURL == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "payment screenshot is required")
	}
	if strings.TrimSpace(in.PaymentLinkUsed) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "payment_link_used is required")
	}

	return &Registration{
		ID:                    id,
		ParticipantName:       strings.TrimSpace(in.ParticipantName),
		TeammateName:          strings.TrimSpace(in.TeammateName),
		Email:                 strings.ToLower(strings.TrimSpace(in.Email)),
		Address:               strings.TrimSpace(in.Address),
		ContactNumber1:        strings.TrimSpace(in.ContactNumber1),
		ContactNumber2:        strings.TrimSpace(in.ContactNumber2),
		WhatsappNumber:        strings.TrimSpace(in.WhatsappNumber),
		Zone:                  strings.TrimSpace(in.Zone),
		Diocese:               strings.TrimSpace(in.Diocese),
		HowKnown:              strings.TrimSpace(in.HowKnown),
		OtherHowKnown:         strings.TrimSpace(in.OtherHowKnown),
		PreviousParticipation: in.PreviousParticipation,
		Amount:                in.Amount,
		Status:                StatusPending,
		PaymentScreenshotURL:  in.PaymentScreenshotURL,
		PaymentScreenshotID:   in.PaymentScreenshotID,
		PaymentLinkUsed:       strings.TrimSpace(in.PaymentLinkUsed),
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

func (r *Registration) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// ResolveActualAmount applies the confirmation precedence rule: an explicit
// override wins, then a previously confirmed amount, then the requested
// amount.
func (r *Registration) ResolveActualAmount(override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	if r.ActualAmount != nil {
		return *r.ActualAmount
	}
	return r.Amount
}

// ApplyTeamConfirmation moves the registration to confirmed with a single
// group identifier.
func (r *Registration) ApplyTeamConfirmation(teamID string, actual decimal.Decimal, now time.Time) {
	r.Status = StatusConfirmed
	r.TeamID = &teamID
	r.TicketsAssigned = nil
	r.TicketNumbers = nil
	r.ActualAmount = &actual
	r.UpdatedAt = now
}

// ApplyTicketConfirmation moves the registration to confirmed with an
// assigned ticket count and its codes.
func (r *Registration) ApplyTicketConfirmation(count int, codes []string, actual decimal.Decimal, now time.Time) {
	r.Status = StatusConfirmed
	r.TeamID = nil
	r.TicketsAssigned = &count
	r.TicketNumbers = codes
	r.ActualAmount = &actual
	r.UpdatedAt = now
}

// ApplyUnconfirmed moves the registration to a non-confirmed status,
// clearing every derived allocation field so no intermediate state is
// observable.
func (r *Registration) ApplyUnconfirmed(status Status, now time.Time) {
	r.Status = status
	r.ActualAmount = nil
	r.TeamID = nil
	r.TicketsAssigned = nil
	r.TicketNumbers = nil
	r.UpdatedAt = now
}

// MissingNotifyFields lists the fields the confirmation email needs but the
// registration lacks.
func (r *Registration) MissingNotifyFields() []string {
	var missing []string
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(r.ParticipantName) == "" {
		missing = append(missing, "participant_name")
	}
	return missing
}

// AllocatedCodes returns the identifiers assigned on confirmation: the
// ticket numbers when present, else the team id.
func (r *Registration) AllocatedCodes() []string {
	if len(r.TicketNumbers) > 0 {
		return r.TicketNumbers
	}
	if r.TeamID != nil {
		return []string{*r.TeamID}
	}
	return nil
}

// Clone returns a deep copy so stores can hand out records without sharing
// mutable state.
func (r *Registration) Clone() *Registration {
	cp := *r
	if r.ActualAmount != nil {
		amount := *r.ActualAmount
		cp.ActualAmount = &amount
	}
	if r.TeamID != nil {
		teamID := *r.TeamID
		cp.TeamID = &teamID
	}
	if r.TicketsAssigned != nil {
		count := *r.TicketsAssigned
		cp.TicketsAssigned = &count
	}
	if r.TicketNumbers != nil {
		cp.TicketNumbers = append([]string(nil), r.TicketNumbers...)
	}
	return &cp
}
