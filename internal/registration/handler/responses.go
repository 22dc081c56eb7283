package handler

import (
	"fundrace/internal/registration/models"
	"fundrace/internal/registration/service"
)

type listResponse struct {
	Registrations []*models.Registration `json:"registrations"`
	Total         int                    `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

// emailStatus reports the confirmation email disposition alongside the
// persisted registration, so admins can see a skipped email without the
// transition itself failing.
type emailStatus struct {
	Outcome       string   `json:"outcome"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

type statusResponse struct {
	Registration *models.Registration `json:"registration"`
	Email        *emailStatus         `json:"email,omitempty"`
}

func newStatusResponse(result *service.StatusResult) statusResponse {
	resp := statusResponse{Registration: result.Registration}
	if result.EmailOutcome != service.EmailNotApplicable {
		resp.Email = &emailStatus{
			Outcome:       string(result.EmailOutcome),
			MissingFields: result.MissingFields,
		}
	}
	return resp
}
