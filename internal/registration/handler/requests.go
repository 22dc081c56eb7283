package handler

import (
	"net/http"
	"strconv"
	"strings"

	"fundrace/internal/registration/models"
	"fundrace/internal/registration/store"
	dErrors "fundrace/pkg/domain-errors"
)

// statusUpdateRequest is the admin status change payload. Override fields
// stay raw here; the service validates and parses them.
type statusUpdateRequest struct {
	Status          string  `json:"status"`
	ActualAmount    *string `json:"actual_amount"`
	TicketsAssigned *int    `json:"tickets_assigned"`
	TicketNumbers   *string `json:"ticket_numbers"`

	status models.Status
}

func (r *statusUpdateRequest) Validate() error {
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.status = status
	return nil
}

// filterFromQuery builds the list filter from query parameters.
func filterFromQuery(r *http.Request) (store.Filter, error) {
	var filter store.Filter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	filter.Search = strings.TrimSpace(r.URL.Query().Get("search"))

	var err error
	if filter.Page, err = positiveIntParam(r, "page"); err != nil {
		return filter, err
	}
	if filter.Limit, err = positiveIntParam(r, "limit"); err != nil {
		return filter, err
	}
	return filter, nil
}

func positiveIntParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, dErrors.New(dErrors.CodeValidation, name+" must be a positive integer")
	}
	return value, nil
}
