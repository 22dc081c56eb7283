// Package handler exposes the registration HTTP surface: the public
// submission endpoint and the admin review endpoints.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fundrace/internal/media"
	"fundrace/internal/registration/models"
	"fundrace/internal/registration/service"
	"fundrace/internal/registration/store"
	dErrors "fundrace/pkg/domain-errors"
	"fundrace/pkg/platform/httputil"
	"fundrace/pkg/requestcontext"
)

// maxScreenshotBytes caps the uploaded payment screenshot.
const maxScreenshotBytes = 5 << 20

type Handler struct {
	service *service.Service
	media   media.Store
	logger  *slog.Logger
}

func New(svc *service.Service, mediaStore media.Store, logger *slog.Logger) *Handler {
	return &Handler{service: svc, media: mediaStore, logger: logger}
}

// RegisterPublic mounts the applicant-facing submission route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/registrations", h.handleCreate)
}

// RegisterAdmin mounts the review routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/registrations", h.handleList)
	r.Get("/registrations/export", h.handleExport)
	r.Get("/registrations/{id}", h.handleGet)
	r.Get("/registrations/{id}/screenshot", h.handleScreenshot)
	r.Patch("/registrations/{id}/status", h.handleUpdateStatus)
	r.Delete("/registrations/{id}", h.handleDelete)
	r.Post("/team-ids/reset", h.handleResetTeamIDs)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxScreenshotBytes+1<<20)
	if err := r.ParseMultipartForm(maxScreenshotBytes); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request must be multipart form data within the size limit"))
		return
	}

	file, header, err := r.FormFile("payment_screenshot")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "payment screenshot is required"))
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "payment screenshot must be an image"))
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("amount")))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "amount must be a positive number"))
		return
	}

	upload, err := h.media.Upload(ctx, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to store payment screenshot",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to store payment screenshot"))
		return
	}

	reg, err := h.service.Create(ctx, models.NewRegistrationInput{
		ParticipantName:       r.FormValue("participant_name"),
		TeammateName:          r.FormValue("teammate_name"),
		Email:                 r.FormValue("email"),
		Address:               r.FormValue("address"),
		ContactNumber1:        r.FormValue("contact_number_1"),
		ContactNumber2:        r.FormValue("contact_number_2"),
		WhatsappNumber:        r.FormValue("whatsapp_number"),
		Zone:                  r.FormValue("zone"),
		Diocese:               r.FormValue("diocese"),
		HowKnown:              r.FormValue("how_known"),
		OtherHowKnown:         r.FormValue("other_how_known"),
		PreviousParticipation: parseBool(r.FormValue("previous_participation")),
		Amount:                amount,
		PaymentScreenshotURL:  upload.URL,
		PaymentScreenshotID:   upload.PublicID,
		PaymentLinkUsed:       r.FormValue("payment_link_used"),
	})
	if err != nil {
		// The screenshot was already stored; drop it so rejected
		// submissions leave nothing behind.
		if delErr := h.media.Delete(ctx, upload.PublicID); delErr != nil {
			h.logger.WarnContext(ctx, "failed to clean up screenshot after rejected submission",
				"request_id", requestID,
				"screenshot_id", upload.PublicID,
				"error", delErr.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, reg)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list registrations",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = store.DefaultPageSize
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{
		Registrations: result.Registrations,
		Total:         result.Total,
		Page:          page,
		Limit:         limit,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	reg, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reg)
}

// handleScreenshot redirects to the stored screenshot location so admin
// clients never need to know which media backend is configured.
func (h *Handler) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	reg, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if reg.PaymentScreenshotURL == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "registration has no payment screenshot"))
		return
	}
	http.Redirect(w, r, reg.PaymentScreenshotURL, http.StatusFound)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[statusUpdateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.UpdateStatus(ctx, id, req.status, service.StatusOverrides{
		ActualAmount:    req.ActualAmount,
		TicketsAssigned: req.TicketsAssigned,
		TicketNumbers:   req.TicketNumbers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update registration status",
			"request_id", requestID,
			"registration_id", id.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, newStatusResponse(result))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleResetTeamIDs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.ResetTeamIDs(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to reset team id pool",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid registration id"))
		return uuid.Nil, false
	}
	return id, true
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}
