package paymentlink

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	dErrors "fundrace/pkg/domain-errors"
	"fundrace/pkg/platform/httputil"
	"fundrace/pkg/requestcontext"
)

// Handler exposes payment link endpoints: a public active-only listing for
// the registration form and full CRUD for admins.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the applicant-facing routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/payment-links", h.handleListActive)
}

// RegisterAdmin mounts the admin routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/payment-links", h.handleList)
	r.Post("/payment-links", h.handleCreate)
	r.Patch("/payment-links/{id}", h.handleUpdate)
	r.Delete("/payment-links/{id}", h.handleDelete)
}

type createRequest struct {
	Label     string `json:"label"`
	URL       string `json:"url"`
	Active    *bool  `json:"active"`
	SortOrder int    `json:"sort_order"`
}

func (r *createRequest) Validate() error {
	if r.Label == "" {
		return dErrors.New(dErrors.CodeValidation, "label is required")
	}
	if r.URL == "" {
		return dErrors.New(dErrors.CodeValidation, "url is required")
	}
	return nil
}

type updateRequest struct {
	Label     *string `json:"label"`
	URL       *string `json:"url"`
	Active    *bool   `json:"active"`
	SortOrder *int    `json:"sort_order"`
}

func (r *updateRequest) Validate() error {
	if r.Label == nil && r.URL == nil && r.Active == nil && r.SortOrder == nil {
		return dErrors.New(dErrors.CodeValidation, "no fields to update")
	}
	return nil
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx := r.Context()
	links, err := h.service.List(ctx, activeOnly)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list payment links",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"payment_links": links})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[createRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	link, err := h.service.Create(ctx, CreateInput{
		Label:     req.Label,
		URL:       req.URL,
		Active:    req.Active,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create payment link",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, link)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid payment link id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[updateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	link, err := h.service.Update(ctx, id, UpdateInput{
		Label:     req.Label,
		URL:       req.URL,
		Active:    req.Active,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update payment link",
			"request_id", requestID,
			"payment_link_id", id.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, link)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid payment link id"))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "failed to delete payment link",
			"request_id", requestcontext.RequestID(ctx),
			"payment_link_id", id.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
