package settings

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"fundrace/internal/media"
	dErrors "fundrace/pkg/domain-errors"
	"fundrace/pkg/platform/httputil"
	"fundrace/pkg/requestcontext"
)

// maxBrandingBytes caps uploaded logo and banner images.
const maxBrandingBytes = 5 << 20

// Handler exposes settings endpoints. The public read serves the
// registration form's pricing copy; updates and branding uploads are
// admin-only.
type Handler struct {
	service *Service
	media   media.Store
	logger  *slog.Logger
}

func NewHandler(service *Service, mediaStore media.Store, logger *slog.Logger) *Handler {
	return &Handler{service: service, media: mediaStore, logger: logger}
}

func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.Get("/ticket-price", h.handleTicketPrice)
}

func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.Put("/settings", h.handleUpdate)
	r.Post("/settings/logo", h.handleUploadLogo)
	r.Post("/settings/banners", h.handleUploadBanner)
	r.Delete("/settings/banners", h.handleRemoveBanner)
}

type updateRequest struct {
	PricingMode        *string          `json:"pricing_mode"`
	TicketPrice        *decimal.Decimal `json:"ticket_price"`
	PricePerTeam       *decimal.Decimal `json:"price_per_team"`
	RegistrationFee    *decimal.Decimal `json:"registration_fee"`
	PricingDescription *string          `json:"pricing_description"`
	ContactPhone       *string          `json:"contact_phone"`
	AdminEmail         *string          `json:"admin_email"`
	OrgName            *string          `json:"org_name"`
	LogoURL            *string          `json:"logo_url"`
}

func (r *updateRequest) Validate() error {
	return nil
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current, err := h.service.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load settings",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, current)
}

// handleTicketPrice serves just the pricing slice the public form needs.
func (h *Handler) handleTicketPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pricing, err := h.service.Pricing(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load pricing",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"pricing_mode": pricing.Mode,
		"ticket_price": pricing.TicketPrice,
	})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[updateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.Update(ctx, UpdateInput{
		PricingMode:        req.PricingMode,
		TicketPrice:        req.TicketPrice,
		PricePerTeam:       req.PricePerTeam,
		RegistrationFee:    req.RegistrationFee,
		PricingDescription: req.PricingDescription,
		ContactPhone:       req.ContactPhone,
		AdminEmail:         req.AdminEmail,
		OrgName:            req.OrgName,
		LogoURL:            req.LogoURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update settings",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "settings updated", "request_id", requestID)
	httputil.WriteJSON(w, http.StatusOK, updated)
}

// brandingImage pulls a validated image part out of the multipart form.
func (h *Handler) brandingImage(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBrandingBytes+1<<20)
	if err := r.ParseMultipartForm(maxBrandingBytes); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request must be multipart form data within the size limit"))
		return nil, nil, false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, field+" image is required"))
		return nil, nil, false
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		file.Close()
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, field+" must be an image"))
		return nil, nil, false
	}
	return file, header, true
}

func (h *Handler) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	file, header, ok := h.brandingImage(w, r, "logo")
	if !ok {
		return
	}
	defer file.Close()

	upload, err := h.media.Upload(ctx, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to store logo",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to store logo"))
		return
	}

	updated, previous, err := h.service.SetLogo(ctx, upload.URL, upload.PublicID)
	if err != nil {
		h.discardUpload(ctx, upload.PublicID, requestID)
		httputil.WriteError(w, err)
		return
	}
	if previous != "" {
		h.discardUpload(ctx, previous, requestID)
	}

	h.logger.InfoContext(ctx, "logo updated", "request_id", requestID)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"logo_url": updated.LogoURL})
}

func (h *Handler) handleUploadBanner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	file, header, ok := h.brandingImage(w, r, "banner")
	if !ok {
		return
	}
	defer file.Close()

	upload, err := h.media.Upload(ctx, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to store banner",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to store banner"))
		return
	}

	updated, err := h.service.AddBanner(ctx, upload.URL, upload.PublicID)
	if err != nil {
		h.discardUpload(ctx, upload.PublicID, requestID)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "banner added", "request_id", requestID)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"banners": updated.Banners})
}

type removeBannerRequest struct {
	PublicID string `json:"public_id"`
}

func (r *removeBannerRequest) Validate() error {
	if strings.TrimSpace(r.PublicID) == "" {
		return dErrors.New(dErrors.CodeValidation, "public_id is required")
	}
	return nil
}

func (h *Handler) handleRemoveBanner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[removeBannerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.RemoveBanner(ctx, req.PublicID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.discardUpload(ctx, req.PublicID, requestID)

	h.logger.InfoContext(ctx, "banner removed", "request_id", requestID)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"banners": updated.Banners})
}

// discardUpload deletes a stored image best-effort; branding state is already
// consistent by the time this runs.
func (h *Handler) discardUpload(ctx context.Context, publicID, requestID string) {
	if err := h.media.Delete(ctx, publicID); err != nil {
		h.logger.WarnContext(ctx, "failed to delete stored image",
			"request_id", requestID,
			"public_id", publicID,
			"error", err.Error(),
		)
	}
}
