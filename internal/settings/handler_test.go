package settings

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundrace/internal/media"
	"fundrace/pkg/testutil"
)

type fakeMedia struct {
	uploads int
	deleted []string
}

func (m *fakeMedia) Upload(_ context.Context, name string, _ string, _ io.Reader) (*media.Upload, error) {
	m.uploads++
	return &media.Upload{
		URL:      fmt.Sprintf("/media/%d-%s", m.uploads, name),
		PublicID: fmt.Sprintf("img-%d", m.uploads),
	}, nil
}

func (m *fakeMedia) Delete(_ context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	return nil
}

func newTestHandler() (chi.Router, *fakeMedia) {
	mediaStore := &fakeMedia{}
	h := NewHandler(NewService(NewInMemoryStore(), slog.Default()), mediaStore, slog.Default())
	router := chi.NewRouter()
	h.RegisterPublic(router)
	h.RegisterAdmin(router)
	return router, mediaStore
}

func serve(router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func brandingUpload(t *testing.T, path, field, contentType string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="%s.png"`, field, field))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader("fake-image-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandlerServesDefaults(t *testing.T) {
	router, _ := newTestHandler()

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/settings"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Settings
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, ModeTeam, resp.PricingMode)
}

func TestHandlerTicketPrice(t *testing.T) {
	router, _ := newTestHandler()

	rec := serve(router, testutil.NewRequest(t, http.MethodGet, "/ticket-price"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		PricingMode string `json:"pricing_mode"`
		TicketPrice string `json:"ticket_price"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, "team", resp.PricingMode)
	assert.Equal(t, "2", resp.TicketPrice)
}

func TestHandlerUpdateRoundTrip(t *testing.T) {
	router, _ := newTestHandler()

	rec := serve(router, testutil.NewJSONRequest(t, http.MethodPut, "/settings", map[string]any{
		"pricing_mode": "tickets",
		"org_name":     "Fun Run 2026",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Settings
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, ModeTickets, resp.PricingMode)
	assert.Equal(t, "Fun Run 2026", resp.OrgName)
}

func TestHandlerRejectsBadMode(t *testing.T) {
	router, _ := newTestHandler()

	rec := serve(router, testutil.NewJSONRequest(t, http.MethodPut, "/settings", map[string]any{
		"pricing_mode": "per-person",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUploadLogoReplacesPrevious(t *testing.T) {
	router, mediaStore := newTestHandler()

	rec := serve(router, brandingUpload(t, "/settings/logo", "logo", "image/png"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, brandingUpload(t, "/settings/logo", "logo", "image/png"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		LogoURL string `json:"logo_url"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, "/media/2-logo.png", resp.LogoURL)

	// Replacing the logo discards the superseded image.
	assert.Equal(t, []string{"img-1"}, mediaStore.deleted)

	rec = serve(router, testutil.NewRequest(t, http.MethodGet, "/settings"))
	require.Equal(t, http.StatusOK, rec.Code)
	var current Settings
	testutil.DecodeJSON(t, rec, &current)
	assert.Equal(t, "/media/2-logo.png", current.LogoURL)
	assert.Equal(t, "img-2", current.LogoPublicID)
}

func TestHandlerBannerLifecycle(t *testing.T) {
	router, mediaStore := newTestHandler()

	rec := serve(router, brandingUpload(t, "/settings/banners", "banner", "image/jpeg"))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(router, brandingUpload(t, "/settings/banners", "banner", "image/jpeg"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Banners []string `json:"banners"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	require.Len(t, resp.Banners, 2)

	rec = serve(router, testutil.NewJSONRequest(t, http.MethodDelete, "/settings/banners", map[string]any{
		"public_id": "img-1",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, []string{"/media/2-banner.png"}, resp.Banners)
	assert.Contains(t, mediaStore.deleted, "img-1")

	rec = serve(router, testutil.NewJSONRequest(t, http.MethodDelete, "/settings/banners", map[string]any{
		"public_id": "img-1",
	}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerRejectsNonImageBranding(t *testing.T) {
	router, mediaStore := newTestHandler()

	rec := serve(router, brandingUpload(t, "/settings/logo", "logo", "text/plain"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, mediaStore.uploads)
}
