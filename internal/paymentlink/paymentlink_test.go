package paymentlink

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fundrace/pkg/domain-errors"
	"fundrace/pkg/testutil"
)

func newService() *Service {
	return NewService(NewInMemoryStore(), slog.Default())
}

func TestCreateValidatesURL(t *testing.T) {
	svc := newService()

	for _, raw := range []string{"", "not-a-url", "ftp://pay.example.com"} {
		_, err := svc.Create(context.Background(), CreateInput{Label: "GPay", URL: raw})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), raw)
	}
}

func TestCreateDefaultsToActive(t *testing.T) {
	svc := newService()

	link, err := svc.Create(context.Background(), CreateInput{
		Label: "Bank transfer",
		URL:   "https://pay.example.com/bank",
	})
	require.NoError(t, err)

	assert.True(t, link.Active)
	assert.NotEqual(t, uuid.Nil, link.ID)
}

func TestListActiveOnlyFiltersAndOrders(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	inactive := false

	_, err := svc.Create(ctx, CreateInput{Label: "B", URL: "https://p.example.com/b", SortOrder: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Label: "A", URL: "https://p.example.com/a", SortOrder: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Label: "C", URL: "https://p.example.com/c", Active: &inactive})
	require.NoError(t, err)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "A", active[0].Label)
	assert.Equal(t, "B", active[1].Label)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateUnknownLink(t *testing.T) {
	svc := newService()
	label := "New"

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Label: &label})

	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestUpdateTogglesActive(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	link, err := svc.Create(ctx, CreateInput{Label: "GPay", URL: "https://p.example.com/g"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, link.ID, UpdateInput{Active: &inactive})
	require.NoError(t, err)

	assert.False(t, updated.Active)
	assert.Equal(t, "GPay", updated.Label)
}

func serve(router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateAndDelete(t *testing.T) {
	svc := newService()
	h := NewHandler(svc, slog.Default())
	router := chi.NewRouter()
	h.RegisterAdmin(router)

	rec := serve(router, testutil.NewJSONRequest(t, http.MethodPost, "/payment-links", map[string]any{
		"label": "GPay",
		"url":   "https://p.example.com/g",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created PaymentLink
	testutil.DecodeJSON(t, rec, &created)

	rec = serve(router, testutil.NewRequest(t, http.MethodDelete, "/payment-links/"+created.ID.String()))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, testutil.NewRequest(t, http.MethodDelete, "/payment-links/"+created.ID.String()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerRejectsEmptyPatch(t *testing.T) {
	svc := newService()
	h := NewHandler(svc, slog.Default())
	router := chi.NewRouter()
	h.RegisterAdmin(router)

	rec := serve(router, testutil.NewJSONRequest(t, http.MethodPatch, "/payment-links/"+uuid.NewString(), map[string]any{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
