package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubGuard struct {
	decision checkout.Decision
	err      error
	userID   uuid.UUID
}

func (s *stubGuard) Evaluate(_ context.Context, userID uuid.UUID) (checkout.Decision, error) {
	s.userID = userID
	return s.decision, s.err
}

func TestCheckoutConfirmationRedirectIsOK(t *testing.T) {
	guard := &stubGuard{decision: checkout.Decision{Reason: checkout.ReasonUnauthenticated, RedirectTo: "/"}}

	rec := httptest.NewRecorder()
	CheckoutConfirmation(guard, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkout/confirmation", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uuid.Nil, guard.userID)
	var body map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &body))
	assert.Equal(t, false, body["allowed"])
	assert.Equal(t, "unauthenticated", body["reason"])
	assert.Equal(t, "/", body["redirect_to"])
}

func TestCheckoutConfirmationAllowed(t *testing.T) {
	userID := uuid.New()
	guard := &stubGuard{decision: checkout.Decision{Allowed: true, TotalInCents: 6000, TotalFormatted: "R$\u00a060,00"}}

	rec := httptest.NewRecorder()
	CheckoutConfirmation(guard, nil).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/checkout/confirmation", nil), userID.String()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, guard.userID)
	var decision checkout.Decision
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &decision))
	assert.True(t, decision.Allowed)
	assert.Equal(t, "R$\u00a060,00", decision.TotalFormatted)
}

func TestCheckoutConfirmationStorageFailure(t *testing.T) {
	guard := &stubGuard{err: pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("db down"), "load cart")}

	rec := httptest.NewRecorder()
	CheckoutConfirmation(guard, nil).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/v1/checkout/confirmation", nil), uuid.NewString()))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
