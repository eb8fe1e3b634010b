/*
 *  Nuts consent ledger holds patient consent permissions
 *  Copyright (C) 2020 Nuts community
 *
 *  This program is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  This program is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License
 *  along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-consent-ledger/domain"
	"github.com/nuts-foundation/nuts-consent-ledger/pkg/mock"
)

const testPatient = "bsn:999"
const testProvider = "agb:123"

func testContext(t *testing.T, method, path, body, callerID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if callerID != "" {
		req.Header.Set(CallerHeader, callerID)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWrapper_CreateConsent(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		client := mock.NewMockConsentLedgerClient(ctrl)
		client.EXPECT().Grant(gomock.Any(), domain.PartyID(testPatient), domain.PartyID(testProvider),
			[]string{"observations"}, []string{"treatment"}, int64(0)).
			Return(domain.ConsentID(12), nil)

		ctx, rec := testContext(t, http.MethodPost, "/api/consent",
			`{"provider":"agb:123","dataTypes":["observations"],"purposes":["treatment"]}`, testPatient)

		require.NoError(t, Wrapper{Cl: client}.CreateConsent(ctx))
		assert.Equal(t, http.StatusCreated, rec.Code)

		response := CreatedResponse{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, uint64(12), response.ID)
	})

	t.Run("missing caller header", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		client := mock.NewMockConsentLedgerClient(ctrl)

		ctx, _ := testContext(t, http.MethodPost, "/api/consent",
			`{"provider":"agb:123","dataTypes":["observations"],"purposes":["treatment"]}`, "")

		err := Wrapper{Cl: client}.CreateConsent(ctx)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("taxonomy errors map to stable codes", func(t *testing.T) {
		cases := map[string]struct {
			ledgerErr  error
			statusCode int
			code       string
		}{
			"self reference": {domain.ErrSelfReference, http.StatusBadRequest, "SELF_REFERENCE_NOT_ALLOWED"},
			"past expiry":    {domain.ErrExpirationInPast, http.StatusBadRequest, "EXPIRATION_IN_PAST"},
			"busy ledger":    {domain.ErrReentrant, http.StatusConflict, "OPERATION_IN_PROGRESS"},
		}

		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()
				client := mock.NewMockConsentLedgerClient(ctrl)
				client.EXPECT().Grant(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(domain.ConsentID(0), tc.ledgerErr)

				ctx, rec := testContext(t, http.MethodPost, "/api/consent",
					`{"provider":"agb:123","dataTypes":["observations"],"purposes":["treatment"]}`, testPatient)

				require.NoError(t, Wrapper{Cl: client}.CreateConsent(ctx))
				assert.Equal(t, tc.statusCode, rec.Code)

				response := ErrorResponse{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
				assert.Equal(t, tc.code, response.Code)
			})
		}
	})
}

func TestWrapper_RevokeConsent(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		client := mock.NewMockConsentLedgerClient(ctrl)
		client.EXPECT().Revoke(gomock.Any(), domain.PartyID(testPatient), domain.ConsentID(4)).Return(nil)

		ctx, rec := testContext(t, http.MethodPost, "/api/consent/4/revoke", "", testPatient)
		ctx.SetParamNames("id")
		ctx.SetParamValues("4")

		require.NoError(t, Wrapper{Cl: client}.RevokeConsent(ctx))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("foreign consent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		client := mock.NewMockConsentLedgerClient(ctrl)
		client.EXPECT().Revoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ErrUnauthorized)

		ctx, rec := testContext(t, http.MethodPost, "/api/consent/4/revoke", "", testProvider)
		ctx.SetParamNames("id")
		ctx.SetParamValues("4")

		require.NoError(t, Wrapper{Cl: client}.RevokeConsent(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		client := mock.NewMockConsentLedgerClient(ctrl)

		ctx, _ := testContext(t, http.MethodPost, "/api/consent/nope/revoke", "", testPatient)
		ctx.SetParamNames("id")
		ctx.SetParamValues("nope")

		err := Wrapper{Cl: client}.RevokeConsent(ctx)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestWrapper_GetConsent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockConsentLedgerClient(ctrl)

	dataTypeHash := domain.HashOf("observations")
	purposeHash := domain.HashOf("treatment")
	record := domain.Consent{
		ID:             7,
		Patient:        testPatient,
		Provider:       testProvider,
		DataTypeHashes: []domain.Hash{dataTypeHash},
		PurposeHashes:  []domain.Hash{purposeHash},
		GrantedAt:      1594422000,
		ExpiresAt:      1594425600,
		Active:         true,
	}
	client.EXPECT().GetConsent(domain.ConsentID(7)).Return(record, nil)
	client.EXPECT().ResolveAll([]domain.Hash{dataTypeHash}).Return([]string{"observations"}, nil)
	client.EXPECT().ResolveAll([]domain.Hash{purposeHash}).Return([]string{"treatment"}, nil)
	client.EXPECT().IsExpired(domain.ConsentID(7)).Return(true)

	ctx, rec := testContext(t, http.MethodGet, "/api/consent/7", "", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues("7")

	require.NoError(t, Wrapper{Cl: client}.GetConsent(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	view := ConsentView{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, []string{"observations"}, view.DataTypes)
	assert.Equal(t, []string{"treatment"}, view.Purposes)
	// Active and expired at once: interpretation stays with the caller.
	assert.True(t, view.Active)
	assert.True(t, view.Expired)
}

func TestWrapper_RespondToAccessRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockConsentLedgerClient(ctrl)

	settled := domain.AccessRequest{
		ID:             3,
		Requester:      testProvider,
		Patient:        testPatient,
		DataTypeHashes: []domain.Hash{domain.HashOf("observations")},
		PurposeHashes:  []domain.Hash{domain.HashOf("treatment")},
		Processed:      true,
		Status:         domain.StatusDenied,
	}
	client.EXPECT().Respond(gomock.Any(), domain.PartyID(testPatient), domain.RequestID(3), true).
		Return(settled, nil)
	client.EXPECT().ResolveAll(gomock.Any()).Return([]string{"observations"}, nil)
	client.EXPECT().ResolveAll(gomock.Any()).Return([]string{"treatment"}, nil)

	ctx, rec := testContext(t, http.MethodPost, "/api/request/3/respond", `{"approve":true}`, testPatient)
	ctx.SetParamNames("id")
	ctx.SetParamValues("3")

	require.NoError(t, Wrapper{Cl: client}.RespondToAccessRequest(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	// An expired request comes back denied even though approval was asked.
	view := AccessRequestView{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, string(domain.StatusDenied), view.Status)
	assert.True(t, view.Processed)
}

func TestWrapper_ListPatientConsents(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	client := mock.NewMockConsentLedgerClient(ctrl)

	records := []domain.Consent{
		{ID: 0, Patient: testPatient, Provider: testProvider,
			DataTypeHashes: []domain.Hash{domain.HashOf("a")}, PurposeHashes: []domain.Hash{domain.HashOf("b")}, Active: true},
		{ID: 1, Patient: testPatient, Provider: "agb:456",
			DataTypeHashes: []domain.Hash{domain.HashOf("a")}, PurposeHashes: []domain.Hash{domain.HashOf("b")}, Active: false},
	}
	client.EXPECT().ConsentsByPatient(domain.PartyID(testPatient)).Return(records)
	client.EXPECT().ResolveAll(gomock.Any()).Return([]string{"a"}, nil).Times(2)
	client.EXPECT().ResolveAll(gomock.Any()).Return([]string{"b"}, nil).Times(2)
	client.EXPECT().IsExpired(gomock.Any()).Return(false).Times(2)

	ctx, rec := testContext(t, http.MethodGet, "/api/patient/bsn:999/consents", "", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues(testPatient)

	require.NoError(t, Wrapper{Cl: client}.ListPatientConsents(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	views := []ConsentView{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, uint64(0), views[0].ID)
	assert.Equal(t, uint64(1), views[1].ID)
}
