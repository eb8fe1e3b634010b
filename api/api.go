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
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nuts-foundation/nuts-consent-ledger/domain"
	"github.com/nuts-foundation/nuts-consent-ledger/pkg"
)

// CallerHeader carries the authenticated caller identity, placed by the
// session layer in front of this API.
const CallerHeader = "X-Caller-Id"

// Wrapper provides the handlers over the consent ledger client.
type Wrapper struct {
	Cl pkg.ConsentLedgerClient
}

// EchoRouter is the subset of echo used to mount the handlers.
type EchoRouter interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
}

func RegisterHandlers(router EchoRouter, w Wrapper) {
	router.Add(http.MethodPost, "/api/consent", w.CreateConsent)
	router.Add(http.MethodPost, "/api/consent/batch", w.CreateConsentBatch)
	router.Add(http.MethodGet, "/api/consent/:id", w.GetConsent)
	router.Add(http.MethodPost, "/api/consent/:id/revoke", w.RevokeConsent)
	router.Add(http.MethodGet, "/api/patient/:id/consents", w.ListPatientConsents)
	router.Add(http.MethodGet, "/api/provider/:id/consents", w.ListProviderConsents)
	router.Add(http.MethodPost, "/api/request", w.CreateAccessRequest)
	router.Add(http.MethodGet, "/api/request/:id", w.GetAccessRequest)
	router.Add(http.MethodPost, "/api/request/:id/respond", w.RespondToAccessRequest)
	router.Add(http.MethodGet, "/api/patient/:id/requests", w.ListPatientRequests)
}

// Stable codes for the closed error taxonomy. Messages come from the errors
// themselves; nothing about internal storage leaks.
var errorCodes = map[error]string{
	domain.ErrInvalidIdentity:    "INVALID_IDENTITY",
	domain.ErrSelfReference:      "SELF_REFERENCE_NOT_ALLOWED",
	domain.ErrEmptyText:          "EMPTY_TEXT",
	domain.ErrTextTooLong:        "TEXT_TOO_LONG",
	domain.ErrExpirationInPast:   "EXPIRATION_IN_PAST",
	domain.ErrExpirationTooLarge: "EXPIRATION_TOO_LARGE",
	domain.ErrEmptyBatch:         "EMPTY_BATCH",
	domain.ErrBatchTooLarge:      "BATCH_TOO_LARGE",
	domain.ErrLengthMismatch:     "LENGTH_MISMATCH",
	domain.ErrConsentNotFound:    "CONSENT_NOT_FOUND",
	domain.ErrRequestNotFound:    "REQUEST_NOT_FOUND",
	domain.ErrUnauthorized:       "UNAUTHORIZED",
	domain.ErrAlreadyInactive:    "ALREADY_INACTIVE",
	domain.ErrAlreadyProcessed:   "ALREADY_PROCESSED",
	domain.ErrUnknownHash:        "UNKNOWN_HASH",
	domain.ErrReentrant:          "OPERATION_IN_PROGRESS",
}

var errorStatus = map[error]int{
	domain.ErrConsentNotFound:  http.StatusNotFound,
	domain.ErrRequestNotFound:  http.StatusNotFound,
	domain.ErrUnknownHash:      http.StatusNotFound,
	domain.ErrUnauthorized:     http.StatusForbidden,
	domain.ErrAlreadyInactive:  http.StatusConflict,
	domain.ErrAlreadyProcessed: http.StatusConflict,
	domain.ErrReentrant:        http.StatusConflict,
}

func ledgerError(ctx echo.Context, err error) error {
	code, ok := errorCodes[err]
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	status, ok := errorStatus[err]
	if !ok {
		status = http.StatusBadRequest
	}
	return ctx.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
}

func caller(ctx echo.Context) (domain.PartyID, error) {
	id := domain.PartyID(ctx.Request().Header.Get(CallerHeader))
	if id.IsZero() {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing caller identity")
	}
	return id, nil
}

func pathID(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "malformed id")
	}
	return id, nil
}

// CreateConsent grants a consent from the caller to one provider.
func (w Wrapper) CreateConsent(ctx echo.Context) error {
	callerID, err := caller(ctx)
	if err != nil {
		return err
	}
	body := &CreateConsentRequest{}
	if err := ctx.Bind(body); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}

	id, err := w.Cl.Grant(ctx.Request().Context(), callerID, domain.PartyID(body.Provider),
		body.DataTypes, body.Purposes, body.ExpiresAt)
	if err != nil {
		return ledgerError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: uint64(id)})
}

// CreateConsentBatch grants consents from the caller to several providers
// in one call.
func (w Wrapper) CreateConsentBatch(ctx echo.Context) error {
	callerID, err := caller(ctx)
	if err != nil {
		return err
	}
	body := &CreateConsentBatchRequest{}
	if err := ctx.Bind(body); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}

	providers := make([]domain.PartyID, len(body.Providers))
	for i, p := range body.Providers {
		providers[i] = domain.PartyID(p)
	}
	ids, err := w.Cl.GrantMany(ctx.Request().Context(), callerID, providers,
		body.DataTypes, body.Purposes, body.Expirations)
	if err != nil {
		return ledgerError(ctx, err)
	}
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return ctx.JSON(http.StatusCreated, CreatedBatchResponse{IDs: out})
}

// RevokeConsent deactivates a consent owned by the caller.
func (w Wrapper) RevokeConsent(ctx echo.Context) error {
	callerID, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err := w.Cl.Revoke(ctx.Request().Context(), callerID, domain.ConsentID(id)); err != nil {
		return ledgerError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetConsent returns one consent with resolved strings.
func (w Wrapper) GetConsent(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	record, err := w.Cl.GetConsent(domain.ConsentID(id))
	if err != nil {
		return ledgerError(ctx, err)
	}
	view, err := w.consentView(record)
	if err != nil {
		return ledgerError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

// ListPatientConsents returns all consents of a patient in creation order.
// Pagination and expiry filtering are left to the caller.
func (w Wrapper) ListPatientConsents(ctx echo.Context) error {
	return w.listConsents(ctx, w.Cl.ConsentsByPatient(domain.PartyID(ctx.Param("id"))))
}

// ListProviderConsents returns all consents naming a provider in creation
// order.
func (w Wrapper) ListProviderConsents(ctx echo.Context) error {
	return w.listConsents(ctx, w.Cl.ConsentsByProvider(domain.PartyID(ctx.Param("id"))))
}

func (w Wrapper) listConsents(ctx echo.Context, records []domain.Consent) error {
	views := make([]ConsentView, len(records))
	for i, record := range records {
		view, err := w.consentView(record)
		if err != nil {
			return ledgerError(ctx, err)
		}
		views[i] = view
	}
	return ctx.JSON(http.StatusOK, views)
}

// CreateAccessRequest files an ask for consent; the caller is the
// requesting provider.
func (w Wrapper) CreateAccessRequest(ctx echo.Context) error {
	callerID, err := caller(ctx)
	if err != nil {
		return err
	}
	body := &CreateAccessRequest{}
	if err := ctx.Bind(body); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}

	id, err := w.Cl.Request(ctx.Request().Context(), callerID, domain.PartyID(body.Patient),
		body.DataTypes, body.Purposes, body.ExpiresAt)
	if err != nil {
		return ledgerError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: uint64(id)})
}

// GetAccessRequest returns one access request with resolved strings.
func (w Wrapper) GetAccessRequest(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	record, err := w.Cl.GetRequest(domain.RequestID(id))
	if err != nil {
		return ledgerError(ctx, err)
	}
	view, err := w.requestView(record)
	if err != nil {
		return ledgerError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

// RespondToAccessRequest approves or denies a pending request addressed to
// the caller. The response carries the settled request; an expired request
// comes back denied even when approval was asked.
func (w Wrapper) RespondToAccessRequest(ctx echo.Context) error {
	callerID, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	body := &RespondRequest{}
	if err := ctx.Bind(body); err != nil {
		ctx.Logger().Error("Could not unmarshal json body:", err)
		return err
	}

	record, err := w.Cl.Respond(ctx.Request().Context(), callerID, domain.RequestID(id), body.Approve)
	if err != nil {
		return ledgerError(ctx, err)
	}
	view, err := w.requestView(record)
	if err != nil {
		return ledgerError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

// ListPatientRequests returns all access requests addressed to a patient in
// creation order.
func (w Wrapper) ListPatientRequests(ctx echo.Context) error {
	records := w.Cl.RequestsByPatient(domain.PartyID(ctx.Param("id")))
	views := make([]AccessRequestView, len(records))
	for i, record := range records {
		view, err := w.requestView(record)
		if err != nil {
			return ledgerError(ctx, err)
		}
		views[i] = view
	}
	return ctx.JSON(http.StatusOK, views)
}

func (w Wrapper) consentView(record domain.Consent) (ConsentView, error) {
	dataTypes, err := w.Cl.ResolveAll(record.DataTypeHashes)
	if err != nil {
		return ConsentView{}, err
	}
	purposes, err := w.Cl.ResolveAll(record.PurposeHashes)
	if err != nil {
		return ConsentView{}, err
	}
	return ConsentView{
		ID:        uint64(record.ID),
		Patient:   string(record.Patient),
		Provider:  string(record.Provider),
		DataTypes: dataTypes,
		Purposes:  purposes,
		GrantedAt: record.GrantedAt,
		ExpiresAt: record.ExpiresAt,
		Active:    record.Active,
		Expired:   w.Cl.IsExpired(record.ID),
	}, nil
}

func (w Wrapper) requestView(record domain.AccessRequest) (AccessRequestView, error) {
	dataTypes, err := w.Cl.ResolveAll(record.DataTypeHashes)
	if err != nil {
		return AccessRequestView{}, err
	}
	purposes, err := w.Cl.ResolveAll(record.PurposeHashes)
	if err != nil {
		return AccessRequestView{}, err
	}
	return AccessRequestView{
		ID:        uint64(record.ID),
		Requester: string(record.Requester),
		Patient:   string(record.Patient),
		DataTypes: dataTypes,
		Purposes:  purposes,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
		Processed: record.Processed,
		Status:    string(record.Status),
	}, nil
}
