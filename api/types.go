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

// CreateConsentRequest grants the caller's data to one provider.
// Expiration is in unix seconds, 0 or absent meaning never.
type CreateConsentRequest struct {
	Provider  string   `json:"provider"`
	DataTypes []string `json:"dataTypes"`
	Purposes  []string `json:"purposes"`
	ExpiresAt int64    `json:"expiresAt,omitempty"`
}

// CreateConsentBatchRequest grants to several providers at once. Providers
// and Expirations are parallel arrays.
type CreateConsentBatchRequest struct {
	Providers   []string `json:"providers"`
	DataTypes   []string `json:"dataTypes"`
	Purposes    []string `json:"purposes"`
	Expirations []int64  `json:"expirations"`
}

// CreateAccessRequest files an ask for consent from a patient.
type CreateAccessRequest struct {
	Patient   string   `json:"patient"`
	DataTypes []string `json:"dataTypes"`
	Purposes  []string `json:"purposes"`
	ExpiresAt int64    `json:"expiresAt,omitempty"`
}

// RespondRequest settles a pending access request.
type RespondRequest struct {
	Approve bool `json:"approve"`
}

type CreatedResponse struct {
	ID uint64 `json:"id"`
}

type CreatedBatchResponse struct {
	IDs []uint64 `json:"ids"`
}

// ConsentView is a consent record with hashes resolved to their interned
// strings and the advisory expiration evaluated at read time.
type ConsentView struct {
	ID        uint64   `json:"id"`
	Patient   string   `json:"patient"`
	Provider  string   `json:"provider"`
	DataTypes []string `json:"dataTypes"`
	Purposes  []string `json:"purposes"`
	GrantedAt int64    `json:"grantedAt"`
	ExpiresAt int64    `json:"expiresAt"`
	Active    bool     `json:"active"`
	Expired   bool     `json:"expired"`
}

// AccessRequestView is an access request with resolved strings.
type AccessRequestView struct {
	ID        uint64   `json:"id"`
	Requester string   `json:"requester"`
	Patient   string   `json:"patient"`
	DataTypes []string `json:"dataTypes"`
	Purposes  []string `json:"purposes"`
	CreatedAt int64    `json:"createdAt"`
	ExpiresAt int64    `json:"expiresAt"`
	Processed bool     `json:"processed"`
	Status    string   `json:"status"`
}

// ErrorResponse carries the stable code and message for one member of the
// ledger's error taxonomy.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
