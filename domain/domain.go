package domain

import (
	"crypto/sha256"
	"encoding/hex"

	eh "github.com/looplab/eventhorizon"
)

// LedgerAggregateType tags every event published by a ledger instance.
const LedgerAggregateType = eh.AggregateType("consent-ledger")

// PartyID identifies a patient or care provider. The empty string is the
// null identity and never owns a record.
type PartyID string

func (p PartyID) IsZero() bool {
	return p == ""
}

type ConsentID uint64

type RequestID uint64

// Hash is the content hash of an interned data-type or purpose string.
type Hash [sha256.Size]byte

func HashOf(text string) Hash {
	return sha256.Sum256([]byte(text))
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	return h.decode(string(text))
}

func (h *Hash) decode(s string) error {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != sha256.Size {
		return ErrUnknownHash
	}
	copy(h[:], raw)
	return nil
}

// ParseHash parses the hex form produced by Hash.String.
func ParseHash(s string) (Hash, error) {
	var h Hash
	err := h.decode(s)
	return h, err
}

// HashStrings renders a hash list in its hex form, for event payloads.
func HashStrings(hashes []Hash) []string {
	out := make([]string, len(hashes))
	for i, h := range hashes {
		out[i] = h.String()
	}
	return out
}

// Consent is a standing permission from a patient to a provider to use any
// of the listed data types for any of the listed purposes. A single grant is
// stored as lists of length 1; there is no separate single-item shape.
// Patient, Provider and the hash lists are immutable after creation; only
// Active flips, one way, true to false.
type Consent struct {
	ID             ConsentID `json:"id"`
	Patient        PartyID   `json:"patient"`
	Provider       PartyID   `json:"provider"`
	DataTypeHashes []Hash    `json:"dataTypeHashes"`
	PurposeHashes  []Hash    `json:"purposeHashes"`
	GrantedAt      int64     `json:"grantedAt"`
	ExpiresAt      int64     `json:"expiresAt"` // unix seconds, 0 = never
	Active         bool      `json:"active"`
}

type RequestStatus string

const (
	StatusPending  = RequestStatus("pending")
	StatusApproved = RequestStatus("approved")
	StatusDenied   = RequestStatus("denied")
)

// AccessRequest is a provider-initiated ask for a consent. Status is pending
// exactly as long as Processed is false; approved and denied are terminal.
type AccessRequest struct {
	ID             RequestID     `json:"id"`
	Requester      PartyID       `json:"requester"`
	Patient        PartyID       `json:"patient"`
	DataTypeHashes []Hash        `json:"dataTypeHashes"`
	PurposeHashes  []Hash        `json:"purposeHashes"`
	CreatedAt      int64         `json:"createdAt"`
	ExpiresAt      int64         `json:"expiresAt"` // unix seconds, 0 = never
	Processed      bool          `json:"processed"`
	Status         RequestStatus `json:"status"`
}

// Expired reports whether a non-zero expiration lies before now. It is
// advisory: nothing in the ledger deactivates a record because of it.
func Expired(expiresAt int64, now int64) bool {
	return expiresAt != 0 && expiresAt < now
}
