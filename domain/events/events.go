package events

import (
	eh "github.com/looplab/eventhorizon"
)

const ConsentGranted = eh.EventType("consent:granted")
const ConsentRevoked = eh.EventType("consent:revoked")
const AccessRequested = eh.EventType("access:requested")
const AccessApproved = eh.EventType("access:approved")
const AccessDenied = eh.EventType("access:denied")

// Event payloads carry content hashes, never the raw strings; consumers
// resolve them through the ledger's registry.

type ConsentGrantedData struct {
	ConsentID      uint64
	Patient        string
	Provider       string
	DataTypeHashes []string
	PurposeHashes  []string
	GrantedAt      int64
	ExpiresAt      int64
	// FromRequest is set when the consent was created by approving an
	// access request.
	FromRequest *uint64
}

type ConsentRevokedData struct {
	ConsentID uint64
	Patient   string
	Provider  string
	RevokedAt int64
}

type AccessRequestedData struct {
	RequestID      uint64
	Requester      string
	Patient        string
	DataTypeHashes []string
	PurposeHashes  []string
	CreatedAt      int64
	ExpiresAt      int64
}

type AccessRespondedData struct {
	RequestID   uint64
	Requester   string
	Patient     string
	Status      string
	RespondedAt int64
	// Expired marks the automatic denial of a stale request.
	Expired bool
}

func init() {
	eh.RegisterEventData(ConsentGranted, func() eh.EventData {
		return &ConsentGrantedData{}
	})
	eh.RegisterEventData(ConsentRevoked, func() eh.EventData {
		return &ConsentRevokedData{}
	})
	eh.RegisterEventData(AccessRequested, func() eh.EventData {
		return &AccessRequestedData{}
	})
	eh.RegisterEventData(AccessApproved, func() eh.EventData {
		return &AccessRespondedData{}
	})
	eh.RegisterEventData(AccessDenied, func() eh.EventData {
		return &AccessRespondedData{}
	})
}
