package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	eh "github.com/looplab/eventhorizon"
	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-consent-ledger/domain"
	"github.com/nuts-foundation/nuts-consent-ledger/domain/events"
	"github.com/nuts-foundation/nuts-consent-ledger/pkg/logger"
)

// TimeNow is the ledger clock, swappable in tests.
var TimeNow = func() time.Time {
	return time.Now()
}

// EventPublisher receives every committed state transition, in order.
// The local eventhorizon bus satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event eh.Event) error
}

// Ledger is the consent state machine. All records, indices and the content
// registry are owned here; callers receive copies, never references. Write
// operations are serialized by an operation-in-progress guard and reject
// re-entrant or overlapping writes with ErrReentrant instead of blocking.
type Ledger struct {
	id uuid.UUID
	op uint32
	mu sync.RWMutex

	reg      *registry
	consents map[domain.ConsentID]*domain.Consent
	requests map[domain.RequestID]*domain.AccessRequest

	consentsByPatient  map[domain.PartyID][]domain.ConsentID
	consentsByProvider map[domain.PartyID][]domain.ConsentID
	requestsByPatient  map[domain.PartyID][]domain.RequestID

	nextConsentID uint64
	nextRequestID uint64
	version       uint64

	store     Store
	publisher EventPublisher
}

// New builds a ledger backed by store (nil keeps it purely in-memory) and
// publishing to publisher (nil disables emission). Existing state is loaded
// from the store before the ledger accepts operations.
func New(store Store, publisher EventPublisher) (*Ledger, error) {
	l := &Ledger{
		id:                 uuid.New(),
		reg:                newRegistry(),
		consents:           map[domain.ConsentID]*domain.Consent{},
		requests:           map[domain.RequestID]*domain.AccessRequest{},
		consentsByPatient:  map[domain.PartyID][]domain.ConsentID{},
		consentsByProvider: map[domain.PartyID][]domain.ConsentID{},
		requestsByPatient:  map[domain.PartyID][]domain.RequestID{},
		store:              store,
		publisher:          publisher,
	}
	if store != nil {
		if err := l.load(); err != nil {
			return nil, errors.Wrap(err, "ledger: load state")
		}
	}
	return l, nil
}

// begin takes the operation-in-progress flag for a write.
func (l *Ledger) begin() error {
	if !atomic.CompareAndSwapUint32(&l.op, 0, 1) {
		return domain.ErrReentrant
	}
	return nil
}

func (l *Ledger) end() {
	atomic.StoreUint32(&l.op, 0)
}

// txn collects the puts and events of one write operation so that the store
// write, the in-memory apply and the event emission commit together.
type txn struct {
	puts     []KV
	events   []eh.Event
	newTexts map[domain.Hash]string
}

func (l *Ledger) newTxn() *txn {
	return &txn{newTexts: map[domain.Hash]string{}}
}

func (t *txn) put(key string, value []byte) {
	t.puts = append(t.puts, KV{Key: key, Value: value})
}

// hashTexts computes the hashes of texts and stages unseen ones for
// interning; the registry itself is untouched until commit.
func (l *Ledger) hashTexts(t *txn, texts []string) []domain.Hash {
	hashes := make([]domain.Hash, len(texts))
	for i, s := range texts {
		h := domain.HashOf(s)
		hashes[i] = h
		if _, staged := t.newTexts[h]; !staged && !l.reg.interned(s) {
			t.newTexts[h] = s
			t.put(textKey(h), []byte(s))
		}
	}
	return hashes
}

func (l *Ledger) event(t *txn, eventType eh.EventType, data eh.EventData, now time.Time) {
	version := int(l.version) + len(t.events) + 1
	t.events = append(t.events, eh.NewEventForAggregate(
		eventType, data, now, domain.LedgerAggregateType, l.id, version))
}

// commit writes the batch to the store, then applies the staged registry
// entries and state changes. Must run with the write lock held; if the
// store write fails nothing is applied.
func (l *Ledger) commit(t *txn, apply func()) error {
	t.put(eventSeqKey, encodeSeq(l.version+uint64(len(t.events))))
	if l.store != nil {
		if err := l.store.Write(t.puts); err != nil {
			return errors.Wrap(err, "ledger: persist")
		}
	}
	for h, s := range t.newTexts {
		l.reg.texts[h] = s
	}
	l.version += uint64(len(t.events))
	apply()
	return nil
}

// publish hands the buffered events to the publisher after the state has
// committed, still inside the operation window so a handler calling back
// into a write gets ErrReentrant rather than an interleaved mutation.
func (l *Ledger) publish(ctx context.Context, t *txn) {
	if l.publisher == nil {
		return
	}
	for _, e := range t.events {
		if err := l.publisher.PublishEvent(ctx, e); err != nil {
			logger.Logger().WithError(err).Errorf("could not publish %s", e.EventType())
		}
	}
}

// Grant creates one consent from caller to provider covering the cross
// product of dataTypes and purposes. All-or-nothing: any validation failure
// leaves no partial state, no interned text and no allocated id.
func (l *Ledger) Grant(ctx context.Context, caller, provider domain.PartyID, dataTypes, purposes []string, expiresAt int64) (domain.ConsentID, error) {
	if err := l.begin(); err != nil {
		return 0, err
	}
	defer l.end()
	now := TimeNow()

	if err := validateGrant(caller, provider, dataTypes, purposes, expiresAt, now.Unix()); err != nil {
		return 0, err
	}

	l.mu.Lock()
	t := l.newTxn()
	id := domain.ConsentID(l.nextConsentID)
	apply := l.stageConsent(t, id, caller, provider,
		l.hashTexts(t, dataTypes), l.hashTexts(t, purposes), now, expiresAt, nil)
	err := l.commit(t, apply)
	l.mu.Unlock()
	if err != nil {
		return 0, err
	}

	l.publish(ctx, t)
	return id, nil
}

// GrantMany creates one consent per provider, all covering the same data
// types and purposes. providers and expirations are parallel arrays; the
// returned ids are consecutive and in argument order.
func (l *Ledger) GrantMany(ctx context.Context, caller domain.PartyID, providers []domain.PartyID, dataTypes, purposes []string, expirations []int64) ([]domain.ConsentID, error) {
	if err := l.begin(); err != nil {
		return nil, err
	}
	defer l.end()
	now := TimeNow()

	if len(providers) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if len(providers) > MaxBatchSize {
		return nil, domain.ErrBatchTooLarge
	}
	if len(expirations) != len(providers) {
		return nil, domain.ErrLengthMismatch
	}
	for i, provider := range providers {
		if err := validateGrant(caller, provider, dataTypes, purposes, expirations[i], now.Unix()); err != nil {
			return nil, err
		}
	}

	l.mu.Lock()
	t := l.newTxn()
	dataTypeHashes := l.hashTexts(t, dataTypes)
	purposeHashes := l.hashTexts(t, purposes)
	ids := make([]domain.ConsentID, len(providers))
	applies := make([]func(), len(providers))
	for i, provider := range providers {
		ids[i] = domain.ConsentID(l.nextConsentID + uint64(i))
		applies[i] = l.stageConsent(t, ids[i], caller, provider,
			dataTypeHashes, purposeHashes, now, expirations[i], nil)
	}
	err := l.commit(t, func() {
		for _, apply := range applies {
			apply()
		}
	})
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	l.publish(ctx, t)
	return ids, nil
}

func validateGrant(caller, counterpart domain.PartyID, dataTypes, purposes []string, expiresAt int64, now int64) error {
	if err := validateIdentity(caller); err != nil {
		return err
	}
	if err := validateIdentity(counterpart); err != nil {
		return err
	}
	if caller == counterpart {
		return domain.ErrSelfReference
	}
	if err := validateTexts(dataTypes); err != nil {
		return err
	}
	if err := validateTexts(purposes); err != nil {
		return err
	}
	if err := validateCombination(len(dataTypes), len(purposes)); err != nil {
		return err
	}
	return validateExpiration(expiresAt, now)
}

// stageConsent stages a new consent record, its index entries and the
// granted event, and returns the apply step for commit. Caller holds the
// write lock and has validated everything.
func (l *Ledger) stageConsent(t *txn, id domain.ConsentID, patient, provider domain.PartyID, dataTypeHashes, purposeHashes []domain.Hash, now time.Time, expiresAt int64, fromRequest *uint64) func() {
	record := &domain.Consent{
		ID:             id,
		Patient:        patient,
		Provider:       provider,
		DataTypeHashes: append([]domain.Hash(nil), dataTypeHashes...),
		PurposeHashes:  append([]domain.Hash(nil), purposeHashes...),
		GrantedAt:      now.Unix(),
		ExpiresAt:      expiresAt,
		Active:         true,
	}
	t.put(consentKey(id), mustMarshal(record))
	t.put(consentSeqKey, encodeSeq(uint64(id)+1))
	l.event(t, events.ConsentGranted, &events.ConsentGrantedData{
		ConsentID:      uint64(id),
		Patient:        string(patient),
		Provider:       string(provider),
		DataTypeHashes: domain.HashStrings(record.DataTypeHashes),
		PurposeHashes:  domain.HashStrings(record.PurposeHashes),
		GrantedAt:      record.GrantedAt,
		ExpiresAt:      expiresAt,
		FromRequest:    fromRequest,
	}, now)

	return func() {
		l.consents[id] = record
		l.consentsByPatient[patient] = append(l.consentsByPatient[patient], id)
		l.consentsByProvider[provider] = append(l.consentsByProvider[provider], id)
		l.nextConsentID = uint64(id) + 1
	}
}

// Revoke flips a consent inactive. Only the record's patient may revoke;
// revoking twice yields ErrAlreadyInactive. The record and its index entries
// stay queryable.
func (l *Ledger) Revoke(ctx context.Context, caller domain.PartyID, id domain.ConsentID) error {
	if err := l.begin(); err != nil {
		return err
	}
	defer l.end()
	now := TimeNow()

	l.mu.Lock()
	record, ok := l.consents[id]
	if !ok {
		l.mu.Unlock()
		return domain.ErrConsentNotFound
	}
	if caller != record.Patient {
		l.mu.Unlock()
		return domain.ErrUnauthorized
	}
	if !record.Active {
		l.mu.Unlock()
		return domain.ErrAlreadyInactive
	}

	updated := *record
	updated.Active = false
	t := l.newTxn()
	t.put(consentKey(id), mustMarshal(&updated))
	l.event(t, events.ConsentRevoked, &events.ConsentRevokedData{
		ConsentID: uint64(id),
		Patient:   string(record.Patient),
		Provider:  string(record.Provider),
		RevokedAt: now.Unix(),
	}, now)
	err := l.commit(t, func() {
		record.Active = false
	})
	l.mu.Unlock()
	if err != nil {
		return err
	}

	l.publish(ctx, t)
	return nil
}

// Request files a provider-initiated ask for consent from patient. The
// request starts pending and is indexed by patient.
func (l *Ledger) Request(ctx context.Context, caller, patient domain.PartyID, dataTypes, purposes []string, expiresAt int64) (domain.RequestID, error) {
	if err := l.begin(); err != nil {
		return 0, err
	}
	defer l.end()
	now := TimeNow()

	if err := validateGrant(caller, patient, dataTypes, purposes, expiresAt, now.Unix()); err != nil {
		return 0, err
	}

	l.mu.Lock()
	t := l.newTxn()
	id := domain.RequestID(l.nextRequestID)
	record := &domain.AccessRequest{
		ID:             id,
		Requester:      caller,
		Patient:        patient,
		DataTypeHashes: l.hashTexts(t, dataTypes),
		PurposeHashes:  l.hashTexts(t, purposes),
		CreatedAt:      now.Unix(),
		ExpiresAt:      expiresAt,
		Status:         domain.StatusPending,
	}
	t.put(requestKey(id), mustMarshal(record))
	t.put(requestSeqKey, encodeSeq(uint64(id)+1))
	l.event(t, events.AccessRequested, &events.AccessRequestedData{
		RequestID:      uint64(id),
		Requester:      string(caller),
		Patient:        string(patient),
		DataTypeHashes: domain.HashStrings(record.DataTypeHashes),
		PurposeHashes:  domain.HashStrings(record.PurposeHashes),
		CreatedAt:      record.CreatedAt,
		ExpiresAt:      expiresAt,
	}, now)
	err := l.commit(t, func() {
		l.requests[id] = record
		l.requestsByPatient[patient] = append(l.requestsByPatient[patient], id)
		l.nextRequestID = uint64(id) + 1
	})
	l.mu.Unlock()
	if err != nil {
		return 0, err
	}

	l.publish(ctx, t)
	return id, nil
}

// Respond settles a pending request. A request whose expiration has passed
// is denied no matter what the caller asked; this is the only place the
// ledger acts on an expiration by itself. Approval creates exactly one
// consent covering the request's full hash lists, atomically with the
// status change.
func (l *Ledger) Respond(ctx context.Context, caller domain.PartyID, id domain.RequestID, approve bool) (domain.AccessRequest, error) {
	if err := l.begin(); err != nil {
		return domain.AccessRequest{}, err
	}
	defer l.end()
	now := TimeNow()

	l.mu.Lock()
	record, ok := l.requests[id]
	if !ok {
		l.mu.Unlock()
		return domain.AccessRequest{}, domain.ErrRequestNotFound
	}
	if caller != record.Patient {
		l.mu.Unlock()
		return domain.AccessRequest{}, domain.ErrUnauthorized
	}
	if record.Processed {
		l.mu.Unlock()
		return domain.AccessRequest{}, domain.ErrAlreadyProcessed
	}

	expired := domain.Expired(record.ExpiresAt, now.Unix())
	status := domain.StatusDenied
	if approve && !expired {
		status = domain.StatusApproved
	}

	updated := *record
	updated.Processed = true
	updated.Status = status

	t := l.newTxn()
	t.put(requestKey(id), mustMarshal(&updated))
	responded := &events.AccessRespondedData{
		RequestID:   uint64(id),
		Requester:   string(record.Requester),
		Patient:     string(record.Patient),
		Status:      string(status),
		RespondedAt: now.Unix(),
		Expired:     expired,
	}
	applyConsent := func() {}
	if status == domain.StatusApproved {
		l.event(t, events.AccessApproved, responded, now)
		requestID := uint64(id)
		applyConsent = l.stageConsent(t, domain.ConsentID(l.nextConsentID), record.Patient, record.Requester,
			record.DataTypeHashes, record.PurposeHashes, now, record.ExpiresAt, &requestID)
	} else {
		l.event(t, events.AccessDenied, responded, now)
	}
	err := l.commit(t, func() {
		record.Processed = true
		record.Status = status
		applyConsent()
	})
	l.mu.Unlock()
	if err != nil {
		return domain.AccessRequest{}, err
	}

	l.publish(ctx, t)
	return copyRequest(&updated), nil
}

// GetConsent returns a copy of the consent record.
func (l *Ledger) GetConsent(id domain.ConsentID) (domain.Consent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	record, ok := l.consents[id]
	if !ok {
		return domain.Consent{}, domain.ErrConsentNotFound
	}
	return copyConsent(record), nil
}

// ConsentsByPatient returns the patient's consents in creation order,
// revoked and expired ones included. Pagination is the caller's business.
func (l *Ledger) ConsentsByPatient(patient domain.PartyID) []domain.Consent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collectConsents(l.consentsByPatient[patient])
}

// ConsentsByProvider returns the consents naming provider, in creation order.
func (l *Ledger) ConsentsByProvider(provider domain.PartyID) []domain.Consent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.collectConsents(l.consentsByProvider[provider])
}

func (l *Ledger) collectConsents(ids []domain.ConsentID) []domain.Consent {
	out := make([]domain.Consent, len(ids))
	for i, id := range ids {
		out[i] = copyConsent(l.consents[id])
	}
	return out
}

// GetRequest returns a copy of the access request.
func (l *Ledger) GetRequest(id domain.RequestID) (domain.AccessRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	record, ok := l.requests[id]
	if !ok {
		return domain.AccessRequest{}, domain.ErrRequestNotFound
	}
	return copyRequest(record), nil
}

// RequestsByPatient returns the requests addressed to patient, in creation
// order.
func (l *Ledger) RequestsByPatient(patient domain.PartyID) []domain.AccessRequest {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := l.requestsByPatient[patient]
	out := make([]domain.AccessRequest, len(ids))
	for i, id := range ids {
		out[i] = copyRequest(l.requests[id])
	}
	return out
}

// IsExpired reports whether the consent's expiration has passed. Advisory
// only: the record's Active flag is untouched, and an unknown id is simply
// not expired rather than an error.
func (l *Ledger) IsExpired(id domain.ConsentID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	record, ok := l.consents[id]
	if !ok {
		return false
	}
	return domain.Expired(record.ExpiresAt, TimeNow().Unix())
}

// Resolve maps an interned hash back to its original string.
func (l *Ledger) Resolve(h domain.Hash) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reg.resolve(h)
}

// ResolveAll maps a hash list back to its original strings.
func (l *Ledger) ResolveAll(hashes []domain.Hash) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(hashes))
	for i, h := range hashes {
		s, err := l.reg.resolve(h)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func copyConsent(record *domain.Consent) domain.Consent {
	out := *record
	out.DataTypeHashes = append([]domain.Hash(nil), record.DataTypeHashes...)
	out.PurposeHashes = append([]domain.Hash(nil), record.PurposeHashes...)
	return out
}

func copyRequest(record *domain.AccessRequest) domain.AccessRequest {
	out := *record
	out.DataTypeHashes = append([]domain.Hash(nil), record.DataTypeHashes...)
	out.PurposeHashes = append([]domain.Hash(nil), record.PurposeHashes...)
	return out
}
