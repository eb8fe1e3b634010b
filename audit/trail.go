// Package audit keeps the append-only trail of ledger events for off-ledger
// indexers: every published event is stored as JSON next to a rendered
// one-line summary.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	eh "github.com/looplab/eventhorizon"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/thedevsaddam/gojsonq/v2"

	"github.com/nuts-foundation/nuts-consent-ledger/domain/events"
)

const entryPrefix = "audit:"

// Entry is one stored audit record. Patient, Provider and Requester are
// lifted out of the event data so the trail can be filtered without
// knowing each payload shape.
type Entry struct {
	Seq       uint64          `json:"seq"`
	Kind      string          `json:"kind"`
	At        time.Time       `json:"at"`
	Patient   string          `json:"patient,omitempty"`
	Provider  string          `json:"provider,omitempty"`
	Requester string          `json:"requester,omitempty"`
	Line      string          `json:"line"`
	Data      json.RawMessage `json:"data"`
}

// Trail is an eventhorizon handler appending every ledger event to its own
// LevelDB directory.
type Trail struct {
	mu  sync.Mutex
	db  *leveldb.DB
	seq uint64
}

func NewTrail(path string) (*Trail, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open audit trail at %s", path)
	}
	t := &Trail{db: db}

	// Resume the sequence after a restart.
	iter := db.NewIterator(util.BytesPrefix([]byte(entryPrefix)), nil)
	for iter.Next() {
		t.seq++
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not scan audit trail")
	}
	return t, nil
}

func (t *Trail) HandlerType() eh.EventHandlerType {
	return eh.EventHandlerType("AuditTrail")
}

func (t *Trail) HandleEvent(ctx context.Context, event eh.Event) error {
	line, err := Render(event)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event.Data())
	if err != nil {
		return errors.Wrap(err, "could not encode event data")
	}

	entry := Entry{
		Kind: string(event.EventType()),
		At:   event.Timestamp(),
		Line: line,
		Data: data,
	}
	switch d := event.Data().(type) {
	case *events.ConsentGrantedData:
		entry.Patient, entry.Provider = d.Patient, d.Provider
	case *events.ConsentRevokedData:
		entry.Patient, entry.Provider = d.Patient, d.Provider
	case *events.AccessRequestedData:
		entry.Patient, entry.Requester = d.Patient, d.Requester
	case *events.AccessRespondedData:
		entry.Patient, entry.Requester = d.Patient, d.Requester
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	entry.Seq = t.seq
	value, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "could not encode audit entry")
	}
	key := fmt.Sprintf("%s%020d", entryPrefix, entry.Seq)
	if err := t.db.Put([]byte(key), value, nil); err != nil {
		return errors.Wrap(err, "could not append audit entry")
	}
	t.seq++
	return nil
}

// Entries returns the whole trail in append order.
func (t *Trail) Entries() ([]Entry, error) {
	return t.query(func(jq *gojsonq.JSONQ) *gojsonq.JSONQ { return jq })
}

// ByPatient returns the trail entries involving the given patient.
func (t *Trail) ByPatient(patient string) ([]Entry, error) {
	return t.query(func(jq *gojsonq.JSONQ) *gojsonq.JSONQ {
		return jq.Where("patient", "=", patient)
	})
}

// ByKind returns the trail entries of one event kind.
func (t *Trail) ByKind(kind string) ([]Entry, error) {
	return t.query(func(jq *gojsonq.JSONQ) *gojsonq.JSONQ {
		return jq.Where("kind", "=", kind)
	})
}

func (t *Trail) query(filter func(*gojsonq.JSONQ) *gojsonq.JSONQ) ([]Entry, error) {
	doc, err := t.document()
	if err != nil {
		return nil, err
	}
	jq := filter(gojsonq.New().FromString(doc).From("entries"))
	selected, err := json.Marshal(jq.Get())
	if err != nil {
		return nil, errors.Wrap(err, "could not re-encode audit selection")
	}
	var entries []Entry
	if err := json.Unmarshal(selected, &entries); err != nil {
		return nil, errors.Wrap(err, "could not decode audit selection")
	}
	return entries, nil
}

// document renders the stored entries as one JSON array for gojsonq.
func (t *Trail) document() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var parts []string
	iter := t.db.NewIterator(util.BytesPrefix([]byte(entryPrefix)), nil)
	for iter.Next() {
		parts = append(parts, string(iter.Value()))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return "", errors.Wrap(err, "could not read audit trail")
	}
	return `{"entries":[` + strings.Join(parts, ",") + `]}`, nil
}

func (t *Trail) Close() error {
	return t.db.Close()
}
