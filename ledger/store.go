package ledger

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/nuts-foundation/nuts-consent-ledger/domain"
)

const consentPrefix = "consent:"
const requestPrefix = "request:"
const textPrefix = "text:"
const consentSeqKey = "seq:consent"
const requestSeqKey = "seq:request"
const eventSeqKey = "seq:event"

func consentKey(id domain.ConsentID) string {
	return fmt.Sprintf("%s%020d", consentPrefix, uint64(id))
}

func requestKey(id domain.RequestID) string {
	return fmt.Sprintf("%s%020d", requestPrefix, uint64(id))
}

func textKey(h domain.Hash) string {
	return textPrefix + h.String()
}

func encodeSeq(n uint64) []byte {
	return []byte(strconv.FormatUint(n, 10))
}

func decodeSeq(value []byte) (uint64, error) {
	return strconv.ParseUint(string(value), 10, 64)
}

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// Records are plain structs; this cannot fail for valid state.
		panic(err)
	}
	return data
}

// KV is one key/value pair of a write batch.
type KV struct {
	Key   string
	Value []byte
}

// Store is the durable backend behind a ledger. Write must apply the whole
// batch atomically.
type Store interface {
	Write(puts []KV) error
	ForEach(prefix string, fn func(key string, value []byte) error) error
	Close() error
}

// LevelDBStore persists ledger state in a LevelDB directory. Keys are
// prefixed and zero-padded so that prefix iteration yields records in
// creation order.
type LevelDBStore struct {
	db *leveldb.DB
}

func NewLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open store at %s", path)
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) Write(puts []KV) error {
	batch := new(leveldb.Batch)
	for _, kv := range puts {
		batch.Put([]byte(kv.Key), kv.Value)
	}
	return s.db.Write(batch, nil)
}

func (s *LevelDBStore) ForEach(prefix string, fn func(key string, value []byte) error) error {
	iter := s.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()
	for iter.Next() {
		value := append([]byte(nil), iter.Value()...)
		if err := fn(string(iter.Key()), value); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

// load rebuilds the full in-memory state from the store. Indices are derived
// by replaying records in key order, which is creation order thanks to the
// zero-padded ids.
func (l *Ledger) load() error {
	err := l.store.ForEach(textPrefix, func(key string, value []byte) error {
		h, err := domain.ParseHash(key[len(textPrefix):])
		if err != nil {
			return errors.Wrapf(err, "bad registry key %s", key)
		}
		l.reg.texts[h] = string(value)
		return nil
	})
	if err != nil {
		return err
	}

	err = l.store.ForEach(consentPrefix, func(key string, value []byte) error {
		record := &domain.Consent{}
		if err := json.Unmarshal(value, record); err != nil {
			return errors.Wrapf(err, "bad consent record %s", key)
		}
		l.consents[record.ID] = record
		l.consentsByPatient[record.Patient] = append(l.consentsByPatient[record.Patient], record.ID)
		l.consentsByProvider[record.Provider] = append(l.consentsByProvider[record.Provider], record.ID)
		return nil
	})
	if err != nil {
		return err
	}

	err = l.store.ForEach(requestPrefix, func(key string, value []byte) error {
		record := &domain.AccessRequest{}
		if err := json.Unmarshal(value, record); err != nil {
			return errors.Wrapf(err, "bad request record %s", key)
		}
		l.requests[record.ID] = record
		l.requestsByPatient[record.Patient] = append(l.requestsByPatient[record.Patient], record.ID)
		return nil
	})
	if err != nil {
		return err
	}

	return l.store.ForEach("seq:", func(key string, value []byte) error {
		n, err := decodeSeq(value)
		if err != nil {
			return errors.Wrapf(err, "bad sequence %s", key)
		}
		switch key {
		case consentSeqKey:
			l.nextConsentID = n
		case requestSeqKey:
			l.nextRequestID = n
		case eventSeqKey:
			l.version = n
		}
		return nil
	})
}
