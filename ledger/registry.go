package ledger

import (
	"github.com/nuts-foundation/nuts-consent-ledger/domain"
)

// registry deduplicates repeated data-type and purpose strings behind their
// content hash. A hash, once registered, maps to exactly one string for the
// lifetime of the ledger and is never overwritten.
type registry struct {
	texts map[domain.Hash]string
}

func newRegistry() *registry {
	return &registry{texts: map[domain.Hash]string{}}
}

// intern stores text under its content hash if unseen and returns the hash.
// Re-interning identical text is a no-op beyond the hash computation.
func (r *registry) intern(text string) domain.Hash {
	h := domain.HashOf(text)
	if _, ok := r.texts[h]; !ok {
		r.texts[h] = text
	}
	return h
}

// interned reports whether intern would be a no-op for this text.
func (r *registry) interned(text string) bool {
	_, ok := r.texts[domain.HashOf(text)]
	return ok
}

func (r *registry) resolve(h domain.Hash) (string, error) {
	text, ok := r.texts[h]
	if !ok {
		return "", domain.ErrUnknownHash
	}
	return text, nil
}
