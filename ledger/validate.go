package ledger

import (
	"github.com/nuts-foundation/nuts-consent-ledger/domain"
)

const MaxTextLen = 256
const MaxBatchSize = 200

// MaxExpiresAt bounds every stored expiration. One width is used for both
// consents and requests, so the request-to-consent promotion never narrows
// a value.
const MaxExpiresAt = int64(1) << 40

func validateIdentity(p domain.PartyID) error {
	if p.IsZero() {
		return domain.ErrInvalidIdentity
	}
	return nil
}

func validateText(s string) error {
	if len(s) == 0 {
		return domain.ErrEmptyText
	}
	if len(s) > MaxTextLen {
		return domain.ErrTextTooLong
	}
	return nil
}

func validateTexts(texts []string) error {
	if len(texts) == 0 {
		return domain.ErrEmptyBatch
	}
	if len(texts) > MaxBatchSize {
		return domain.ErrBatchTooLarge
	}
	for _, s := range texts {
		if err := validateText(s); err != nil {
			return err
		}
	}
	return nil
}

// validateExpiration accepts 0 (never expires) or a bounded future instant.
func validateExpiration(expiresAt int64, now int64) error {
	if expiresAt == 0 {
		return nil
	}
	if expiresAt < now {
		return domain.ErrExpirationInPast
	}
	if expiresAt > MaxExpiresAt {
		return domain.ErrExpirationTooLarge
	}
	return nil
}

// validateCombination bounds the data-type × purpose cross product. The
// multiplication is guarded against overflow before the bound check.
func validateCombination(dataTypes, purposes int) error {
	if dataTypes == 0 || purposes == 0 {
		return domain.ErrEmptyBatch
	}
	if dataTypes > MaxBatchSize/purposes {
		return domain.ErrBatchTooLarge
	}
	return nil
}
