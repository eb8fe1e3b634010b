package audit

import (
	"context"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	eh "github.com/looplab/eventhorizon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-consent-ledger/domain"
	"github.com/nuts-foundation/nuts-consent-ledger/domain/events"
)

var testTime = time.Date(2020, time.July, 10, 23, 0, 0, 0, time.UTC)

func ledgerEvent(eventType eh.EventType, data eh.EventData, version int) eh.Event {
	return eh.NewEventForAggregate(eventType, data, testTime, domain.LedgerAggregateType, uuid.New(), version)
}

func TestRender(t *testing.T) {
	fromRequest := uint64(7)

	cases := map[string]struct {
		event    eh.Event
		expected string
	}{
		"granted": {
			ledgerEvent(events.ConsentGranted, &events.ConsentGrantedData{
				ConsentID:      3,
				Patient:        "bsn:999",
				Provider:       "agb:123",
				DataTypeHashes: []string{"aa", "bb"},
				PurposeHashes:  []string{"cc"},
			}, 1),
			"consent #3 granted by bsn:999 to agb:123 covering 2 data type(s) for 1 purpose(s)",
		},
		"granted from request": {
			ledgerEvent(events.ConsentGranted, &events.ConsentGrantedData{
				ConsentID:      4,
				Patient:        "bsn:999",
				Provider:       "agb:123",
				DataTypeHashes: []string{"aa"},
				PurposeHashes:  []string{"cc"},
				FromRequest:    &fromRequest,
			}, 1),
			"consent #4 granted by bsn:999 to agb:123 covering 1 data type(s) for 1 purpose(s) (from request #7)",
		},
		"revoked": {
			ledgerEvent(events.ConsentRevoked, &events.ConsentRevokedData{
				ConsentID: 3,
				Patient:   "bsn:999",
				Provider:  "agb:123",
			}, 2),
			"consent #3 revoked by bsn:999, provider agb:123",
		},
		"requested": {
			ledgerEvent(events.AccessRequested, &events.AccessRequestedData{
				RequestID: 1,
				Requester: "agb:123",
				Patient:   "bsn:999",
			}, 3),
			"access request #1 filed by agb:123 for patient bsn:999",
		},
		"denied on expiry": {
			ledgerEvent(events.AccessDenied, &events.AccessRespondedData{
				RequestID: 1,
				Patient:   "bsn:999",
				Status:    "denied",
				Expired:   true,
			}, 4),
			"access request #1 denied by bsn:999 (expired, denied automatically)",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			line, err := Render(tc.event)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, line)
		})
	}
}

func TestTrail(t *testing.T) {
	dir, err := ioutil.TempDir("", "consent-audit-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	trail, err := NewTrail(dir)
	require.NoError(t, err)

	published := []eh.Event{
		ledgerEvent(events.ConsentGranted, &events.ConsentGrantedData{
			ConsentID: 0, Patient: "bsn:999", Provider: "agb:123",
			DataTypeHashes: []string{"aa"}, PurposeHashes: []string{"bb"},
		}, 1),
		ledgerEvent(events.AccessRequested, &events.AccessRequestedData{
			RequestID: 0, Requester: "agb:456", Patient: "bsn:111",
		}, 2),
		ledgerEvent(events.ConsentRevoked, &events.ConsentRevokedData{
			ConsentID: 0, Patient: "bsn:999", Provider: "agb:123",
		}, 3),
	}
	for _, e := range published {
		require.NoError(t, trail.HandleEvent(context.Background(), e))
	}

	entries, err := trail.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, uint64(0), entries[0].Seq)
	assert.Equal(t, string(events.ConsentGranted), entries[0].Kind)

	byPatient, err := trail.ByPatient("bsn:999")
	require.NoError(t, err)
	require.Len(t, byPatient, 2)
	assert.Equal(t, string(events.ConsentGranted), byPatient[0].Kind)
	assert.Equal(t, string(events.ConsentRevoked), byPatient[1].Kind)

	byKind, err := trail.ByKind(string(events.AccessRequested))
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "bsn:111", byKind[0].Patient)
	assert.Equal(t, "agb:456", byKind[0].Requester)

	// The sequence resumes after a reopen.
	require.NoError(t, trail.Close())
	trail, err = NewTrail(dir)
	require.NoError(t, err)
	defer trail.Close()

	require.NoError(t, trail.HandleEvent(context.Background(), published[0]))
	entries, err = trail.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, uint64(3), entries[3].Seq)
}
