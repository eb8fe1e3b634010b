package ledger

import (
	"context"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-consent-ledger/domain"
)

func TestLedger_SurvivesRestart(t *testing.T) {
	fixedClock(t, testTime)
	dir, err := ioutil.TempDir("", "consent-ledger-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	store, err := NewLevelDBStore(dir)
	require.NoError(t, err)

	l, err := New(store, nil)
	require.NoError(t, err)

	c1, err := l.Grant(context.Background(), patient, provider, []string{"observations"}, []string{"treatment"}, 0)
	require.NoError(t, err)
	c2, err := l.Grant(context.Background(), patient, otherProvider, []string{"medication"}, []string{"research"}, testTime.Unix()+3600)
	require.NoError(t, err)
	require.NoError(t, l.Revoke(context.Background(), patient, c1))

	r1, err := l.Request(context.Background(), provider, patient, []string{"allergies"}, []string{"treatment"}, 0)
	require.NoError(t, err)

	require.NoError(t, store.Close())

	// Reopen: the full state must come back, indices in creation order.
	store, err = NewLevelDBStore(dir)
	require.NoError(t, err)
	defer store.Close()

	restored, err := New(store, nil)
	require.NoError(t, err)

	consents := restored.ConsentsByPatient(patient)
	require.Len(t, consents, 2)
	assert.Equal(t, c1, consents[0].ID)
	assert.Equal(t, c2, consents[1].ID)
	assert.False(t, consents[0].Active)
	assert.True(t, consents[1].Active)

	text, err := restored.Resolve(consents[0].DataTypeHashes[0])
	require.NoError(t, err)
	assert.Equal(t, "observations", text)

	request, err := restored.GetRequest(r1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, request.Status)

	// Identifiers keep counting where they left off.
	c3, err := restored.Grant(context.Background(), patient, provider, []string{"labs"}, []string{"treatment"}, 0)
	require.NoError(t, err)
	assert.Equal(t, c2+1, c3)

	r2, err := restored.Request(context.Background(), otherProvider, patient, []string{"labs"}, []string{"research"}, 0)
	require.NoError(t, err)
	assert.Equal(t, r1+1, r2)
}

func TestLedger_ApprovalPersistsAtomically(t *testing.T) {
	fixedClock(t, testTime)
	dir, err := ioutil.TempDir("", "consent-ledger-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	store, err := NewLevelDBStore(dir)
	require.NoError(t, err)

	l, err := New(store, nil)
	require.NoError(t, err)

	id, err := l.Request(context.Background(), provider, patient, []string{"observations"}, []string{"medication"}, testTime.Unix()+3600)
	require.NoError(t, err)
	_, err = l.Respond(context.Background(), patient, id, true)
	require.NoError(t, err)

	require.NoError(t, store.Close())
	store, err = NewLevelDBStore(dir)
	require.NoError(t, err)
	defer store.Close()

	restored, err := New(store, nil)
	require.NoError(t, err)

	request, err := restored.GetRequest(id)
	require.NoError(t, err)
	assert.True(t, request.Processed)
	assert.Equal(t, domain.StatusApproved, request.Status)

	consents := restored.ConsentsByPatient(patient)
	require.Len(t, consents, 1)
	assert.Equal(t, provider, consents[0].Provider)
	assert.Equal(t, testTime.Unix()+3600, consents[0].ExpiresAt)
	assert.False(t, restored.IsExpired(consents[0].ID))

	// Advisory expiration still applies to the reloaded record.
	TimeNow = func() time.Time { return testTime.Add(2 * time.Hour) }
	assert.True(t, restored.IsExpired(consents[0].ID))
}
