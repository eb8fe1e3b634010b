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

package pkg

import (
	"context"
	"path/filepath"
	"sync"

	eh "github.com/looplab/eventhorizon"
	"github.com/looplab/eventhorizon/eventbus/local"

	"github.com/nuts-foundation/nuts-consent-ledger/audit"
	"github.com/nuts-foundation/nuts-consent-ledger/domain"
	"github.com/nuts-foundation/nuts-consent-ledger/ledger"
	"github.com/nuts-foundation/nuts-consent-ledger/pkg/logger"
)

type ConsentLedgerConfig struct {
	// Datadir holds the LevelDB directories; empty keeps everything
	// in memory.
	Datadir string
}

// ConsentLedgerClient is the surface the API layer consumes. The caller
// identity on every write comes from the authenticated session upstream.
type ConsentLedgerClient interface {
	Grant(ctx context.Context, caller, provider domain.PartyID, dataTypes, purposes []string, expiresAt int64) (domain.ConsentID, error)
	GrantMany(ctx context.Context, caller domain.PartyID, providers []domain.PartyID, dataTypes, purposes []string, expirations []int64) ([]domain.ConsentID, error)
	Revoke(ctx context.Context, caller domain.PartyID, id domain.ConsentID) error
	Request(ctx context.Context, caller, patient domain.PartyID, dataTypes, purposes []string, expiresAt int64) (domain.RequestID, error)
	Respond(ctx context.Context, caller domain.PartyID, id domain.RequestID, approve bool) (domain.AccessRequest, error)
	GetConsent(id domain.ConsentID) (domain.Consent, error)
	ConsentsByPatient(patient domain.PartyID) []domain.Consent
	ConsentsByProvider(provider domain.PartyID) []domain.Consent
	GetRequest(id domain.RequestID) (domain.AccessRequest, error)
	RequestsByPatient(patient domain.PartyID) []domain.AccessRequest
	IsExpired(id domain.ConsentID) bool
	Resolve(h domain.Hash) (string, error)
	ResolveAll(hashes []domain.Hash) ([]string, error)
}

// ConsentLedger wires the ledger core, its store, the event bus and the
// audit trail into one service lifecycle.
type ConsentLedger struct {
	Config ConsentLedgerConfig

	Ledger *ledger.Ledger
	Trail  *audit.Trail

	store *ledger.LevelDBStore
	bus   *local.EventBus
	done  chan struct{}
}

var instance *ConsentLedger
var oneInstance sync.Once

func ConsentLedgerInstance() *ConsentLedger {
	oneInstance.Do(func() {
		instance = &ConsentLedger{}
	})
	return instance
}

func (cl *ConsentLedger) Configure() error {
	return nil
}

func (cl *ConsentLedger) Start() error {
	cl.bus = local.NewEventBus(local.NewGroup())
	cl.bus.AddObserver(eh.MatchAny(), logger.EventLogger{})

	var store *ledger.LevelDBStore
	if cl.Config.Datadir != "" {
		var err error
		store, err = ledger.NewLevelDBStore(filepath.Join(cl.Config.Datadir, "ledger"))
		if err != nil {
			return err
		}
		trail, err := audit.NewTrail(filepath.Join(cl.Config.Datadir, "audit"))
		if err != nil {
			store.Close()
			return err
		}
		cl.Trail = trail
		cl.bus.AddHandler(eh.MatchAny(), trail)
	}
	cl.store = store

	var ledgerStore ledger.Store
	if store != nil {
		ledgerStore = store
	}
	l, err := ledger.New(ledgerStore, cl.bus)
	if err != nil {
		cl.closeStores()
		return err
	}
	cl.Ledger = l

	cl.done = make(chan struct{})
	go func() {
		for {
			select {
			case busErr := <-cl.bus.Errors():
				logger.Logger().Errorf("event bus error: %v", busErr)
			case <-cl.done:
				return
			}
		}
	}()
	return nil
}

func (cl *ConsentLedger) Shutdown() error {
	if cl.done != nil {
		close(cl.done)
		cl.done = nil
	}
	return cl.closeStores()
}

func (cl *ConsentLedger) closeStores() error {
	var err error
	if cl.Trail != nil {
		err = cl.Trail.Close()
		cl.Trail = nil
	}
	if cl.store != nil {
		if closeErr := cl.store.Close(); err == nil {
			err = closeErr
		}
		cl.store = nil
	}
	return err
}
