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

package engine

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nuts-foundation/nuts-consent-ledger/api"
	pkg2 "github.com/nuts-foundation/nuts-consent-ledger/pkg"
)

// Engine bundles the service lifecycle with its command and routes.
type Engine struct {
	Name      string
	Cmd       *cobra.Command
	Configure func() error
	Start     func() error
	Shutdown  func() error
	FlagSet   *pflag.FlagSet
	Routes    func(router api.EchoRouter)
}

func NewConsentLedgerEngine() *Engine {
	cl := pkg2.ConsentLedgerInstance()

	return &Engine{
		Name:      "ConsentLedgerInstance",
		Cmd:       cmd(),
		Configure: cl.Configure,
		Start:     cl.Start,
		Shutdown:  cl.Shutdown,
		FlagSet:   flagSet(),
		Routes: func(router api.EchoRouter) {
			api.RegisterHandlers(router, api.Wrapper{Cl: cl.Ledger})
		},
	}
}

func flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("cledger", pflag.ContinueOnError)
	return flags
}

func cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consent-ledger",
		Short: "consent ledger commands",
	}
	return cmd
}
