package cmd

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nuts-foundation/nuts-consent-ledger/api"
	engine2 "github.com/nuts-foundation/nuts-consent-ledger/engine"
	pkg2 "github.com/nuts-foundation/nuts-consent-ledger/pkg"
)

const confPort = "port"
const confInterface = "interface"
const confDatadir = "datadir"

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the consent ledger as a standalone api server",
	Run: func(cmd *cobra.Command, args []string) {
		instance := pkg2.ConsentLedgerInstance()
		instance.Config.Datadir = datadir
		if err := instance.Configure(); err != nil {
			logrus.WithError(err).Fatal("could not configure consent ledger")
		}
		if err := instance.Start(); err != nil {
			logrus.WithError(err).Fatal("could not start consent ledger")
		}
		defer instance.Shutdown()

		server := echo.New()
		server.HideBanner = true
		server.Use(middleware.Logger())
		api.RegisterHandlers(server, api.Wrapper{Cl: instance.Ledger})
		addr := fmt.Sprintf("%s:%d", serverInterface, serverPort)
		server.Logger.Fatal(server.Start(addr))
	},
}

var (
	serverInterface string
	serverPort      int
	datadir         string
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ledgerEngine := engine2.NewConsentLedgerEngine()

	rootCommand := ledgerEngine.Cmd
	serveCommand.Flags().StringVar(&serverInterface, confInterface, "localhost", "Server interface binding")
	serveCommand.Flags().IntVarP(&serverPort, confPort, "p", 1324, "Server listen port")
	serveCommand.Flags().StringVar(&datadir, confDatadir, "", "Data directory, empty runs in-memory")
	rootCommand.AddCommand(serveCommand)

	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
