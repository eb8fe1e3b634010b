package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nuts-foundation/nuts-consent-ledger/cmd"
)

func main() {
	// .env is optional; flags still win.
	_ = godotenv.Load()
	if level, err := logrus.ParseLevel(os.Getenv("CONSENT_LEDGER_LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	cmd.Execute()
}
