// main is the entry point for the stylemetrics CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/stylemetrics/cmd"
	"github.com/huangsam/stylemetrics/internal/iosink"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cmd.SetSinkManager(iosink.Manager)

	err := cmd.Execute()
	iosink.CloseSink()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
