// Command focusctl inspects the Cloudflare setup used by the focus-block server.
package main

import (
	"os"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/logging"
)

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"))
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
