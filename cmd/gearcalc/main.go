// Command gearcalc computes a gear train from the command line and can
// write the same schematic and reports the web service serves.
package main

import (
	"os"

	"go.uber.org/zap"
)

func main() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := newRootCmd(logger, cfg.Level).Execute(); err != nil {
		os.Exit(1)
	}
}
