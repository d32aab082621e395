package main

import (
	"go.uber.org/zap"

	"github.com/ic-timon/packedforest/indexer"
)

// cliLogger mirrors bench/logger.go's verbose-flag-gated zap adapter for
// the one-shot build subcommand.
func cliLogger(verbose bool) indexer.Logger {
	if !verbose {
		return nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return indexer.NewZapLogger(l.Sugar())
}

// zapLoggerForLevel builds a production zap logger at the given level
// string, used by `serve`'s envconfig-driven LogLevel field.
func zapLoggerForLevel(level string) indexer.Logger {
	lvl := zap.InfoLevel
	_ = lvl.UnmarshalText([]byte(level))
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return indexer.NewZapLogger(l.Sugar())
}
