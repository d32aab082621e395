package main

import (
	"go.uber.org/zap"

	"github.com/ic-timon/packedforest/indexer"
)

func benchLogger(verbose bool) indexer.Logger {
	if !verbose {
		return nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return indexer.NewZapLogger(l.Sugar())
}
