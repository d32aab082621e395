// Command annoyctl builds, queries, and serves packed-forest ANN indexes
// from the command line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ic-timon/packedforest/indexer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "build":
		runBuild(os.Args[2:])
	case "query":
		runQuery(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: annoyctl <build|query|serve> [flags]")
}

func metricFromFlag(s string) (indexer.Metric, error) {
	switch s {
	case "euclidean":
		return indexer.Euclidean, nil
	case "dot_product", "dot":
		return indexer.DotProduct, nil
	default:
		return 0, fmt.Errorf("annoyctl: unknown metric %q (want euclidean|dot_product)", s)
	}
}

func fatalf(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}

// flagSetOrExit is a small helper so build/query/serve each get their own
// *flag.FlagSet without repeating the ExitOnError boilerplate.
func flagSetOrExit(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}
