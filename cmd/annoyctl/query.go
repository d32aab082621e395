package main

import (
	"fmt"

	"github.com/ic-timon/packedforest/indexer"
)

// runQuery loads a built artifact and prints the n nearest items to a
// query vector (or to an already-indexed item id, via -item).
func runQuery(args []string) {
	fs := flagSetOrExit("query")
	artifact := fs.String("artifact", "out.ann", "path to a built artifact")
	metricFlag := fs.String("metric", "euclidean", "euclidean|dot_product")
	vectorFile := fs.String("vector", "", "path to a one-line vector file")
	item := fs.Int("item", -1, "query by already-indexed item id instead of -vector")
	n := fs.Int("n", 10, "number of nearest neighbors to return")
	searchK := fs.Int("search-k", -1, "candidate budget; <=0 uses n*n_trees")
	mlock := fs.Bool("mlock", false, "mlock the mapped artifact resident")
	fs.Parse(args)

	metric, err := metricFromFlag(*metricFlag)
	if err != nil {
		fatalf("annoyctl query: %v", err)
	}

	s, err := indexer.Load(*artifact, metric, indexer.LoadOptions{Mlock: *mlock})
	if err != nil {
		fatalf("annoyctl query: load: %v", err)
	}
	defer s.Close()

	var ids []int
	var dists []float32
	switch {
	case *item >= 0:
		ids, dists, err = s.GetNNSByItem(*item, *n, *searchK)
	case *vectorFile != "":
		vecs, ferr := readVectorFile(*vectorFile)
		if ferr != nil {
			fatalf("annoyctl query: %v", ferr)
		}
		if len(vecs) == 0 {
			fatalf("annoyctl query: %s contains no vectors", *vectorFile)
		}
		ids, dists, err = s.GetNNSByVector(vecs[0], *n, *searchK)
	default:
		fatalf("annoyctl query: one of -item or -vector is required")
	}
	if err != nil {
		fatalf("annoyctl query: %v", err)
	}

	for i, id := range ids {
		fmt.Printf("%d\t%d\t%.6f\n", i, id, dists[i])
	}
}
