package main

import (
	"log"
	"time"

	"github.com/ic-timon/packedforest/indexer"
)

// runBuild reads a vector corpus, builds a forest, and saves it to disk,
// mirroring the teacher's bench/main.go one-shot flag-driven style rather
// than the daemon-style envconfig config `serve` uses.
func runBuild(args []string) {
	fs := flagSetOrExit("build")
	input := fs.String("input", "", "path to a whitespace-separated-floats-per-line vector file")
	output := fs.String("output", "out.ann", "path to write the built artifact")
	metricFlag := fs.String("metric", "euclidean", "euclidean|dot_product")
	nTrees := fs.Int("trees", 30, "number of trees; negative grows until 2*n_items nodes")
	seed := fs.Int64("seed", 0, "PRNG seed; the same seed always gives the same forest")
	verbose := fs.Bool("verbose", false, "enable structured build logging")
	fs.Parse(args)

	if *input == "" {
		fatalf("annoyctl build: -input is required")
	}
	metric, err := metricFromFlag(*metricFlag)
	if err != nil {
		fatalf("annoyctl build: %v", err)
	}

	vecs, err := readVectorFile(*input)
	if err != nil {
		fatalf("annoyctl build: %v", err)
	}
	if len(vecs) == 0 {
		fatalf("annoyctl build: %s contains no vectors", *input)
	}

	idx, err := indexer.New(indexer.Config{
		Dim:    len(vecs[0]),
		Metric: metric,
		Seed:   *seed,
		Logger: cliLogger(*verbose),
	})
	if err != nil {
		fatalf("annoyctl build: %v", err)
	}
	for i, v := range vecs {
		if err := idx.AddItem(i, v); err != nil {
			fatalf("annoyctl build: item %d: %v", i, err)
		}
	}

	t0 := time.Now()
	if err := idx.Build(*nTrees); err != nil {
		fatalf("annoyctl build: %v", err)
	}
	buildDur := time.Since(t0)

	if err := idx.Save(*output); err != nil {
		fatalf("annoyctl build: save: %v", err)
	}
	log.Printf("built %d items, %d trees, metric=%s, wrote %s in %s", len(vecs), *nTrees, metric, *output, buildDur)
}
