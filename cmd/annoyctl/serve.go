package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/ic-timon/packedforest/indexer"
)

// runServe is the longer-lived daemon subcommand: loads one artifact once
// and answers NNS queries over HTTP until killed, configured entirely via
// .env + ANNOYCTL_-prefixed environment variables (config.go).
func runServe(args []string) {
	// serve takes no flags of its own; all configuration is environment-
	// driven per SPEC_FULL.md's Configuration section, distinguishing it
	// from build/query's one-shot flag.* usage.
	fs := flagSetOrExit("serve")
	fs.Parse(args)

	cfg, err := LoadServeConfig()
	if err != nil {
		fatalf("annoyctl serve: config: %v", err)
	}
	metric, err := metricFromFlag(cfg.Metric)
	if err != nil {
		fatalf("annoyctl serve: %v", err)
	}
	logger := zapLoggerForLevel(cfg.LogLevel)

	s, err := indexer.Load(cfg.ArtifactPath, metric, indexer.LoadOptions{Mlock: cfg.Mlock, Logger: logger})
	if err != nil {
		fatalf("annoyctl serve: load %s: %v", cfg.ArtifactPath, err)
	}
	defer s.Close()

	http.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		handleQuery(w, r, s)
	})
	log.Printf("annoyctl serve: listening on %s, artifact=%s, metric=%s", cfg.ListenAddr, cfg.ArtifactPath, metric)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, nil))
}

type queryResponse struct {
	Ids       []int     `json:"ids"`
	Distances []float32 `json:"distances"`
}

// handleQuery answers GET /query?item=<id>&n=<n>&search_k=<k>. Querying
// by raw vector over HTTP is left to the `query` subcommand's file-based
// path; the serve endpoint only needs to answer against already-indexed
// items for the common "find neighbors of this known item" use case.
func handleQuery(w http.ResponseWriter, r *http.Request, s *indexer.Searcher) {
	q := r.URL.Query()
	item, err := strconv.Atoi(q.Get("item"))
	if err != nil {
		http.Error(w, "item must be an integer item id", http.StatusBadRequest)
		return
	}
	n := 10
	if v := q.Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}
	searchK := -1
	if v := q.Get("search_k"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			searchK = parsed
		}
	}

	ids, dists, err := s.GetNNSByItem(item, n, searchK)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(queryResponse{Ids: ids, Distances: dists})
}
