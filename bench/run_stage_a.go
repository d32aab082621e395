package main

import (
	"fmt"
	"time"

	"github.com/ic-timon/packedforest/bench/gen"
	"github.com/ic-timon/packedforest/bench/metrics"
	"github.com/ic-timon/packedforest/indexer"
)

func runStageA(verbose bool) {
	const vectorCount = 10_000
	const dim = 512
	const searchRuns = 100
	const topK = 5

	nTreesList := []int{8, 16, 32}
	searchKMult := []int{1, 2, 4}

	vecs := gen.RandomVectors(vectorCount+1, dim, 42)
	query := vecs[vectorCount]
	vecs = vecs[:vectorCount]

	var rows []metrics.StageARow
	for _, nTrees := range nTreesList {
		fmt.Printf("阶段 A: NTrees=%d\n", nTrees)

		metrics.GC()
		_ = metrics.Take()

		idx, err := indexer.New(indexer.Config{Dim: dim, Metric: indexer.Euclidean, Seed: int64(nTrees), Logger: benchLogger(verbose)})
		if err != nil {
			panic(err)
		}
		for i, v := range vecs {
			if err := idx.AddItem(i, v); err != nil {
				panic(err)
			}
		}

		t0 := time.Now()
		if err := idx.Build(nTrees); err != nil {
			panic(err)
		}
		buildDur := time.Since(t0)

		mapper, err := idx.SaveMemory()
		if err != nil {
			panic(err)
		}
		searcher, err := indexer.LoadMapper(mapper, indexer.Euclidean, indexer.LoadOptions{Logger: benchLogger(verbose)})
		if err != nil {
			panic(err)
		}

		for _, mult := range searchKMult {
			searchK := nTrees * mult * topK
			durations := make([]time.Duration, searchRuns)
			for i := 0; i < searchRuns; i++ {
				t1 := time.Now()
				searcher.GetNNSByVector(query, topK, searchK)
				durations[i] = time.Since(t1)
			}
			stats := metrics.LatencyStatsFromDurations(durations)

			metrics.GC()
			after := metrics.Take()

			rows = append(rows, metrics.StageARow{
				NTrees:      nTrees,
				SearchK:     searchK,
				SearchKMult: mult,
				VectorCount: vectorCount,
				BuildDurMs:  float64(buildDur.Nanoseconds()) / 1e6,
				SearchP50Ms: stats.P50Ms,
				SearchP99Ms: stats.P99Ms,
				HeapAllocMB: float64(after.HeapAlloc) / 1024 / 1024,
			})
			fmt.Printf("  searchK=%d Build=%.0fms SearchP50=%.2fms P99=%.2fms Heap=%.1fMB\n",
				searchK, rows[len(rows)-1].BuildDurMs, stats.P50Ms, stats.P99Ms, rows[len(rows)-1].HeapAllocMB)
		}
		searcher.Close()
	}

	path := metrics.ReportPath("bench_report_stage_a_")
	if err := metrics.WriteStageACSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}
