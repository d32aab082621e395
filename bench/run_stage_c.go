// 阶段 C: 多 goroutine 并发检索同一个已加载 Searcher。
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ic-timon/packedforest/bench/gen"
	"github.com/ic-timon/packedforest/bench/metrics"
	"github.com/ic-timon/packedforest/indexer"
)

func runStageC(verbose bool) {
	const vectorCount = 50_000
	const dim = 512
	const nTrees = 16
	const topK = 5
	const totalRequests = 1000

	concurrencies := []int{1, 4, 8, 16, 32}

	vecs := gen.RandomVectors(vectorCount+totalRequests, dim, 12345)
	queries := vecs[vectorCount : vectorCount+totalRequests]
	vecs = vecs[:vectorCount]

	idx, err := indexer.New(indexer.Config{Dim: dim, Metric: indexer.Euclidean, Seed: 12345, Logger: benchLogger(verbose)})
	if err != nil {
		panic(err)
	}
	fmt.Printf("阶段 C: 构建 %d 向量索引...\n", vectorCount)
	t0 := time.Now()
	for i, v := range vecs {
		if err := idx.AddItem(i, v); err != nil {
			panic(err)
		}
	}
	if err := idx.Build(nTrees); err != nil {
		panic(err)
	}
	fmt.Printf("  构建耗时 %.0fms\n", float64(time.Since(t0).Nanoseconds())/1e6)

	tmpPath := filepath.Join(os.TempDir(), "packedforest-stage-c-index.bin")
	if err := idx.Save(tmpPath); err != nil {
		panic(err)
	}
	searcher, err := indexer.Load(tmpPath, indexer.Euclidean, indexer.LoadOptions{Logger: benchLogger(verbose)})
	if err != nil {
		panic(err)
	}
	defer func() {
		searcher.Close()
		_ = os.Remove(tmpPath)
	}()

	var rows []metrics.StageCRow
	for _, concurrency := range concurrencies {
		fmt.Printf("阶段 C: 并发数 %d\n", concurrency)

		var wg sync.WaitGroup
		durations := make([]time.Duration, totalRequests)
		reqPerWorker := totalRequests / concurrency
		start := time.Now()
		for c := 0; c < concurrency; c++ {
			wg.Add(1)
			go func(worker int) {
				defer wg.Done()
				base := worker * reqPerWorker
				for i := 0; i < reqPerWorker && base+i < totalRequests; i++ {
					t1 := time.Now()
					searcher.GetNNSByVector(queries[base+i], topK, -1)
					durations[base+i] = time.Since(t1)
				}
			}(c)
		}
		wg.Wait()
		elapsed := time.Since(start).Seconds()

		stats := metrics.LatencyStatsFromDurations(durations)
		qps := float64(totalRequests) / elapsed
		ratio := 1.0
		if stats.P50Ms > 0 {
			ratio = stats.P99Ms / stats.P50Ms
		}

		snap := metrics.Take()
		rows = append(rows, metrics.StageCRow{
			Concurrency:  concurrency,
			VectorCount:  vectorCount,
			QPS:          qps,
			SearchP50Ms:  stats.P50Ms,
			SearchP99Ms:  stats.P99Ms,
			NumGoroutine: snap.NumGoroutine,
			P99P50Ratio:  ratio,
		})
		fmt.Printf("  QPS=%.0f P50=%.2fms P99=%.2fms P99/P50=%.2f Goroutines=%d\n",
			qps, stats.P50Ms, stats.P99Ms, ratio, snap.NumGoroutine)
	}

	path := metrics.ReportPath("bench_report_stage_c_")
	if err := metrics.WriteStageCCSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}
