// 阶段 B: 向量规模扩展，构建后持久化到文件并以 mmap 方式加载检索。
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ic-timon/packedforest/bench/gen"
	"github.com/ic-timon/packedforest/bench/metrics"
	"github.com/ic-timon/packedforest/indexer"
)

func runStageB(verbose bool) {
	const dim = 512
	const nTrees = 16
	const searchRuns = 100
	const topK = 5

	scales := []int{10_000, 50_000, 100_000, 200_000}

	var rows []metrics.StageBRow
	for _, n := range scales {
		fmt.Printf("阶段 B: 向量规模 %d\n", n)

		vecs := gen.RandomVectors(n+1, dim, int64(n))
		query := vecs[n]
		vecs = vecs[:n]

		metrics.GC()
		_ = metrics.Take()

		idx, err := indexer.New(indexer.Config{Dim: dim, Metric: indexer.Euclidean, Seed: int64(n), Logger: benchLogger(verbose)})
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

		tmp := filepath.Join(os.TempDir(), fmt.Sprintf("packedforest-stage-b-%d.bin", n))
		if err := idx.Save(tmp); err != nil {
			panic(err)
		}

		searcher, err := indexer.Load(tmp, indexer.Euclidean, indexer.LoadOptions{Logger: benchLogger(verbose)})
		if err != nil {
			panic(err)
		}

		durations := make([]time.Duration, searchRuns)
		for i := 0; i < searchRuns; i++ {
			t1 := time.Now()
			searcher.GetNNSByVector(query, topK, -1)
			durations[i] = time.Since(t1)
		}
		stats := metrics.LatencyStatsFromDurations(durations)

		searcher.Close()
		_ = os.Remove(tmp)

		metrics.GC()
		after := metrics.Take()

		rows = append(rows, metrics.StageBRow{
			VectorCount: n,
			BuildDurMs:  float64(buildDur.Nanoseconds()) / 1e6,
			SearchP50Ms: stats.P50Ms,
			SearchP99Ms: stats.P99Ms,
			HeapSysMB:   float64(after.HeapSys) / 1024 / 1024,
		})
		fmt.Printf("  Build=%.0fms SearchP50=%.2fms P99=%.2fms HeapSys=%.1fMB\n",
			rows[len(rows)-1].BuildDurMs, stats.P50Ms, stats.P99Ms, rows[len(rows)-1].HeapSysMB)
	}

	path := metrics.ReportPath("bench_report_stage_b_")
	if err := metrics.WriteStageBCSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}
