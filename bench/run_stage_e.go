// 阶段 E: 持续 QPS 回放。用 rate.Limiter 钳制请求提交速率，
// 不在原 spec.md 中，补充自 original_source 的 multithreaded_build_test /
// accuracy_test 思路：在持续负载下观察延迟分布而非单轮突发。
package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/ic-timon/packedforest/bench/gen"
	"github.com/ic-timon/packedforest/bench/metrics"
	"github.com/ic-timon/packedforest/indexer"
)

func runStageE(verbose bool) {
	const vectorCount = 50_000
	const dim = 512
	const nTrees = 16
	const topK = 5
	const duration = 5 * time.Second
	const workers = 8

	targets := []float64{500, 2000, 8000}

	vecs := gen.RandomVectors(vectorCount+1, dim, 99)
	query := vecs[vectorCount]
	vecs = vecs[:vectorCount]

	idx, err := indexer.New(indexer.Config{Dim: dim, Metric: indexer.Euclidean, Seed: 99, Logger: benchLogger(verbose)})
	if err != nil {
		panic(err)
	}
	for i, v := range vecs {
		if err := idx.AddItem(i, v); err != nil {
			panic(err)
		}
	}
	buildStart := time.Now()
	if err := idx.Build(nTrees); err != nil {
		panic(err)
	}
	buildDur := time.Since(buildStart)
	mapper, err := idx.SaveMemory()
	if err != nil {
		panic(err)
	}
	searcher, err := indexer.LoadMapper(mapper, indexer.Euclidean, indexer.LoadOptions{Logger: benchLogger(verbose)})
	if err != nil {
		panic(err)
	}
	defer searcher.Close()

	prom := metrics.NewPromCollector("e")
	prom.BuildSeconds.Observe(buildDur.Seconds())
	promAddr, stopProm, err := prom.ServeEphemeral()
	if err != nil {
		panic(err)
	}
	defer stopProm()
	fmt.Printf("阶段 E: Prometheus 指标暴露于 http://%s/metrics\n", promAddr)

	var rows []metrics.StageERow
	for _, target := range targets {
		fmt.Printf("阶段 E: 目标 QPS=%.0f 持续 %s\n", target, duration)

		limiter := rate.NewLimiter(rate.Limit(target), int(target/10)+1)
		ctx, cancel := context.WithTimeout(context.Background(), duration)

		var mu sync.Mutex
		var latenciesMs []float64
		var served, dropped int64

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
					t0 := time.Now()
					_, _, err := searcher.GetNNSByVector(query, topK, -1)
					elapsed := time.Since(t0)
					if err != nil {
						atomic.AddInt64(&dropped, 1)
						continue
					}
					atomic.AddInt64(&served, 1)
					prom.SearchLatency.Observe(elapsed.Seconds())
					mu.Lock()
					latenciesMs = append(latenciesMs, float64(elapsed.Nanoseconds())/1e6)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		cancel()

		sortedMs := append([]float64(nil), latenciesMs...)
		for i := 0; i < len(sortedMs); i++ {
			for j := i + 1; j < len(sortedMs); j++ {
				if sortedMs[j] < sortedMs[i] {
					sortedMs[i], sortedMs[j] = sortedMs[j], sortedMs[i]
				}
			}
		}

		row := metrics.StageERow{
			TargetQPS:    target,
			ActualQPS:    float64(served) / duration.Seconds(),
			SearchP50Ms:  metrics.Percentile(sortedMs, 50),
			SearchP95Ms:  metrics.Percentile(sortedMs, 95),
			SearchP99Ms:  metrics.Percentile(sortedMs, 99),
			DroppedCount: int(dropped),
		}
		rows = append(rows, row)
		fmt.Printf("  实际QPS=%.0f P50=%.2fms P95=%.2fms P99=%.2fms Dropped=%d\n",
			row.ActualQPS, row.SearchP50Ms, row.SearchP95Ms, row.SearchP99Ms, row.DroppedCount)
	}

	path := metrics.ReportPath("bench_report_stage_e_")
	if err := metrics.WriteStageECSV(rows, path); err != nil {
		panic(err)
	}
	fmt.Printf("报告已写入 %s\n", path)
}
