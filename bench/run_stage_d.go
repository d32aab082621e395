// 阶段 D: 对比 SaveMemory 匿名映射 vs Save+Load 文件 mmap 的检索性能。
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

func runStageD(verbose bool) {
	const vectorCount = 50_000
	const dim = 512
	const nTrees = 16
	const topK = 5
	const totalRequests = 1000
	const concurrency = 16
	const runs = 5 // 多轮取平均

	vecs := gen.RandomVectors(vectorCount+totalRequests, dim, 12345)
	queries := vecs[vectorCount : vectorCount+totalRequests]
	vecs = vecs[:vectorCount]

	idx, err := indexer.New(indexer.Config{Dim: dim, Metric: indexer.Euclidean, Seed: 12345, Logger: benchLogger(verbose)})
	if err != nil {
		panic(err)
	}
	for i, v := range vecs {
		if err := idx.AddItem(i, v); err != nil {
			panic(err)
		}
	}
	if err := idx.Build(nTrees); err != nil {
		panic(err)
	}

	fmt.Println("阶段 D: 匿名内存映射模式")
	mapper, err := idx.SaveMemory()
	if err != nil {
		panic(err)
	}
	searcherMem, err := indexer.LoadMapper(mapper, indexer.Euclidean, indexer.LoadOptions{Logger: benchLogger(verbose)})
	if err != nil {
		panic(err)
	}
	defer searcherMem.Close()

	var sumQpsMem, sumP50Mem, sumP99Mem float64
	for r := 0; r < runs; r++ {
		t0 := time.Now()
		durationsMem := runSearchConcurrent(searcherMem, queries, topK, concurrency)
		elapsedMem := time.Since(t0).Seconds()
		statsMem := metrics.LatencyStatsFromDurations(durationsMem)
		sumQpsMem += float64(totalRequests) / elapsedMem
		sumP50Mem += statsMem.P50Ms
		sumP99Mem += statsMem.P99Ms
	}
	avgQpsMem := sumQpsMem / float64(runs)
	avgP50Mem := sumP50Mem / float64(runs)
	avgP99Mem := sumP99Mem / float64(runs)
	fmt.Printf("  匿名内存 QPS=%.0f P50=%.2fms P99=%.2fms (avg of %d runs)\n", avgQpsMem, avgP50Mem, avgP99Mem, runs)

	fmt.Println("阶段 D: 文件 mmap 模式")
	tmpPath := filepath.Join(os.TempDir(), "packedforest-stage-d-index.bin")
	if err := idx.Save(tmpPath); err != nil {
		panic(err)
	}
	defer os.Remove(tmpPath)

	searcherMmap, err := indexer.Load(tmpPath, indexer.Euclidean, indexer.LoadOptions{Logger: benchLogger(verbose)})
	if err != nil {
		panic(err)
	}
	defer searcherMmap.Close()

	var sumQpsMmap, sumP50Mmap, sumP99Mmap float64
	for r := 0; r < runs; r++ {
		t1 := time.Now()
		durationsMmap := runSearchConcurrent(searcherMmap, queries, topK, concurrency)
		elapsedMmap := time.Since(t1).Seconds()
		statsMmap := metrics.LatencyStatsFromDurations(durationsMmap)
		sumQpsMmap += float64(totalRequests) / elapsedMmap
		sumP50Mmap += statsMmap.P50Ms
		sumP99Mmap += statsMmap.P99Ms
	}
	avgQpsMmap := sumQpsMmap / float64(runs)
	avgP50Mmap := sumP50Mmap / float64(runs)
	avgP99Mmap := sumP99Mmap / float64(runs)
	fmt.Printf("  mmap QPS=%.0f P50=%.2fms P99=%.2fms (avg of %d runs)\n", avgQpsMmap, avgP50Mmap, avgP99Mmap, runs)
	if avgQpsMem > 0 {
		fmt.Printf("  对比: mmap/内存 QPS 比=%.2f\n", avgQpsMmap/avgQpsMem)
	}
}

func runSearchConcurrent(searcher *indexer.Searcher, queries [][]float32, topK int, concurrency int) []time.Duration {
	totalRequests := len(queries)
	durations := make([]time.Duration, totalRequests)
	reqPerWorker := totalRequests / concurrency
	if reqPerWorker < 1 {
		reqPerWorker = 1
	}
	var wg sync.WaitGroup
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
	return durations
}
