// Package indexer implements a packed-forest approximate nearest neighbor
// index: a forest of randomly-projected binary space-partitioning trees over
// 16-bit quantized vectors, persisted as a single flat, memory-mappable
// artifact.
//
// Quick start:
//
//	idx, _ := indexer.New(indexer.Config{Dim: 64, K: 64, Metric: indexer.Euclidean})
//	idx.AddItem(0, vec)
//	idx.Build(30)
//	idx.Save("out.ann")
//
//	s, _ := indexer.Load("out.ann", indexer.Euclidean, indexer.LoadOptions{})
//	ids, dists, _ := s.GetNNSByVector(query, 10, -1)
package indexer
