// Package recall 提供近似召回率的度量工具：对比 ANN 检索结果与暴力精确
// 检索的 top-n 集合重合度，补充自 original_source/test/accuracy_test.py /
// precision_test.py 的思路（spec.md 的分发未包含可执行的召回率校验）。
package recall

import "sort"

// Exact 在 items 上对 query 做暴力 L2 精确检索，返回按距离升序排列的前 n 个
// item 索引。items 与 query 必须等长维度。
func Exact(items [][]float32, query []float32, n int) []int {
	type scored struct {
		id   int
		dist float32
	}
	scores := make([]scored, len(items))
	for i, v := range items {
		var d float32
		for k, x := range v {
			diff := x - query[k]
			d += diff * diff
		}
		scores[i] = scored{id: i, dist: d}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].dist < scores[j].dist })
	if n > len(scores) {
		n = len(scores)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = scores[i].id
	}
	return out
}

// AtN computes the fraction of approx's first n ids that also appear in
// exact's first n ids — self-recall@n.
func AtN(approx, exact []int, n int) float64 {
	if n > len(approx) {
		n = len(approx)
	}
	if n > len(exact) {
		n = len(exact)
	}
	if n == 0 {
		return 1.0
	}
	exactSet := make(map[int]struct{}, n)
	for i := 0; i < n; i++ {
		exactSet[exact[i]] = struct{}{}
	}
	hits := 0
	for i := 0; i < n; i++ {
		if _, ok := exactSet[approx[i]]; ok {
			hits++
		}
	}
	return float64(hits) / float64(n)
}

// Mean returns the arithmetic mean of vs, or 0 for an empty slice.
func Mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
