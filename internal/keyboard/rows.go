package keyboard

import (
	"math"
	"sort"
)

// Candidate is a text fragment inside the scan region that may be part of
// an on-screen keyboard.
type Candidate struct {
	Text     string
	YCenter  float64
	YTop     float64
	YBottom  float64
	IsKey    bool
	IsUI     bool
	KeyCount int // 1 for a single key, N for a merged N-key run, 0 otherwise
}

// Row is a horizontal cluster of candidates believed to form one keyboard
// row.
type Row struct {
	YStart     float64
	YEnd       float64
	YCenter    float64
	CharCount  int // KeyCount sum plus UI-labeled member count
	KeyCount   int
	UICount    int
	Candidates []Candidate
}

// clusterByY groups candidates into horizontal rows by proximity of their
// vertical centers. A single greedy pass over the candidates in ascending-y
// order: each candidate joins the in-progress cluster when it sits within
// tolerance of that cluster's running median, otherwise it starts a new one.
// Cluster boundaries therefore depend on visitation order; the sort is
// stable so ties keep input order and results stay reproducible.
func clusterByY(candidates []Candidate, tolerance float64) [][]Candidate {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].YCenter < sorted[j].YCenter
	})

	var clusters [][]Candidate
	current := []Candidate{sorted[0]}
	for _, c := range sorted[1:] {
		if math.Abs(c.YCenter-medianCenter(current)) <= tolerance {
			current = append(current, c)
		} else {
			clusters = append(clusters, current)
			current = []Candidate{c}
		}
	}
	return append(clusters, current)
}

// medianCenter returns the upper median of the cluster's y-centers
// (element len/2 of the sorted centers).
func medianCenter(cluster []Candidate) float64 {
	ys := make([]float64, len(cluster))
	for i, c := range cluster {
		ys[i] = c.YCenter
	}
	sort.Float64s(ys)
	return ys[len(ys)/2]
}

// buildRow aggregates a cluster of candidates into a Row.
func buildRow(cluster []Candidate) Row {
	row := Row{
		YStart:     cluster[0].YTop,
		YEnd:       cluster[0].YBottom,
		Candidates: cluster,
	}
	var centerSum float64
	for _, c := range cluster {
		row.YStart = math.Min(row.YStart, c.YTop)
		row.YEnd = math.Max(row.YEnd, c.YBottom)
		centerSum += c.YCenter
		row.KeyCount += c.KeyCount
		if c.IsUI {
			row.UICount++
		}
	}
	row.YCenter = centerSum / float64(len(cluster))
	row.CharCount = row.KeyCount + row.UICount
	return row
}
