// Package agreement measures inter-rater reliability between human scores
// and scores derived from filtered OCR text.
package agreement

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ICCResult holds an intraclass correlation coefficient with its F-test.
type ICCResult struct {
	Value float64
	F     float64
	DF1   int
	DF2   int
	P     float64
}

// ICC3 computes ICC(3,1): two-way mixed effects, consistency, single
// rater. data is one row per subject, one column per rater.
func ICC3(data [][]float64) (ICCResult, error) {
	a, err := anova(data)
	if err != nil {
		return ICCResult{}, err
	}

	n, k := a.n, a.k
	df1 := n - 1
	df2 := (n - 1) * (k - 1)

	if a.msr == 0 && a.mse == 0 {
		return ICCResult{}, fmt.Errorf("ratings have no variance")
	}
	if a.mse == 0 {
		// Raters agree perfectly up to a constant offset.
		return ICCResult{Value: 1, F: 0, DF1: df1, DF2: df2, P: 0}, nil
	}

	f := a.msr / a.mse
	p := distuv.F{D1: float64(df1), D2: float64(df2)}.Survival(f)
	value := (a.msr - a.mse) / (a.msr + float64(k-1)*a.mse)
	return ICCResult{Value: value, F: f, DF1: df1, DF2: df2, P: p}, nil
}

// ICC1 computes ICC(1,1): one-way random effects, single rater.
func ICC1(data [][]float64) (ICCResult, error) {
	a, err := anova(data)
	if err != nil {
		return ICCResult{}, err
	}

	n, k := a.n, a.k
	df1 := n - 1
	df2 := n * (k - 1)

	if a.msr == 0 && a.msw == 0 {
		return ICCResult{}, fmt.Errorf("ratings have no variance")
	}
	if a.msw == 0 {
		return ICCResult{Value: 1, F: 0, DF1: df1, DF2: df2, P: 0}, nil
	}

	f := a.msr / a.msw
	p := distuv.F{D1: float64(df1), D2: float64(df2)}.Survival(f)
	value := (a.msr - a.msw) / (a.msr + float64(k-1)*a.msw)
	return ICCResult{Value: value, F: f, DF1: df1, DF2: df2, P: p}, nil
}

// anovaSums carries the mean squares a two-way ANOVA decomposition yields.
type anovaSums struct {
	n, k          int
	msr, msw, mse float64
}

func anova(data [][]float64) (anovaSums, error) {
	n := len(data)
	if n < 2 {
		return anovaSums{}, fmt.Errorf("need at least 2 subjects, got %d", n)
	}
	k := len(data[0])
	if k < 2 {
		return anovaSums{}, fmt.Errorf("need at least 2 raters, got %d", k)
	}
	for i, row := range data {
		if len(row) != k {
			return anovaSums{}, fmt.Errorf("subject %d has %d ratings, want %d", i, len(row), k)
		}
	}

	all := make([]float64, 0, n*k)
	for _, row := range data {
		all = append(all, row...)
	}
	grand := stat.Mean(all, nil)

	colSums := make([]float64, k)
	var ssr, sst float64
	for _, row := range data {
		rowMean := stat.Mean(row, nil)
		ssr += (rowMean - grand) * (rowMean - grand)
		for j, v := range row {
			colSums[j] += v
			sst += (v - grand) * (v - grand)
		}
	}
	ssr *= float64(k)

	var ssc float64
	for _, sum := range colSums {
		colMean := sum / float64(n)
		ssc += (colMean - grand) * (colMean - grand)
	}
	ssc *= float64(n)

	sse := sst - ssr - ssc
	if sse < 0 {
		sse = 0 // float round-off near perfect agreement
	}

	return anovaSums{
		n:   n,
		k:   k,
		msr: ssr / float64(n-1),
		msw: (sst - ssr) / float64(n*(k-1)),
		mse: sse / float64((n-1)*(k-1)),
	}, nil
}
