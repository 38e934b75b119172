// Command icc scores agreement between human emotion ratings and ratings
// derived from filtered OCR text, one ICC per emotion.
package main

import (
	"flag"
	"fmt"
	"os"

	"screentext/internal/agreement"
)

func main() {
	ratingsPath := flag.String("ratings", "new_emotion_ratios.csv", "Wide ratings CSV with Human_/Filtered_ column pairs")
	outPath := flag.String("out", "icc_results.csv", "Output CSV path")
	flag.Parse()

	scores, err := agreement.AnalyzeFile(*ratingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to analyze ratings: %v\n", err)
		os.Exit(1)
	}

	if err := agreement.WriteResults(*outPath, scores); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Analyzed %d emotions, results in %s\n\n", len(scores), *outPath)

	fmt.Println("Top emotions by agreement:")
	top := scores
	if len(top) > 5 {
		top = top[:5]
	}
	for _, s := range top {
		fmt.Printf("  %-15s ICC %.3f  p %.4f\n", s.Emotion, s.ICC, s.P)
	}
}
