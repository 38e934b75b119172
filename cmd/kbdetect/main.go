// Command kbdetect runs keyboard detection on one OCR payload and prints
// what the detector saw, for tuning the row and region heuristics.
package main

import (
	"flag"
	"fmt"
	"os"

	"screentext/internal/keyboard"
	"screentext/internal/screenshot"
	"screentext/internal/segment"
)

func main() {
	payloadPath := flag.String("payload", "", "Path to an OCR payload JSON file")
	minConf := flag.Float64("min-conf", segment.DefaultMinConfidence, "Minimum item confidence")
	scanFraction := flag.Float64("scan", 0.70, "Bottom fraction of the image to scan")
	minRows := flag.Int("min-rows", 2, "Rows a cluster needs without a strong UI row")
	minChars := flag.Int("min-chars", 5, "Key characters that make a row an anchor")
	flag.Parse()

	if *payloadPath == "" {
		fmt.Println("Usage: kbdetect -payload <path> [-min-conf 0.30] [-scan 0.70]")
		os.Exit(1)
	}

	payload, dropped, err := screenshot.LoadPayload(*payloadPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load payload: %v\n", err)
		os.Exit(1)
	}
	if dropped > 0 {
		fmt.Printf("Dropped %d malformed item(s)\n", dropped)
	}

	var confident []screenshot.Item
	for _, item := range payload.Items {
		if item.Conf >= *minConf {
			confident = append(confident, item)
		}
	}
	height := float64(segment.InferHeight(confident))

	fmt.Printf("Payload: %s\n", payload.Filename)
	fmt.Printf("Items: %d total, %d above confidence %.2f\n", len(payload.Items), len(confident), *minConf)
	fmt.Printf("Inferred height: %.0f px\n\n", height)

	params := keyboard.DefaultParams()
	params.ScanFraction = *scanFraction
	params.MinRows = *minRows
	params.MinCharsPerRow = *minChars
	detector := keyboard.NewDetector(keyboard.NewQWERTYLayout(), params)

	rows := detector.FindRows(confident, height)
	fmt.Printf("Candidate rows in scan region: %d\n", len(rows))
	for i, row := range rows {
		fmt.Printf("  row %d: y %.0f-%.0f  keys=%d ui=%d chars=%d\n",
			i, row.YStart, row.YEnd, row.KeyCount, row.UICount, row.CharCount)
		for _, c := range row.Candidates {
			fmt.Printf("    %q\n", c.Text)
		}
	}

	regions := detector.DetectRegions(confident, height)
	if len(regions) == 0 {
		fmt.Println("\nNo keyboard regions detected")
		return
	}
	fmt.Printf("\nKeyboard regions: %d\n", len(regions))
	for i, r := range regions {
		fmt.Printf("  region %d: %.3f-%.3f (%.0f-%.0f px)\n",
			i, r.Start, r.End, r.Start*height, r.End*height)
	}
}
