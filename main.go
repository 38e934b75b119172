// Package main provides the entry point for the screenshot text pipeline.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"screentext/internal/agreement"
	"screentext/internal/ocr"
	"screentext/internal/screenshot"
	"screentext/internal/segment"
)

const (
	appTitle   = "screentext"
	appVersion = "0.1.0"
)

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".tif": true, ".tiff": true,
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "", "Path to YAML config file")
	steps := flag.String("steps", "ocr,filter", "Comma-separated steps to run: ocr, filter, icc")
	inputDir := flag.String("input", "", "Screenshot directory (overrides config)")
	ocrDir := flag.String("ocr-dir", "", "OCR payload directory (overrides config)")
	outputDir := flag.String("out", "", "CSV output directory (overrides config)")
	workers := flag.Int("workers", 0, "Parallel workers for filtering (overrides config)")
	skipDup := flag.Bool("skip-dup", false, "Skip near-duplicate screenshots during OCR")
	ratingsPath := flag.String("ratings", "new_emotion_ratios.csv", "Ratings CSV for the icc step")
	flag.Parse()

	cfg := segment.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = segment.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	// Explicit flags beat the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputDir = *inputDir
		case "ocr-dir":
			cfg.OCRDir = *ocrDir
		case "out":
			cfg.OutputDir = *outputDir
		case "workers":
			cfg.Workers = *workers
		case "skip-dup":
			cfg.SkipDuplicates = *skipDup
		}
	})
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	log.Printf("Starting %s v%s", appTitle, appVersion)

	for _, step := range strings.Split(*steps, ",") {
		switch strings.TrimSpace(step) {
		case "ocr":
			if err := runOCR(cfg); err != nil {
				log.Fatalf("OCR step failed: %v", err)
			}
		case "filter":
			if err := runFilter(cfg); err != nil {
				log.Fatalf("Filter step failed: %v", err)
			}
		case "icc":
			if err := runICC(*ratingsPath, cfg.OutputDir); err != nil {
				log.Fatalf("ICC step failed: %v", err)
			}
		case "":
		default:
			log.Fatalf("Unknown step %q (valid: ocr, filter, icc)", step)
		}
	}
}

// runOCR extracts positioned text from every screenshot that does not
// already have a payload, one JSON file per image.
func runOCR(cfg segment.Config) error {
	if err := os.MkdirAll(cfg.OCRDir, 0o755); err != nil {
		return err
	}

	images, err := listImages(cfg.InputDir)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("no images found in %s", cfg.InputDir)
	}
	fmt.Printf("Found %d image(s) in %s\n", len(images), cfg.InputDir)

	engine, err := ocr.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to start OCR engine: %w", err)
	}
	defer engine.Close()

	var deduper *ocr.Deduper
	if cfg.SkipDuplicates {
		deduper = ocr.NewDeduper(ocr.DefaultMaxHashDistance)
	}

	var processed, skipped, failed int
	for i, name := range images {
		jsonName := strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
		jsonPath := filepath.Join(cfg.OCRDir, jsonName)
		imagePath := filepath.Join(cfg.InputDir, name)

		if _, err := os.Stat(jsonPath); err == nil {
			fmt.Printf("[%d/%d] SKIP (already done): %s\n", i+1, len(images), name)
			skipped++
			continue
		}

		if deduper != nil {
			dup, err := deduper.IsDuplicate(imagePath)
			if err != nil {
				log.Printf("[!] %s: duplicate check: %v", name, err)
			} else if dup {
				fmt.Printf("[%d/%d] SKIP (duplicate): %s\n", i+1, len(images), name)
				skipped++
				continue
			}
		}

		fmt.Printf("[%d/%d] Processing: %s\n", i+1, len(images), name)
		payload, err := engine.ProcessImage(imagePath)
		if err != nil {
			log.Printf("[!] %s: %v", name, err)
			failed++
			continue
		}

		// Low-confidence detections never reach disk.
		confident := payload.Items[:0]
		for _, item := range payload.Items {
			if item.Conf >= cfg.MinConfidence {
				confident = append(confident, item)
			}
		}
		payload.Items = confident

		if err := payload.Save(jsonPath); err != nil {
			log.Printf("[!] %s: %v", name, err)
			failed++
			continue
		}
		processed++
	}

	fmt.Printf("\nOCR done: %d processed, %d skipped, %d failed\n", processed, skipped, failed)
	return nil
}

// runFilter segments every payload into text bands and writes the CSVs.
func runFilter(cfg segment.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	s := segment.NewSegmenterFromConfig(cfg)
	results, failed, err := s.ProcessDir(cfg.OCRDir, cfg.Workers)
	if err != nil {
		return err
	}

	outputs := []struct {
		name  string
		write func(string, []segment.Result) error
	}{
		{"filtered_only.csv", segment.WriteFilteredOnly},
		{"filtered_unfiltered.csv", segment.WriteFilteredUnfiltered},
		{"filtered_unfiltered_diff.csv", segment.WriteDiff},
	}
	for _, out := range outputs {
		path := filepath.Join(cfg.OutputDir, out.name)
		if err := out.write(path, results); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}

	fmt.Printf("\nFiltering done: %d screenshot(s), %d failed\n", len(results), failed)
	return nil
}

// runICC scores human-vs-OCR rating agreement per emotion.
func runICC(ratingsPath, outputDir string) error {
	scores, err := agreement.AnalyzeFile(ratingsPath)
	if err != nil {
		return err
	}
	outPath := filepath.Join(outputDir, "icc_results.csv")
	if err := agreement.WriteResults(outPath, scores); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d emotions)\n", outPath, len(scores))
	return nil
}

// listImages returns the image filenames in dir, natural-sorted.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	screenshot.SortNatural(names)
	return names, nil
}
