package segment

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"screentext/internal/keyboard"
)

// Config holds every tunable for a pipeline run. Zero values mean "use the
// default"; LoadConfig starts from DefaultConfig and lets the file
// override.
type Config struct {
	InputDir  string `yaml:"input_dir"`  // screenshots to OCR
	OCRDir    string `yaml:"ocr_dir"`    // per-screenshot JSON payloads
	OutputDir string `yaml:"output_dir"` // CSV destination

	MinConfidence  float64 `yaml:"min_confidence"`
	StatusBarRatio float64 `yaml:"status_bar_ratio"`

	ScanFraction   float64 `yaml:"scan_fraction"`
	MinRows        int     `yaml:"min_rows"`
	MinCharsPerRow int     `yaml:"min_chars_per_row"`
	RowThreshold   float64 `yaml:"row_threshold"`

	Workers        int  `yaml:"workers"`
	SkipDuplicates bool `yaml:"skip_duplicates"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	params := keyboard.DefaultParams()
	return Config{
		InputDir:       "screenshots",
		OCRDir:         "ocr_data",
		OutputDir:      ".",
		MinConfidence:  DefaultMinConfidence,
		StatusBarRatio: DefaultStatusBarRatio,
		ScanFraction:   params.ScanFraction,
		MinRows:        params.MinRows,
		MinCharsPerRow: params.MinCharsPerRow,
		RowThreshold:   params.RowThreshold,
		Workers:        runtime.NumCPU(),
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// DetectorParams extracts the keyboard detector tunables.
func (c Config) DetectorParams() keyboard.Params {
	return keyboard.Params{
		ScanFraction:   c.ScanFraction,
		MinRows:        c.MinRows,
		MinCharsPerRow: c.MinCharsPerRow,
		RowThreshold:   c.RowThreshold,
	}
}

// NewSegmenterFromConfig builds the segmenter a config describes.
func NewSegmenterFromConfig(c Config) *Segmenter {
	detector := keyboard.NewDetector(keyboard.NewQWERTYLayout(), c.DetectorParams())
	return NewSegmenter(c.MinConfidence, c.StatusBarRatio, detector)
}
