// Package segment splits each screenshot's OCR text into status-bar,
// keyboard, and content bands.
package segment

import (
	"strings"

	"screentext/internal/keyboard"
	"screentext/internal/screenshot"
)

// Default pipeline tunables.
const (
	DefaultMinConfidence  = 0.30
	DefaultStatusBarRatio = 0.05 // top 5% of image height is status bar

	// fallbackHeight stands in when no confident item carries geometry.
	fallbackHeight = 1000
)

// Result holds the four text bands extracted from one screenshot.
type Result struct {
	Filename       string
	UnfilteredText string // everything above the confidence threshold
	FilteredText   string // content only: no status bar, no keyboard
	StatusBarText  string
	KeyboardText   string
}

// Segmenter applies confidence filtering, the status-bar split, and
// keyboard detection to one screenshot at a time. It carries no per-call
// state and is safe for concurrent use.
type Segmenter struct {
	MinConfidence  float64
	StatusBarRatio float64
	detector       *keyboard.Detector
}

// NewSegmenter creates a segmenter around the given keyboard detector.
func NewSegmenter(minConfidence, statusBarRatio float64, detector *keyboard.Detector) *Segmenter {
	return &Segmenter{
		MinConfidence:  minConfidence,
		StatusBarRatio: statusBarRatio,
		detector:       detector,
	}
}

// Segment splits one screenshot's OCR items into the four text bands.
func (s *Segmenter) Segment(items []screenshot.Item, filename string) Result {
	confident := filterConfidence(items, s.MinConfidence)
	height := float64(InferHeight(confident))

	statusBar, body := splitByY(confident, height*s.StatusBarRatio)

	regions := s.detector.DetectRegions(body, height)
	var kb, content []screenshot.Item
	if len(regions) > 0 {
		kb, content = splitKeyboard(body, regions, height)
	} else {
		content = body
	}

	return Result{
		Filename:       filename,
		UnfilteredText: joinText(confident),
		FilteredText:   joinText(content),
		StatusBarText:  joinText(statusBar),
		KeyboardText:   joinText(kb),
	}
}

// InferHeight estimates image height purely from bounding boxes: the
// largest bottom-corner y across all items plus a 1% buffer. Falls back
// to 1000 when there are no items, and never returns less than 1.
func InferHeight(items []screenshot.Item) int {
	if len(items) == 0 {
		return fallbackHeight
	}
	var maxY float64
	for _, item := range items {
		if y := item.Box.LowestY(); y > maxY {
			maxY = y
		}
	}
	h := int(maxY * 1.01)
	if h < 1 {
		h = 1
	}
	return h
}

// filterConfidence keeps items at or above the confidence threshold.
func filterConfidence(items []screenshot.Item, threshold float64) []screenshot.Item {
	kept := make([]screenshot.Item, 0, len(items))
	for _, item := range items {
		if item.Conf >= threshold {
			kept = append(kept, item)
		}
	}
	return kept
}

// splitByY partitions items into (at or above, below) a y-pixel threshold
// by vertical center.
func splitByY(items []screenshot.Item, thresholdPx float64) (above, below []screenshot.Item) {
	for _, item := range items {
		if item.Box.CenterY() <= thresholdPx {
			above = append(above, item)
		} else {
			below = append(below, item)
		}
	}
	return above, below
}

// splitKeyboard partitions body items into (keyboard, content) using the
// detected fractional regions.
func splitKeyboard(items []screenshot.Item, regions []keyboard.Region, height float64) (kb, content []screenshot.Item) {
	for _, item := range items {
		frac := item.Box.CenterY() / height
		inKeyboard := false
		for _, r := range regions {
			if r.Contains(frac) {
				inKeyboard = true
				break
			}
		}
		if inKeyboard {
			kb = append(kb, item)
		} else {
			content = append(content, item)
		}
	}
	return kb, content
}

// joinText concatenates the items' stripped text with newlines, in item
// order, skipping items whose stripped text is empty.
func joinText(items []screenshot.Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item.Text); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}
