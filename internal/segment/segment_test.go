package segment

import (
	"strings"
	"testing"

	"screentext/internal/keyboard"
	"screentext/internal/screenshot"
	"screentext/pkg/geometry"
)

func newTestSegmenter() *Segmenter {
	detector := keyboard.NewDetector(keyboard.NewQWERTYLayout(), keyboard.DefaultParams())
	return NewSegmenter(DefaultMinConfidence, DefaultStatusBarRatio, detector)
}

func testItem(text string, top, bottom, conf float64) screenshot.Item {
	return screenshot.Item{
		Text: text,
		Box:  geometry.NewQuad(10, top, 100, bottom),
		Conf: conf,
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	s := newTestSegmenter()
	res := s.Segment(nil, "empty.png")

	if res.Filename != "empty.png" {
		t.Errorf("Filename = %q", res.Filename)
	}
	for name, text := range map[string]string{
		"UnfilteredText": res.UnfilteredText,
		"FilteredText":   res.FilteredText,
		"StatusBarText":  res.StatusBarText,
		"KeyboardText":   res.KeyboardText,
	} {
		if text != "" {
			t.Errorf("%s = %q, want empty", name, text)
		}
	}
}

func TestSegmentAllBelowConfidence(t *testing.T) {
	s := newTestSegmenter()
	items := []screenshot.Item{
		testItem("barely visible", 100, 130, 0.29),
		testItem("noise", 400, 430, 0.05),
	}
	res := s.Segment(items, "lowconf.png")

	if res.UnfilteredText != "" || res.FilteredText != "" ||
		res.StatusBarText != "" || res.KeyboardText != "" {
		t.Errorf("low-confidence items leaked into output: %+v", res)
	}
}

func TestSegmentLowConfidenceExcludedEverywhere(t *testing.T) {
	s := newTestSegmenter()
	items := []screenshot.Item{
		testItem("kept", 300, 330, 0.95),
		testItem("dropped", 400, 430, 0.10),
		testItem("kept two", 500, 530, 0.30), // exactly at threshold: kept
	}
	res := s.Segment(items, "x.png")

	if strings.Contains(res.UnfilteredText, "dropped") {
		t.Error("below-threshold item appeared in unfiltered text")
	}
	if !strings.Contains(res.UnfilteredText, "kept two") {
		t.Error("at-threshold item missing from unfiltered text")
	}
}

func TestSegmentStatusBarRouting(t *testing.T) {
	s := newTestSegmenter()
	// Bottom item sets the inferred height: 594.06 * 1.01 = 600.
	items := []screenshot.Item{
		testItem("9:41 AM", 10, 30, 0.95),            // center 20, 20/600 < 0.05
		testItem("message body", 300, 594.06, 0.95), // pins the height
	}
	res := s.Segment(items, "sb.png")

	if res.StatusBarText != "9:41 AM" {
		t.Errorf("StatusBarText = %q, want %q", res.StatusBarText, "9:41 AM")
	}
	if res.FilteredText != "message body" {
		t.Errorf("FilteredText = %q, want %q", res.FilteredText, "message body")
	}
	if res.KeyboardText != "" {
		t.Errorf("KeyboardText = %q, want empty", res.KeyboardText)
	}
}

func TestSegmentKeyboardRouting(t *testing.T) {
	s := newTestSegmenter()

	items := []screenshot.Item{
		testItem("How are you?", 200, 230, 0.95),
	}
	// Eight letter keys near the bottom of a ~1000px image.
	for i, l := range []string{"q", "w", "e", "r", "t", "y", "u", "i"} {
		items = append(items, screenshot.Item{
			Text: l,
			Box:  geometry.NewQuad(float64(40*i), 950, float64(40*i)+30, 970),
			Conf: 0.9,
		})
	}
	// Height anchor so the image is 1000px tall: 990.1 * 1.01 ≈ 1000.
	items = append(items, testItem("send", 960, 990.1, 0.9))

	res := s.Segment(items, "kb.png")

	for _, l := range []string{"q", "w", "e", "r", "t", "y", "u", "i"} {
		if !containsLine(res.KeyboardText, l) {
			t.Errorf("key %q missing from KeyboardText %q", l, res.KeyboardText)
		}
		if containsLine(res.FilteredText, l) {
			t.Errorf("key %q leaked into FilteredText %q", l, res.FilteredText)
		}
	}
	if !containsLine(res.FilteredText, "How are you?") {
		t.Errorf("content missing from FilteredText %q", res.FilteredText)
	}
}

func TestSegmentBandsPartitionUnfiltered(t *testing.T) {
	s := newTestSegmenter()

	items := []screenshot.Item{
		testItem("12:30", 5, 25, 0.9),
		testItem("hello out there", 300, 340, 0.9),
		testItem("space", 950, 970, 0.9),
		testItem("return", 950, 970, 0.9),
		testItem("low conf", 400, 440, 0.1),
	}
	items = append(items, testItem("tall", 960, 990.1, 0.9))

	res := s.Segment(items, "part.png")

	countLines := func(s string) int {
		if s == "" {
			return 0
		}
		return len(strings.Split(s, "\n"))
	}
	total := countLines(res.StatusBarText) + countLines(res.FilteredText) + countLines(res.KeyboardText)
	if got := countLines(res.UnfilteredText); got != total {
		t.Errorf("band line counts %d do not partition unfiltered %d", total, got)
	}
}

func TestSegmentIdempotent(t *testing.T) {
	s := newTestSegmenter()
	items := []screenshot.Item{
		testItem("11:11", 5, 25, 0.9),
		testItem("some content", 300, 340, 0.9),
		testItem("space", 950, 970, 0.9),
		testItem("return", 950, 970, 0.9),
		testItem("tall", 960, 990.1, 0.9),
	}

	first := s.Segment(items, "idem.png")
	second := s.Segment(items, "idem.png")
	if first != second {
		t.Errorf("results differ between runs:\n%+v\n%+v", first, second)
	}
}

func TestSegmentSkipsBlankText(t *testing.T) {
	s := newTestSegmenter()
	items := []screenshot.Item{
		testItem("  ", 300, 330, 0.9),
		testItem("real", 400, 430, 0.9),
	}
	res := s.Segment(items, "blank.png")
	if res.UnfilteredText != "real" {
		t.Errorf("UnfilteredText = %q, want %q", res.UnfilteredText, "real")
	}
}

func TestInferHeight(t *testing.T) {
	if got := InferHeight(nil); got != 1000 {
		t.Errorf("InferHeight(nil) = %d, want 1000", got)
	}

	items := []screenshot.Item{
		testItem("a", 100, 500, 0.9),
		testItem("b", 100, 990.1, 0.9),
	}
	// 990.1 * 1.01 = 1000.001 -> 1000
	if got := InferHeight(items); got != 1000 {
		t.Errorf("InferHeight = %d, want 1000", got)
	}

	tiny := []screenshot.Item{testItem("x", 0, 0.1, 0.9)}
	if got := InferHeight(tiny); got != 1 {
		t.Errorf("InferHeight(tiny) = %d, want 1 (floor clamp)", got)
	}
}

func TestInferHeightUsesLowestBottomCorner(t *testing.T) {
	// The bottom-left corner dips below the bottom-right one.
	skewed := screenshot.Item{
		Text: "x",
		Box: geometry.Quad{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 500}, {X: 0, Y: 600},
		},
		Conf: 0.9,
	}
	// 600 * 1.01 = 606
	if got := InferHeight([]screenshot.Item{skewed}); got != 606 {
		t.Errorf("InferHeight = %d, want 606", got)
	}
}

func containsLine(text, line string) bool {
	for _, l := range strings.Split(text, "\n") {
		if l == line {
			return true
		}
	}
	return false
}
