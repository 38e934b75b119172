package keyboard

import (
	"math"
	"sort"
	"strings"

	"screentext/internal/screenshot"
)

// Detection geometry, as fractions of image height.
const (
	// anchorProximity is how far a weak row may sit from an anchor row's
	// center and still be promoted.
	anchorProximity = 0.15
	// rowClusterGap is the largest gap between consecutive row centers
	// within one keyboard.
	rowClusterGap = 0.12
	// regionBuffer pads an emitted region above and below its rows.
	regionBuffer = 0.02
)

// Params holds the detector tunables.
type Params struct {
	ScanFraction   float64 // bottom fraction of the image searched for keys
	MinRows        int     // rows a cluster needs without a strong UI row
	MinCharsPerRow int     // anchor threshold on a row's key+UI count
	RowThreshold   float64 // y-pixel tolerance when clustering candidates into rows
}

// DefaultParams returns the tuned detection parameters.
func DefaultParams() Params {
	return Params{
		ScanFraction:   0.70,
		MinRows:        2,
		MinCharsPerRow: 5,
		RowThreshold:   60,
	}
}

// Detector finds on-screen keyboards in portrait screenshots from OCR
// geometry alone.
type Detector struct {
	layout *Layout
	params Params
}

// NewDetector creates a detector for the given layout and parameters.
func NewDetector(layout *Layout, params Params) *Detector {
	return &Detector{layout: layout, params: params}
}

// Region is a fractional vertical band of the image believed to contain a
// keyboard. Start and End are relative to image height, Start < End.
type Region struct {
	Start float64
	End   float64
}

// Contains reports whether a height-fraction falls inside the region.
func (r Region) Contains(frac float64) bool {
	return frac >= r.Start && frac <= r.End
}

// FindRows extracts keyboard candidates from the scan region and clusters
// them into horizontal rows.
func (d *Detector) FindRows(items []screenshot.Item, imageHeight float64) []Row {
	scanTop := imageHeight * (1 - d.params.ScanFraction)

	var candidates []Candidate
	for _, item := range items {
		cy := item.Box.CenterY()
		if cy < scanTop {
			continue
		}

		text := strings.TrimSpace(item.Text)
		isKey := d.layout.IsKey(text)
		isUI := d.layout.IsUIElement(text)

		if isKey || isUI || len([]rune(text)) <= 2 {
			keyCount := 0
			if isKey {
				keyCount = 1
			}
			candidates = append(candidates, Candidate{
				Text:     text,
				YCenter:  cy,
				YTop:     item.Box.TopY(),
				YBottom:  item.Box.BottomY(),
				IsKey:    isKey,
				IsUI:     isUI,
				KeyCount: keyCount,
			})
		} else if n := d.layout.KeySequenceLength(text); n > 0 {
			candidates = append(candidates, Candidate{
				Text:     text,
				YCenter:  cy,
				YTop:     item.Box.TopY(),
				YBottom:  item.Box.BottomY(),
				IsKey:    true,
				KeyCount: n,
			})
		}
	}

	clusters := clusterByY(candidates, d.params.RowThreshold)
	rows := make([]Row, 0, len(clusters))
	for _, cluster := range clusters {
		rows = append(rows, buildRow(cluster))
	}
	return rows
}

// strongUIRow reports whether the row contains label combinations that
// strongly imply a keyboard (e.g. "space" next to "return").
func strongUIRow(row Row) bool {
	texts := make(map[string]bool, len(row.Candidates))
	for _, c := range row.Candidates {
		texts[strings.ToLower(c.Text)] = true
	}

	hasEnglish := texts["english"]
	hasSpace := texts["space"]
	hasNumbers := texts["?123"] || texts[".?123"] || texts["123"]
	hasEnter := texts["return"] || texts["enter"] || texts["go"] || texts["search"]

	return (hasEnglish && hasNumbers) ||
		(hasEnglish && hasEnter) ||
		(hasSpace && hasEnter) ||
		(hasSpace && hasNumbers)
}

// anchorRow reports whether the row is strong keyboard evidence on its
// own: carrying a strong UI label combination, or dense with keys.
func (d *Detector) anchorRow(row Row) bool {
	return strongUIRow(row) || row.CharCount >= d.params.MinCharsPerRow
}

// DetectRegions returns the fractional vertical bands judged to contain an
// on-screen keyboard, or nil when none is found.
//
// A row is an anchor when it is strong evidence alone: dense with keys, or
// carrying a strong UI label combination. Sparse rows only count when they
// sit next to an anchor, which keeps paragraphs of short words from
// triggering detection.
func (d *Detector) DetectRegions(items []screenshot.Item, imageHeight float64) []Region {
	rows := d.FindRows(items, imageHeight)
	if len(rows) == 0 {
		return nil
	}

	// Anchor rows: strong UI or sufficient character density.
	var anchors []int
	for i, row := range rows {
		if d.anchorRow(row) {
			anchors = append(anchors, i)
		}
	}
	if len(anchors) == 0 {
		return nil
	}

	// Promote adjacent weak rows that carry at least two keys or a UI label.
	valid := make([]bool, len(rows))
	for _, i := range anchors {
		valid[i] = true
	}
	proximity := imageHeight * anchorProximity
	for i, row := range rows {
		if valid[i] {
			continue
		}
		nearAnchor := false
		for _, a := range anchors {
			if math.Abs(row.YCenter-rows[a].YCenter) <= proximity {
				nearAnchor = true
				break
			}
		}
		if nearAnchor && (row.KeyCount >= 2 || row.UICount > 0) {
			valid[i] = true
		}
	}

	validRows := make([]Row, 0, len(rows))
	for i, row := range rows {
		if valid[i] {
			validRows = append(validRows, row)
		}
	}

	// Cluster valid rows into vertically contiguous groups. The gap test is
	// against the previous row in the growing cluster, not the cluster
	// median.
	sort.SliceStable(validRows, func(i, j int) bool {
		return validRows[i].YCenter < validRows[j].YCenter
	})
	spacing := imageHeight * rowClusterGap
	var clusters [][]Row
	current := []Row{validRows[0]}
	for _, row := range validRows[1:] {
		if row.YCenter-current[len(current)-1].YCenter <= spacing {
			current = append(current, row)
		} else {
			clusters = append(clusters, current)
			current = []Row{row}
		}
	}
	clusters = append(clusters, current)

	// Keep clusters with enough rows or an anchor row (a lone dense letter
	// row is a keyboard by itself), and emit padded fractional bounds.
	buffer := imageHeight * regionBuffer
	var regions []Region
	for _, cluster := range clusters {
		keep := len(cluster) >= d.params.MinRows
		if !keep {
			for _, row := range cluster {
				if d.anchorRow(row) {
					keep = true
					break
				}
			}
		}
		if !keep {
			continue
		}

		minY := cluster[0].YStart
		maxY := cluster[0].YEnd
		for _, row := range cluster[1:] {
			minY = math.Min(minY, row.YStart)
			maxY = math.Max(maxY, row.YEnd)
		}
		regions = append(regions, Region{
			Start: math.Max(0.0, (minY-buffer)/imageHeight),
			End:   math.Min(1.0, (maxY+buffer)/imageHeight),
		})
	}
	return regions
}
