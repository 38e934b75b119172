package agreement

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Human and OCR-derived scores come in one wide CSV, one pair of columns
// per emotion.
const (
	humanPrefix    = "Human_"
	filteredPrefix = "Filtered_"
)

// EmotionScore is the agreement outcome for one emotion.
type EmotionScore struct {
	Emotion string
	ICC     float64
	P       float64
}

// LoadRatings reads a wide ratings CSV and returns, per emotion, one
// [human, filtered] score pair per screenshot. Emotions without a matching
// Filtered_ column are skipped, as are rows where either score fails to
// parse. The returned order follows the Human_ columns in the header.
func LoadRatings(path string) (emotions []string, data map[string][][]float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read ratings %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("ratings file %s has no data rows", path)
	}

	header := rows[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	data = make(map[string][][]float64)
	for _, name := range header {
		name = strings.TrimSpace(name)
		if !strings.HasPrefix(name, humanPrefix) {
			continue
		}
		emotion := strings.TrimPrefix(name, humanPrefix)
		filteredCol, ok := colIdx[filteredPrefix+emotion]
		if !ok {
			continue
		}
		humanCol := colIdx[name]

		var pairs [][]float64
		for _, row := range rows[1:] {
			if humanCol >= len(row) || filteredCol >= len(row) {
				continue
			}
			human, err1 := strconv.ParseFloat(strings.TrimSpace(row[humanCol]), 64)
			filtered, err2 := strconv.ParseFloat(strings.TrimSpace(row[filteredCol]), 64)
			if err1 != nil || err2 != nil {
				continue
			}
			pairs = append(pairs, []float64{human, filtered})
		}
		emotions = append(emotions, emotion)
		data[emotion] = pairs
	}

	if len(emotions) == 0 {
		return nil, nil, fmt.Errorf("no Human_/Filtered_ column pairs in %s", path)
	}
	return emotions, data, nil
}

// AnalyzeFile computes ICC3 per emotion in a ratings CSV, sorted by
// agreement, best first. An emotion whose ICC cannot be computed scores
// zero with a p-value of one instead of failing the run.
func AnalyzeFile(path string) ([]EmotionScore, error) {
	emotions, data, err := LoadRatings(path)
	if err != nil {
		return nil, err
	}

	scores := make([]EmotionScore, 0, len(emotions))
	for _, emotion := range emotions {
		res, err := ICC3(data[emotion])
		if err != nil {
			scores = append(scores, EmotionScore{Emotion: emotion, ICC: 0, P: 1})
			continue
		}
		scores = append(scores, EmotionScore{Emotion: emotion, ICC: res.Value, P: res.P})
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].ICC > scores[j].ICC })
	return scores, nil
}

// WriteResults writes the per-emotion agreement scores as CSV.
func WriteResults(path string, scores []EmotionScore) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	rows := [][]string{{"Emotion", "ICC", "p-value"}}
	for _, s := range scores {
		rows = append(rows, []string{
			s.Emotion,
			strconv.FormatFloat(s.ICC, 'g', -1, 64),
			strconv.FormatFloat(s.P, 'g', -1, 64),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
