package segment

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteFilteredOnly writes filename and filtered text per screenshot.
func WriteFilteredOnly(path string, results []Result) error {
	rows := [][]string{{"Screenshot Filename", "Filtered Text"}}
	for _, r := range results {
		rows = append(rows, []string{r.Filename, r.FilteredText})
	}
	return writeCSV(path, rows)
}

// WriteFilteredUnfiltered writes the unfiltered and filtered text side by
// side for comparison.
func WriteFilteredUnfiltered(path string, results []Result) error {
	rows := [][]string{{"Screenshot Filename", "Unfiltered Text", "Filtered Text"}}
	for _, r := range results {
		rows = append(rows, []string{r.Filename, r.UnfilteredText, r.FilteredText})
	}
	return writeCSV(path, rows)
}

// WriteDiff writes all four text bands so the removed status-bar and
// keyboard text stays inspectable.
func WriteDiff(path string, results []Result) error {
	rows := [][]string{{
		"Screenshot Filename", "Unfiltered Text", "Filtered Text",
		"Status Bar Text", "Keyboard Text",
	}}
	for _, r := range results {
		rows = append(rows, []string{
			r.Filename, r.UnfilteredText, r.FilteredText,
			r.StatusBarText, r.KeyboardText,
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
