// Package screenshot defines the per-screenshot OCR data model and its
// JSON payload format.
package screenshot

import (
	"encoding/json"
	"fmt"
	"os"

	"screentext/pkg/geometry"
)

// Item is a single positioned text fragment from the OCR engine.
type Item struct {
	Text string        `json:"text"`
	Box  geometry.Quad `json:"box"`
	Conf float64       `json:"conf"`
}

// Payload is the OCR output for one screenshot: one JSON file per image.
type Payload struct {
	Filename string `json:"filename"`
	Items    []Item `json:"items"`
}

// rawPayload defers item decoding so a single malformed item does not
// poison the whole payload.
type rawPayload struct {
	Filename string            `json:"filename"`
	Items    []json.RawMessage `json:"items"`
}

// rawItem uses pointers so a missing box or confidence is distinguishable
// from a zero value.
type rawItem struct {
	Text string         `json:"text"`
	Box  *geometry.Quad `json:"box"`
	Conf *float64       `json:"conf"`
}

// LoadPayload reads a payload from a JSON file. Items with a missing or
// malformed box or confidence are dropped; the count of dropped items is
// returned so callers can report it.
func LoadPayload(path string) (*Payload, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	var raw rawPayload
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("unmarshal payload: %w", err)
	}

	p := &Payload{Filename: raw.Filename, Items: make([]Item, 0, len(raw.Items))}
	dropped := 0
	for _, r := range raw.Items {
		var item rawItem
		if err := json.Unmarshal(r, &item); err != nil || item.Box == nil || item.Conf == nil {
			dropped++
			continue
		}
		p.Items = append(p.Items, Item{Text: item.Text, Box: *item.Box, Conf: *item.Conf})
	}
	return p, dropped, nil
}

// SavePayload writes a payload to a JSON file.
func (p *Payload) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
