package screenshot

import (
	"os"
	"path/filepath"
	"testing"

	"screentext/pkg/geometry"
)

func TestLoadPayload(t *testing.T) {
	raw := `{
		"filename": "shot_1.png",
		"items": [
			{"text": "Hello", "box": [[10,20],[90,20],[90,44],[10,44]], "conf": 0.97},
			{"text": "q", "box": [[12,800],[30,800],[30,830],[12,830]], "conf": 0.55}
		]
	}`
	path := filepath.Join(t.TempDir(), "shot_1.json")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	p, dropped, err := LoadPayload(path)
	if err != nil {
		t.Fatalf("LoadPayload: %v", err)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if p.Filename != "shot_1.png" {
		t.Errorf("filename = %q", p.Filename)
	}
	if len(p.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(p.Items))
	}
	if p.Items[0].Text != "Hello" || p.Items[0].Conf != 0.97 {
		t.Errorf("unexpected first item: %+v", p.Items[0])
	}
	if got := p.Items[1].Box.CenterY(); got != 815 {
		t.Errorf("CenterY = %v, want 815", got)
	}
}

func TestLoadPayloadDropsMalformedItems(t *testing.T) {
	raw := `{
		"filename": "shot_2.png",
		"items": [
			{"text": "ok", "box": [[0,0],[1,0],[1,1],[0,1]], "conf": 0.9},
			{"text": "bad box", "box": [[0,0],[1,1]], "conf": 0.9},
			{"text": "no box", "conf": 0.9},
			{"text": "also ok", "box": [[0,5],[1,5],[1,6],[0,6]], "conf": 0.4}
		]
	}`
	path := filepath.Join(t.TempDir(), "shot_2.json")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	p, dropped, err := LoadPayload(path)
	if err != nil {
		t.Fatalf("LoadPayload: %v", err)
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(p.Items) != 2 {
		t.Errorf("items = %d, want 2", len(p.Items))
	}
	if p.Items[1].Text != "also ok" {
		t.Errorf("surviving items = %+v", p.Items)
	}
}

func TestLoadPayloadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadPayload(path); err == nil {
		t.Error("expected error for broken JSON")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := &Payload{
		Filename: "shot_3.png",
		Items: []Item{
			{Text: "space", Box: geometry.NewQuad(100, 900, 300, 940), Conf: 0.88},
		},
	}
	path := filepath.Join(t.TempDir(), "shot_3.json")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, dropped, err := LoadPayload(path)
	if err != nil {
		t.Fatalf("LoadPayload: %v", err)
	}
	if dropped != 0 || len(back.Items) != 1 {
		t.Fatalf("dropped=%d items=%d", dropped, len(back.Items))
	}
	if back.Items[0] != p.Items[0] {
		t.Errorf("round trip changed item: %+v != %+v", back.Items[0], p.Items[0])
	}
}

func TestNaturalLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"shot2.json", "shot10.json", true},
		{"shot10.json", "shot2.json", false},
		{"shot1.json", "shot1.json", false},
		{"a.json", "b.json", true},
		{"Shot2.json", "shot10.json", true},
		{"shot02.json", "shot2.json", false},
		{"shot2a.json", "shot2b.json", true},
	}
	for _, tc := range cases {
		if got := NaturalLess(tc.a, tc.b); got != tc.want {
			t.Errorf("NaturalLess(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSortNatural(t *testing.T) {
	names := []string{"img10.json", "img2.json", "img1.json", "cover.json"}
	SortNatural(names)
	want := []string{"cover.json", "img1.json", "img2.json", "img10.json"}
	for i, w := range want {
		if names[i] != w {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
}
