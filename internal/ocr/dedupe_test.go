package ocr

import (
	"image"
	"image/color"
	"testing"
)

// gradient renders a horizontal gradient with a dark block whose position
// varies, giving images with meaningfully different perception hashes.
func gradient(blockX int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(x * 4)
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	for y := 8; y < 56; y++ {
		for x := blockX; x < blockX+16 && x < 64; x++ {
			img.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	return img
}

func TestDeduperFirstImageNeverDuplicate(t *testing.T) {
	d := NewDeduper(DefaultMaxHashDistance)
	dup, err := d.isDuplicateImage(gradient(0))
	if err != nil {
		t.Fatal(err)
	}
	if dup {
		t.Error("first image reported as duplicate")
	}
}

func TestDeduperCatchesIdenticalImage(t *testing.T) {
	d := NewDeduper(DefaultMaxHashDistance)
	if _, err := d.isDuplicateImage(gradient(10)); err != nil {
		t.Fatal(err)
	}
	dup, err := d.isDuplicateImage(gradient(10))
	if err != nil {
		t.Fatal(err)
	}
	if !dup {
		t.Error("identical image not reported as duplicate")
	}
}

func TestDeduperPassesDistinctImage(t *testing.T) {
	d := NewDeduper(0) // strictest threshold
	if _, err := d.isDuplicateImage(gradient(0)); err != nil {
		t.Fatal(err)
	}
	dup, err := d.isDuplicateImage(gradient(48))
	if err != nil {
		t.Fatal(err)
	}
	if dup {
		t.Error("distinct image reported as duplicate")
	}
}

func TestDeduperBaselineHoldsThroughDuplicateRun(t *testing.T) {
	d := NewDeduper(DefaultMaxHashDistance)
	if _, err := d.isDuplicateImage(gradient(20)); err != nil {
		t.Fatal(err)
	}
	// A run of identical frames must all compare against the first.
	for i := 0; i < 3; i++ {
		dup, err := d.isDuplicateImage(gradient(20))
		if err != nil {
			t.Fatal(err)
		}
		if !dup {
			t.Errorf("frame %d of duplicate run not caught", i)
		}
	}
}

func TestNewDeduperNegativeThreshold(t *testing.T) {
	d := NewDeduper(-1)
	if d.maxDistance != DefaultMaxHashDistance {
		t.Errorf("maxDistance = %d, want default %d", d.maxDistance, DefaultMaxHashDistance)
	}
}
