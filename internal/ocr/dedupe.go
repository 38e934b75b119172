package ocr

import (
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/corona10/goimagehash"

	// Register decoders for the screenshot formats we accept.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultMaxHashDistance is the Hamming distance at or below which two
// screenshots count as duplicates.
const DefaultMaxHashDistance = 10

// Deduper detects near-duplicate screenshots by perception hash, so
// repeated captures of an unchanged screen are OCR'd only once.
type Deduper struct {
	mu          sync.Mutex
	lastHash    *goimagehash.ImageHash
	maxDistance int
}

// NewDeduper creates a deduper with the given Hamming distance threshold.
// A threshold below zero falls back to the default.
func NewDeduper(maxDistance int) *Deduper {
	if maxDistance < 0 {
		maxDistance = DefaultMaxHashDistance
	}
	return &Deduper{maxDistance: maxDistance}
}

// IsDuplicate reports whether the image at path is a near-duplicate of the
// previous non-duplicate image. The comparison baseline only advances on
// distinct images, so a long run of near-identical screenshots collapses
// to its first frame.
func (d *Deduper) IsDuplicate(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return d.isDuplicateImage(img)
}

func (d *Deduper) isDuplicateImage(img image.Image) (bool, error) {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lastHash == nil {
		d.lastHash = hash
		return false, nil
	}

	dist, err := d.lastHash.Distance(hash)
	if err != nil {
		d.lastHash = hash
		return false, err
	}
	if dist <= d.maxDistance {
		return true, nil
	}

	d.lastHash = hash
	return false, nil
}
