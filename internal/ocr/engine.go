// Package ocr extracts positioned text fragments from screenshot images.
package ocr

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"screentext/internal/screenshot"
	"screentext/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// Engine provides OCR functionality using Tesseract.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a new OCR engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Screenshots scatter short fragments across the frame: keys, labels,
	// chat bubbles. Sparse text mode finds them without assuming a layout.
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// ProcessImage runs OCR on one screenshot file and returns its payload:
// every detected word with an axis-aligned quad and a confidence in [0, 1].
func (e *Engine) ProcessImage(path string) (*screenshot.Payload, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("failed to read image %s", path)
	}
	defer img.Close()

	processed := preprocessScreenshot(img)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get boxes: %w", err)
	}

	payload := &screenshot.Payload{
		Filename: filepath.Base(path),
		Items:    make([]screenshot.Item, 0, len(boxes)),
	}
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		payload.Items = append(payload.Items, screenshot.Item{
			Text: text,
			Box: geometry.NewQuad(
				float64(box.Box.Min.X), float64(box.Box.Min.Y),
				float64(box.Box.Max.X), float64(box.Box.Max.Y),
			),
			Conf: round4(box.Confidence / 100.0),
		})
	}
	return payload, nil
}

// preprocessScreenshot prepares a screenshot for OCR: grayscale, Otsu
// binarization, and an inversion for dark-mode screens so Tesseract always
// sees dark text on a light background.
func preprocessScreenshot(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	gray.Close()

	whiteCount := gocv.CountNonZero(binary)
	totalPixels := binary.Rows() * binary.Cols()
	whiteRatio := float64(whiteCount) / float64(totalPixels)

	// A mostly-dark frame is a dark-mode screen with light text.
	if whiteRatio < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()

	return result
}

// round4 keeps four decimal places, matching the stored payload precision.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
