package ocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// WordCounter counts words Tesseract recognizes in an image.
type WordCounter struct {
	// Language is the Tesseract language code, e.g. "eng".
	Language string

	// MinConfidence drops words recognized with lower confidence (0.0 to 1.0).
	MinConfidence float64
}

// NewWordCounter returns a counter for the given language that ignores words
// recognized with less than 50% confidence.
func NewWordCounter(language string) *WordCounter {
	if language == "" {
		language = "eng"
	}
	return &WordCounter{Language: language, MinConfidence: 0.5}
}

// CountWords returns the number of words in img.
//
// The image is passed to Tesseract as an in-memory PNG. Words are taken from
// the RIL_WORD iterator level; empty words and words below MinConfidence are
// not counted.
func (w *WordCounter) CountWords(img image.Image) (int, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return 0, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(w.Language); err != nil {
		return 0, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return 0, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return 0, fmt.Errorf("OCR failed: %w", err)
	}

	count := 0
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		if box.Confidence/100.0 < w.MinConfidence {
			continue
		}
		count++
	}
	return count, nil
}
