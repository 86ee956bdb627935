package exportpdf

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/go-pdf/fpdf"
)

// BuildPDF lays a full-page screenshot across as many portrait A4 pages as
// its height requires. Each page draws the same image shifted up by one page
// height, producing a sliding crop. Returns the document and its page count.
func BuildPDF(shot []byte) ([]byte, int, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(shot))
	if err != nil {
		return nil, 0, fmt.Errorf("decode capture: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, 0, fmt.Errorf("capture has degenerate size %dx%d", cfg.Width, cfg.Height)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	pageWidth, pageHeight := doc.GetPageSize()

	drawWidth := pageWidth
	drawHeight := drawWidth * float64(cfg.Height) / float64(cfg.Width)

	opts := fpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}
	doc.RegisterImageOptionsReader("capture", opts, bytes.NewReader(shot))

	for _, offset := range pageOffsets(drawHeight, pageHeight) {
		doc.AddPage()
		doc.ImageOptions("capture", 0, offset, drawWidth, drawHeight, false, opts, 0, "")
	}
	if doc.Err() {
		return nil, 0, doc.Error()
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), doc.PageCount(), nil
}

// pageOffsets returns the vertical draw offset for each page of an image of
// the given height. Offsets step by one page height so consecutive pages show
// consecutive slices.
func pageOffsets(imageHeight, pageHeight float64) []float64 {
	if imageHeight <= 0 || pageHeight <= 0 {
		return []float64{0}
	}
	pages := int(math.Ceil(imageHeight / pageHeight))
	if pages < 1 {
		pages = 1
	}
	offsets := make([]float64, pages)
	for i := range offsets {
		offsets[i] = -float64(i) * pageHeight
	}
	return offsets
}
