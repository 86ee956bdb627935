package exportpdf

import (
	"bytes"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// minIconSize bounds rasterized icons; sizes below it blur once the capture
// is scaled, and it doubles as the fallback when an SVG declares no size.
const minIconSize = 24

// RasterizeSVG renders SVG markup to a PNG of the given pixel size.
func RasterizeSVG(markup string, width, height int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// svgSize reads the pixel size from an SVG element's width/height attributes.
// The HTML parser lowercases attribute names, so the viewBox fallback reads
// "viewbox". Unsized SVGs get minIconSize.
func svgSize(sel *goquery.Selection) (int, int) {
	width := dimension(sel.AttrOr("width", ""))
	height := dimension(sel.AttrOr("height", ""))
	if width > 0 && height > 0 {
		return clampIcon(width), clampIcon(height)
	}

	if viewBox := sel.AttrOr("viewbox", ""); viewBox != "" {
		parts := strings.Fields(viewBox)
		if len(parts) == 4 {
			w := dimension(parts[2])
			h := dimension(parts[3])
			if w > 0 && h > 0 {
				return clampIcon(w), clampIcon(h)
			}
		}
	}
	return minIconSize, minIconSize
}

func dimension(raw string) int {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "px")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return 0
	}
	return int(value + 0.5)
}

func clampIcon(size int) int {
	if size < minIconSize {
		return minIconSize
	}
	return size
}
