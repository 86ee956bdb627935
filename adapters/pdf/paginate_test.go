package exportpdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func capturePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestBuildPDF_PaginatesTallCapture(t *testing.T) {
	// 100x340px maps to 210x714mm at page width; 714mm needs 3 A4 pages.
	pdf, pages, err := BuildPDF(capturePNG(t, 100, 340))
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output is not a pdf document")
	}
}

func TestBuildPDF_ShortCaptureIsOnePage(t *testing.T) {
	_, pages, err := BuildPDF(capturePNG(t, 400, 100))
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if pages != 1 {
		t.Fatalf("expected 1 page, got %d", pages)
	}
}

func TestBuildPDF_RejectsGarbage(t *testing.T) {
	if _, _, err := BuildPDF([]byte("not a png")); err == nil {
		t.Fatal("expected error for non-png input")
	}
}

func TestPageOffsets(t *testing.T) {
	cases := []struct {
		name        string
		imageHeight float64
		pageHeight  float64
		want        []float64
	}{
		{"two exact pages", 340, 170, []float64{0, -170}},
		{"partial last page", 400, 170, []float64{0, -170, -340}},
		{"fits one page", 100, 170, []float64{0}},
		{"exactly one page", 170, 170, []float64{0}},
		{"degenerate image", 0, 170, []float64{0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pageOffsets(tc.imageHeight, tc.pageHeight)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d offsets, got %v", len(tc.want), got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("offset[%d] = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
