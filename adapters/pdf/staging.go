package exportpdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-portfolio/portfolio"
)

// InlineResult records the outcome of inlining one remote image. Failed
// inlines keep their original source so the capture can still try to load
// them from the network.
type InlineResult struct {
	Source  string
	Inlined bool
	Err     error
}

// Stager prepares a rendered document for capture: every remote image inside
// the capture container becomes a data URI and every inline SVG is replaced
// with a pre-rasterized bitmap, so the screenshot does not depend on the
// browser fetching anything.
type Stager struct {
	ContainerID string
	Images      ImageFetcher
	Logger      portfolio.Logger
}

func (s *Stager) logger() portfolio.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return portfolio.NoopLogger{}
}

// Build returns the staged document. ok is false when the document has no
// capture container; staging is then a no-op.
func (s *Stager) Build(ctx context.Context, document []byte) ([]byte, []InlineResult, bool, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(document))
	if err != nil {
		return nil, nil, false, fmt.Errorf("parse document: %w", err)
	}

	container := doc.Find("#" + s.ContainerID)
	if container.Length() == 0 {
		return nil, nil, false, nil
	}

	results := s.inlineImages(ctx, container)
	s.flattenSVGs(container)

	staged, err := doc.Html()
	if err != nil {
		return nil, nil, false, fmt.Errorf("serialize staged document: %w", err)
	}
	return []byte(staged), results, true, nil
}

func (s *Stager) inlineImages(ctx context.Context, container *goquery.Selection) []InlineResult {
	var results []InlineResult
	container.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := sel.AttrOr("src", "")
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}

		uri, err := s.Images.DataURI(ctx, src)
		if err != nil {
			s.logger().Debugf("image inline failed, keeping remote src %s: %v", src, err)
			results = append(results, InlineResult{Source: src, Err: err})
			return
		}
		sel.SetAttr("src", uri)
		sel.SetAttr("crossorigin", "anonymous")
		results = append(results, InlineResult{Source: src, Inlined: true})
	})
	return results
}

// flattenSVGs swaps inline SVG elements for rasterized <img> replacements.
// An SVG that cannot be rasterized stays in place.
func (s *Stager) flattenSVGs(container *goquery.Selection) {
	container.Find("svg").Each(func(_ int, sel *goquery.Selection) {
		markup, err := goquery.OuterHtml(sel)
		if err != nil {
			return
		}
		width, height := svgSize(sel)

		png, err := RasterizeSVG(markup, width, height)
		if err != nil {
			s.logger().Debugf("svg rasterization failed, leaving element inline: %v", err)
			return
		}

		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		replacement := fmt.Sprintf(`<img src="%s" width="%d" height="%d"`, uri, width, height)
		if class := sel.AttrOr("class", ""); class != "" {
			replacement += fmt.Sprintf(` class="%s"`, class)
		}
		replacement += ` alt="" />`
		sel.ReplaceWithHtml(replacement)
	})
}
