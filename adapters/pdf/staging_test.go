package exportpdf

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

type stubFetcher struct {
	uris map[string]string
	errs map[string]error
}

func (f *stubFetcher) DataURI(_ context.Context, src string) (string, error) {
	if err, ok := f.errs[src]; ok {
		return "", err
	}
	if uri, ok := f.uris[src]; ok {
		return uri, nil
	}
	return "", errors.New("unexpected fetch: " + src)
}

const stagingFixture = `<!DOCTYPE html>
<html><head><title>t</title></head><body>
<div id="capture-zone">
  <img class="avatar" src="https://example.com/a.png" />
  <img src="data:image/png;base64,AAAA" />
  <svg class="icon" width="14" height="14" viewBox="0 0 16 16" fill="#59636e" xmlns="http://www.w3.org/2000/svg"><path d="M8 0L16 16H0Z"/></svg>
</div>
</body></html>`

func newStager(fetcher ImageFetcher) *Stager {
	return &Stager{ContainerID: "capture-zone", Images: fetcher}
}

func TestBuild_InlinesRemoteImages(t *testing.T) {
	stager := newStager(&stubFetcher{uris: map[string]string{
		"https://example.com/a.png": "data:image/png;base64,QUJD",
	}})

	staged, results, ok, err := stager.Build(context.Background(), []byte(stagingFixture))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !ok {
		t.Fatal("expected staging to proceed")
	}
	if len(results) != 1 || !results[0].Inlined {
		t.Fatalf("expected one inlined image, got %+v", results)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(staged))
	if err != nil {
		t.Fatalf("parse staged: %v", err)
	}
	if got := doc.Find("img.avatar").AttrOr("src", ""); got != "data:image/png;base64,QUJD" {
		t.Fatalf("avatar src not inlined: %q", got)
	}
}

func TestBuild_FailedInlineKeepsOriginalSource(t *testing.T) {
	stager := newStager(&stubFetcher{errs: map[string]error{
		"https://example.com/a.png": errors.New("boom"),
	}})

	staged, results, ok, err := stager.Build(context.Background(), []byte(stagingFixture))
	if err != nil || !ok {
		t.Fatalf("build: ok=%v err=%v", ok, err)
	}
	if len(results) != 1 || results[0].Inlined || results[0].Err == nil {
		t.Fatalf("expected one failed inline, got %+v", results)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(staged))
	if err != nil {
		t.Fatalf("parse staged: %v", err)
	}
	if got := doc.Find("img.avatar").AttrOr("src", ""); got != "https://example.com/a.png" {
		t.Fatalf("failed inline must keep remote src, got %q", got)
	}
}

func TestBuild_FlattensInlineSVG(t *testing.T) {
	stager := newStager(&stubFetcher{uris: map[string]string{
		"https://example.com/a.png": "data:image/png;base64,QUJD",
	}})

	staged, _, ok, err := stager.Build(context.Background(), []byte(stagingFixture))
	if err != nil || !ok {
		t.Fatalf("build: ok=%v err=%v", ok, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(staged))
	if err != nil {
		t.Fatalf("parse staged: %v", err)
	}
	if doc.Find("svg").Length() != 0 {
		t.Fatal("inline svg must be flattened")
	}
	replacement := doc.Find("img.icon")
	if replacement.Length() != 1 {
		t.Fatal("svg replacement must keep its class")
	}
	if !strings.HasPrefix(replacement.AttrOr("src", ""), "data:image/png;base64,") {
		t.Fatalf("replacement src %q", replacement.AttrOr("src", ""))
	}
	if replacement.AttrOr("width", "") != "24" || replacement.AttrOr("height", "") != "24" {
		t.Fatalf("small icons scale up to the minimum size, got %sx%s",
			replacement.AttrOr("width", ""), replacement.AttrOr("height", ""))
	}
}

func TestBuild_MissingContainerIsNoop(t *testing.T) {
	stager := newStager(&stubFetcher{})

	staged, results, ok, err := stager.Build(context.Background(), []byte("<html><body><p>empty</p></body></html>"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ok || staged != nil || results != nil {
		t.Fatalf("expected no-op, got ok=%v staged=%d results=%v", ok, len(staged), results)
	}
}

func TestRasterizeSVG(t *testing.T) {
	png, err := RasterizeSVG(`<svg width="24" height="24" viewBox="0 0 16 16" xmlns="http://www.w3.org/2000/svg"><path d="M8 0L16 16H0Z" fill="#000"/></svg>`, 24, 24)
	if err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	if len(png) == 0 || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("expected png output")
	}
}

func TestSVGSizeFallbacks(t *testing.T) {
	parse := func(markup string) *goquery.Selection {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		return doc.Find("svg")
	}

	if w, h := svgSize(parse(`<svg width="32" height="48"></svg>`)); w != 32 || h != 48 {
		t.Errorf("attribute size = %dx%d", w, h)
	}
	if w, h := svgSize(parse(`<svg viewBox="0 0 100 50"></svg>`)); w != 100 || h != 50 {
		t.Errorf("viewbox size = %dx%d", w, h)
	}
	if w, h := svgSize(parse(`<svg></svg>`)); w != minIconSize || h != minIconSize {
		t.Errorf("default size = %dx%d", w, h)
	}
	if w, h := svgSize(parse(`<svg width="14" height="14"></svg>`)); w != minIconSize || h != minIconSize {
		t.Errorf("tiny icons must clamp up, got %dx%d", w, h)
	}
}
