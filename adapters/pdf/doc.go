// Package exportpdf turns a rendered portfolio document into a paginated A4
// PDF. The pipeline stages the capture container into a standalone document,
// inlines remote images and flattens inline SVG so the capture is
// self-contained, screenshots the page in a headless Chromium tab, and slices
// the screenshot across PDF pages.
package exportpdf
