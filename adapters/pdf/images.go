package exportpdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
)

// maxInlineImageBytes caps a single fetched image. Anything larger is left as
// a remote reference.
const maxInlineImageBytes = 8 << 20

// ImageFetcher resolves a remote image source into a data URI.
type ImageFetcher interface {
	DataURI(ctx context.Context, src string) (string, error)
}

// HTTPImageFetcher fetches images over HTTP and re-encodes them as PNG data
// URIs. Formats the decoder does not recognize pass through with their
// served content type.
type HTTPImageFetcher struct {
	Client *http.Client
}

func (f *HTTPImageFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (f *HTTPImageFetcher) DataURI(ctx context.Context, src string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, src)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxInlineImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(body) > maxInlineImageBytes {
		return "", fmt.Errorf("image %s exceeds %d bytes", src, maxInlineImageBytes)
	}

	if uri, err := reencodePNG(body); err == nil {
		return uri, nil
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

// reencodePNG normalizes a decodable image to PNG. Round-tripping through the
// decoder strips animation frames and exotic encodings the capture cannot
// handle.
func reencodePNG(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
