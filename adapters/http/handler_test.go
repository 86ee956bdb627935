package portfoliohttp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-portfolio/portfolio"
)

type stubService struct {
	res portfolio.Result
	err error
}

func (s *stubService) Aggregate(context.Context, string) (portfolio.Result, error) {
	return s.res, s.err
}

type stubRenderer struct{}

func (stubRenderer) Document(portfolio.Result) ([]byte, error) {
	return []byte("<html>doc</html>"), nil
}

func (stubRenderer) IndexPage(errMsg string) ([]byte, error) {
	return []byte("<html>index:" + errMsg + "</html>"), nil
}

func (stubRenderer) PreviewPage(res portfolio.Result) ([]byte, error) {
	return []byte("<html>preview:" + res.Profile.Login + "</html>"), nil
}

type stubExporter struct {
	pdf []byte
	err error
}

func (s *stubExporter) Export(context.Context, []byte) ([]byte, error) {
	return s.pdf, s.err
}

func newApp(service Aggregator, exporter PDFExporter) *fiber.App {
	app := fiber.New()
	NewHandler(Config{
		Service:  service,
		Renderer: stubRenderer{},
		Exporter: exporter,
	}).RegisterRoutes(app)
	return app
}

func aliceResult() portfolio.Result {
	return portfolio.Result{Profile: portfolio.UserProfile{Login: "alice"}}
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestIndex(t *testing.T) {
	app := newApp(&stubService{}, &stubExporter{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := body(t, resp); got != "<html>index:</html>" {
		t.Fatalf("body %q", got)
	}
}

func TestPreview_Success(t *testing.T) {
	app := newApp(&stubService{res: aliceResult()}, &stubExporter{})

	resp := postForm(t, app, "/portfolio", url.Values{"handle": {"alice"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := body(t, resp); got != "<html>preview:alice</html>" {
		t.Fatalf("body %q", got)
	}
}

func TestPreview_UserNotFound(t *testing.T) {
	app := newApp(&stubService{
		err: portfolio.NewError(portfolio.KindNotFound, "no such user", nil),
	}, &stubExporter{})

	resp := postForm(t, app, "/portfolio", url.Values{"handle": {"ghost"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := body(t, resp); !strings.Contains(got, "User not found") {
		t.Fatalf("expected user-facing message on the index page, got %q", got)
	}
}

func TestPreview_FetchFailure(t *testing.T) {
	app := newApp(&stubService{
		err: portfolio.NewError(portfolio.KindFetch, "upstream exploded", nil),
	}, &stubExporter{})

	resp := postForm(t, app, "/portfolio", url.Values{"handle": {"alice"}})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := body(t, resp); !strings.Contains(got, "Failed to fetch GitHub data") {
		t.Fatalf("body %q", got)
	}
}

func TestPreview_EmptyHandle(t *testing.T) {
	app := newApp(&stubService{
		err: portfolio.NewError(portfolio.KindValidation, "empty handle", nil),
	}, &stubExporter{})

	resp := postForm(t, app, "/portfolio", url.Values{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestDownload_Success(t *testing.T) {
	app := newApp(&stubService{res: aliceResult()}, &stubExporter{pdf: []byte("%PDF-1.7 fake")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/portfolio/alice/pdf", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/pdf" {
		t.Errorf("content type %q", got)
	}
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename=alice-portfolio.pdf` {
		t.Errorf("content disposition %q", got)
	}
	if got := body(t, resp); !strings.HasPrefix(got, "%PDF") {
		t.Errorf("body %q", got)
	}
}

func TestDownload_ExportFailure(t *testing.T) {
	app := newApp(&stubService{res: aliceResult()}, &stubExporter{
		err: portfolio.NewError(portfolio.KindExport, "capture failed", nil),
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/portfolio/alice/pdf", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := body(t, resp); got != "Failed to generate PDF" {
		t.Fatalf("body %q", got)
	}
}

func TestDownload_NilPDFIsExportFailure(t *testing.T) {
	app := newApp(&stubService{res: aliceResult()}, &stubExporter{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/portfolio/alice/pdf", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestMapError(t *testing.T) {
	cases := []struct {
		kind    portfolio.ErrorKind
		status  int
		message string
	}{
		{portfolio.KindValidation, http.StatusBadRequest, "Enter a GitHub username or profile URL"},
		{portfolio.KindNotFound, http.StatusNotFound, "User not found"},
		{portfolio.KindExport, http.StatusInternalServerError, "Failed to generate PDF"},
		{portfolio.KindTimeout, http.StatusGatewayTimeout, "Request timed out"},
		{portfolio.KindFetch, http.StatusBadGateway, "Failed to fetch GitHub data"},
		{portfolio.KindInternal, http.StatusBadGateway, "Failed to fetch GitHub data"},
	}
	for _, tc := range cases {
		status, message := mapError(portfolio.NewError(tc.kind, "x", nil))
		if status != tc.status || message != tc.message {
			t.Errorf("%s: got (%d, %q), want (%d, %q)", tc.kind, status, message, tc.status, tc.message)
		}
	}
}
