// Package portfoliohttp exposes the portfolio flow over HTTP: a search page,
// an HTML preview, and the PDF download.
package portfoliohttp

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goliatone/go-portfolio/portfolio"
)

// Aggregator fetches and assembles a user's portfolio data.
type Aggregator interface {
	Aggregate(ctx context.Context, input string) (portfolio.Result, error)
}

// DocumentRenderer produces the HTML surfaces.
type DocumentRenderer interface {
	Document(res portfolio.Result) ([]byte, error)
	IndexPage(errMsg string) ([]byte, error)
	PreviewPage(res portfolio.Result) ([]byte, error)
}

// PDFExporter turns a rendered document into PDF bytes.
type PDFExporter interface {
	Export(ctx context.Context, document []byte) ([]byte, error)
}

// Config configures the HTTP handler.
type Config struct {
	Service  Aggregator
	Renderer DocumentRenderer
	Exporter PDFExporter
	Logger   portfolio.Logger
}

// Handler serves the portfolio routes.
type Handler struct {
	service  Aggregator
	renderer DocumentRenderer
	exporter PDFExporter
	logger   portfolio.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = portfolio.NoopLogger{}
	}
	return &Handler{
		service:  cfg.Service,
		renderer: cfg.Renderer,
		exporter: cfg.Exporter,
		logger:   logger,
	}
}

// RegisterRoutes registers handlers on the fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.Index)
	app.Post("/portfolio", h.Preview)
	app.Get("/portfolio/:handle/pdf", h.Download)
}

// Index serves the search page.
func (h *Handler) Index(c *fiber.Ctx) error {
	page, err := h.renderer.IndexPage("")
	if err != nil {
		return h.fail(c, err)
	}
	return h.sendHTML(c, fiber.StatusOK, page)
}

// Preview aggregates the requested profile and serves the HTML preview.
func (h *Handler) Preview(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	input := c.FormValue("handle")

	res, err := h.service.Aggregate(c.UserContext(), input)
	if err != nil {
		return h.failOnIndex(c, requestID, input, err)
	}

	page, err := h.renderer.PreviewPage(res)
	if err != nil {
		return h.fail(c, err)
	}
	h.logger.Infof("request %s: preview for %s", requestID, res.Profile.Login)
	return h.sendHTML(c, fiber.StatusOK, page)
}

// Download aggregates, renders, and exports the PDF for a handle.
func (h *Handler) Download(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	handle := c.Params("handle")

	res, err := h.service.Aggregate(c.UserContext(), handle)
	if err != nil {
		return h.failWith(c, requestID, err)
	}

	document, err := h.renderer.Document(res)
	if err != nil {
		return h.fail(c, err)
	}

	pdf, err := h.exporter.Export(c.UserContext(), document)
	if err != nil {
		return h.failWith(c, requestID, err)
	}
	if pdf == nil {
		return h.failWith(c, requestID,
			portfolio.NewError(portfolio.KindExport, "document produced no capture", nil))
	}

	h.logger.Infof("request %s: pdf for %s, %d bytes", requestID, res.Profile.Login, len(pdf))
	filename := res.Profile.Login + "-portfolio.pdf"
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=`+filename)
	return c.Status(fiber.StatusOK).Send(pdf)
}

func (h *Handler) sendHTML(c *fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(body)
}

// failOnIndex re-renders the search page with the user-facing message.
func (h *Handler) failOnIndex(c *fiber.Ctx, requestID, input string, err error) error {
	status, message := mapError(err)
	h.logError(requestID, input, err)

	page, renderErr := h.renderer.IndexPage(message)
	if renderErr != nil {
		return h.fail(c, renderErr)
	}
	return h.sendHTML(c, status, page)
}

// failWith writes a plain-text error for non-page endpoints.
func (h *Handler) failWith(c *fiber.Ctx, requestID string, err error) error {
	status, message := mapError(err)
	h.logError(requestID, c.Path(), err)
	return c.Status(status).SendString(message)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	h.logError("", c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).SendString("Internal error")
}

func (h *Handler) logError(requestID, subject string, err error) {
	ge := portfolio.AsGoError(err)
	h.logger.Errorf("request %s: %s: category=%s code=%s: %v",
		requestID, subject, ge.Category, ge.TextCode, err)
}

// mapError maps an aggregation or export failure to a response status and a
// user-facing message.
func mapError(err error) (int, string) {
	switch portfolio.KindFromError(err) {
	case portfolio.KindValidation:
		return fiber.StatusBadRequest, "Enter a GitHub username or profile URL"
	case portfolio.KindNotFound:
		return fiber.StatusNotFound, "User not found"
	case portfolio.KindExport:
		return fiber.StatusInternalServerError, "Failed to generate PDF"
	case portfolio.KindTimeout:
		return fiber.StatusGatewayTimeout, "Request timed out"
	default:
		return fiber.StatusBadGateway, "Failed to fetch GitHub data"
	}
}
