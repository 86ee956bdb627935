package exportpdf

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-portfolio/portfolio"
)

// CaptureEngine screenshots a staged document.
type CaptureEngine interface {
	Capture(ctx context.Context, document []byte) ([]byte, error)
}

// Exporter runs the full export pipeline: stage, capture, paginate.
type Exporter struct {
	Engine CaptureEngine
	Stager *Stager
	Logger portfolio.Logger
}

func (e *Exporter) logger() portfolio.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return portfolio.NoopLogger{}
}

// Export produces the paginated PDF for a rendered document. A document
// without a capture container is a silent no-op and returns nil bytes.
func (e *Exporter) Export(ctx context.Context, document []byte) ([]byte, error) {
	exportID := uuid.NewString()
	log := e.logger()

	staged, inlines, ok, err := e.Stager.Build(ctx, document)
	if err != nil {
		return nil, portfolio.NewError(portfolio.KindExport, "stage document for capture", err)
	}
	if !ok {
		log.Debugf("export %s: no capture container, skipping", exportID)
		return nil, nil
	}

	inlined, failed := 0, 0
	for _, res := range inlines {
		if res.Inlined {
			inlined++
		} else {
			failed++
		}
	}
	log.Debugf("export %s: staged document, %d images inlined, %d left remote", exportID, inlined, failed)

	shot, err := e.Engine.Capture(ctx, staged)
	if err != nil {
		if kind := portfolio.KindFromError(err); kind == portfolio.KindTimeout || kind == portfolio.KindCanceled {
			return nil, err
		}
		return nil, portfolio.NewError(portfolio.KindExport, "capture document", err)
	}

	pdf, pages, err := BuildPDF(shot)
	if err != nil {
		return nil, portfolio.NewError(portfolio.KindExport, "paginate capture", err)
	}

	log.Infof("export %s: %d pages, %d bytes", exportID, pages, len(pdf))
	return pdf, nil
}
