package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"draftdesk/internal/csvexport"
	"draftdesk/internal/domain"
	"draftdesk/internal/excel"
	"draftdesk/internal/pdf"
	"draftdesk/internal/port"
	"draftdesk/internal/repair"
)

// ExportResult is a rendered file ready to be sent to the client.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService defines the document export contract.
type ExportService interface {
	Export(ctx context.Context, candidate any, format domain.ExportFormat) (*ExportResult, error)
}

type exportService struct {
	repairer  *repair.Engine
	renderers map[domain.ExportFormat]port.DocumentRenderer
	log       zerolog.Logger
}

// DefaultRenderers returns the PDF, XLSX and CSV renderers.
func DefaultRenderers() map[domain.ExportFormat]port.DocumentRenderer {
	return map[domain.ExportFormat]port.DocumentRenderer{
		domain.ExportFormatPDF:  pdf.NewGenerator(),
		domain.ExportFormatXLSX: excel.NewGenerator(),
		domain.ExportFormatCSV:  port.RendererFunc(csvexport.Render),
	}
}

// NewExportService creates a new ExportService implementation. A nil
// renderers map uses DefaultRenderers.
func NewExportService(repairer *repair.Engine, renderers map[domain.ExportFormat]port.DocumentRenderer, log zerolog.Logger) ExportService {
	if renderers == nil {
		renderers = DefaultRenderers()
	}
	return &exportService{
		repairer:  repairer,
		renderers: renderers,
		log:       log.With().Str("component", "export_service").Logger(),
	}
}

// ParseExportFormat resolves a user supplied format name.
func ParseExportFormat(s string) (domain.ExportFormat, error) {
	f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := domain.ExportContentTypes[f]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, s)
	}
	return f, nil
}

func (s *exportService) Export(_ context.Context, candidate any, format domain.ExportFormat) (*ExportResult, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, format)
	}

	bundle, err := s.repairer.Repair(candidate)
	if err != nil {
		return nil, fmt.Errorf("repairing bundle for export: %w", err)
	}

	content, err := renderer.Generate(bundle)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", format, err)
	}

	s.log.Info().
		Str("doc_id", bundle.Meta.DocID).
		Str("format", string(format)).
		Int("bytes", len(content)).
		Msg("bundle exported")

	return &ExportResult{
		FileName:    csvexport.BuildFilename(exportName(bundle), format),
		ContentType: domain.ExportContentTypes[format],
		Content:     content,
	}, nil
}

// exportName prefers the first draft's document number, then the brief
// title, then the bundle id.
func exportName(b *domain.DocumentBundle) string {
	for _, d := range b.Drafts {
		if n := strings.TrimSpace(d.DocMeta.DocNo); n != "" {
			return n
		}
	}
	if b.ProjectBrief != nil && strings.TrimSpace(b.ProjectBrief.Title) != "" {
		return b.ProjectBrief.Title
	}
	return b.Meta.DocID
}
