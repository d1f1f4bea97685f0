package port

import "draftdesk/internal/domain"

// DocumentRenderer turns a repaired bundle into file bytes.
type DocumentRenderer interface {
	Generate(b *domain.DocumentBundle) ([]byte, error)
}

// RendererFunc adapts a plain function to DocumentRenderer.
type RendererFunc func(b *domain.DocumentBundle) ([]byte, error)

// Generate calls f(b).
func (f RendererFunc) Generate(b *domain.DocumentBundle) ([]byte, error) { return f(b) }
