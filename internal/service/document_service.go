package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"draftdesk/internal/domain"
	"draftdesk/internal/repair"
	"draftdesk/internal/schema"
	"draftdesk/internal/validator"
)

// ValidationResult is the outcome of checking a candidate bundle.
type ValidationResult struct {
	OK     bool                       `json:"ok"`
	Errors []domain.ValidationFinding `json:"errors"`
}

// DocumentService defines the document normalization contract.
type DocumentService interface {
	Validate(ctx context.Context, candidate any) (*ValidationResult, error)
	Repair(ctx context.Context, candidate any) (*domain.DocumentBundle, error)
	RepairText(ctx context.Context, text string) (*domain.DocumentBundle, error)
	ComputeTotals(ctx context.Context, draft any) (*domain.DocDraft, error)
	Schema(ctx context.Context) (json.RawMessage, error)
}

type documentService struct {
	repairer  *repair.Engine
	validator *validator.Engine
	log       zerolog.Logger
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(repairer *repair.Engine, v *validator.Engine, log zerolog.Logger) DocumentService {
	if v == nil {
		v = validator.NewEngine(validator.NewDefaultRegistry())
	}
	return &documentService{
		repairer:  repairer,
		validator: v,
		log:       log.With().Str("component", "document_service").Logger(),
	}
}

func (s *documentService) Validate(_ context.Context, candidate any) (*ValidationResult, error) {
	findings := s.validator.Validate(candidate)
	if findings == nil {
		findings = []domain.ValidationFinding{}
	}
	s.log.Debug().Int("findings", len(findings)).Msg("bundle validated")
	return &ValidationResult{OK: len(findings) == 0, Errors: findings}, nil
}

func (s *documentService) Repair(_ context.Context, candidate any) (*domain.DocumentBundle, error) {
	bundle, err := s.repairer.Repair(candidate)
	if err != nil {
		return nil, fmt.Errorf("repairing bundle: %w", err)
	}
	s.log.Info().
		Str("doc_id", bundle.Meta.DocID).
		Str("doc_type", string(bundle.DocType)).
		Int("drafts", len(bundle.Drafts)).
		Msg("bundle repaired")
	return bundle, nil
}

func (s *documentService) RepairText(_ context.Context, text string) (*domain.DocumentBundle, error) {
	bundle, err := s.repairer.RepairText(text)
	if err != nil {
		return nil, fmt.Errorf("repairing bundle from text: %w", err)
	}
	s.log.Info().
		Str("doc_id", bundle.Meta.DocID).
		Str("doc_type", string(bundle.DocType)).
		Int("text_len", len(text)).
		Msg("bundle repaired from text")
	return bundle, nil
}

// ComputeTotals repairs draft, including a null one, and recomputes its totals.
func (s *documentService) ComputeTotals(_ context.Context, draft any) (*domain.DocDraft, error) {
	return s.repairer.RepairDraft(draft), nil
}

func (s *documentService) Schema(_ context.Context) (json.RawMessage, error) {
	b, err := schema.JSON()
	if err != nil {
		return nil, fmt.Errorf("generating schema: %w", err)
	}
	return b, nil
}
