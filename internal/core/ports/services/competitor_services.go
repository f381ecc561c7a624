package services

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/dto"
)

// TemplateSvc manages the viewer's persistent working copies. Templates are
// always scoped to the viewer's own username; one employee can never touch
// another's template.
type TemplateSvc interface {
	// GetTemplate returns the viewer's template for the (market, company)
	// pair, or an empty template when none exists yet.
	GetTemplate(ctx context.Context, viewer domain.Viewer, market, company string) (*domain.CompetitorTemplate, error)

	// PutTemplateItems overwrites the whole row list and persists it.
	PutTemplateItems(ctx context.Context, viewer domain.Viewer, req dto.PutTemplateRequest) (*domain.CompetitorTemplate, error)

	// UpsertTemplateItem adds or replaces one row by position.
	UpsertTemplateItem(ctx context.Context, viewer domain.Viewer, req dto.UpsertTemplateItemRequest) (*domain.CompetitorTemplate, error)

	// DeleteTemplateItem removes one row by position.
	DeleteTemplateItem(ctx context.Context, viewer domain.Viewer, req dto.DeleteTemplateItemRequest) (*domain.CompetitorTemplate, error)
}

// ReportSvc manages posted report snapshots.
type ReportSvc interface {
	// PostReport snapshots the viewer's template for the pair, keeping only
	// rows with a name and a positive price.
	PostReport(ctx context.Context, viewer domain.Viewer, req dto.PostReportRequest) (*domain.CompetitorReport, error)

	// ListReports retrieves posted reports across all employees, optionally
	// narrowed by market and/or company.
	ListReports(ctx context.Context, market, company string) ([]domain.CompetitorReport, error)

	// UpdateReportPrices edits row prices on a posted report. Names and
	// categories are fixed after posting. Admin or author only.
	UpdateReportPrices(ctx context.Context, viewer domain.Viewer, reportID string, req dto.UpdateReportPricesRequest) (*domain.CompetitorReport, error)

	// DeleteReport removes a posted report. Admin or author only.
	DeleteReport(ctx context.Context, viewer domain.Viewer, reportID string) error

	ExportRows(ctx context.Context, market, company string) ([][]string, error)
}

// ReportStreamerSvc pushes live report collection snapshots.
type ReportStreamerSvc interface {
	SubscribeReports(ctx context.Context, onChange func([]domain.CompetitorReport)) (store.Unsubscribe, error)
}

// CompetitorSvcFacade combines both tiers of the price tracker.
type CompetitorSvcFacade interface {
	TemplateSvc
	ReportSvc
	ReportStreamerSvc
}
