package repositories

import (
	"context"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// TemplateRepository manages the per-(employee, market, company) working
// copies. Every mutation is persisted immediately; there is no draft state.
type TemplateRepository interface {
	// FindTemplate retrieves the template for the triple, or nil when none
	// exists yet.
	FindTemplate(ctx context.Context, username, market, company string) (*domain.CompetitorTemplate, error)

	// SaveTemplate overwrites the whole item list for the triple.
	SaveTemplate(ctx context.Context, tpl domain.CompetitorTemplate) error

	// DeleteTemplate removes the triple's template.
	DeleteTemplate(ctx context.Context, username, market, company string) error
}

// ReportReader defines read operations for posted competitor reports.
type ReportReader interface {
	FindReportByID(ctx context.Context, reportID string) (*domain.CompetitorReport, error)

	// ListReports retrieves posted reports across all employees, newest
	// last, optionally narrowed by market and/or company (empty = any).
	ListReports(ctx context.Context, market, company string) ([]domain.CompetitorReport, error)
}

// ReportWriter defines write operations for posted competitor reports.
type ReportWriter interface {
	// SaveReport appends a posted report under a generated key and returns
	// the key.
	SaveReport(ctx context.Context, report domain.CompetitorReport) (string, error)

	// UpdateReportItems overwrites only the item rows of a posted report.
	UpdateReportItems(ctx context.Context, reportID string, items []domain.PriceItem) error

	DeleteReport(ctx context.Context, reportID string) error
}

// ReportSubscriber delivers live snapshots of the report collection.
type ReportSubscriber interface {
	SubscribeReports(ctx context.Context, onChange func([]domain.CompetitorReport)) (store.Unsubscribe, error)
}

// CompetitorRepositoryFacade combines both tiers of the price tracker.
type CompetitorRepositoryFacade interface {
	TemplateRepository
	ReportReader
	ReportWriter
	ReportSubscriber
}
