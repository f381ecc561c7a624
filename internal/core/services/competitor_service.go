package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/dto"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
)

// CompetitorService implements both tiers of the price tracker: the
// always-persisted working templates and the posted report snapshots.
type CompetitorService struct {
	repo portsrepo.CompetitorRepositoryFacade
	now  domain.Clock
}

var _ portssvc.CompetitorSvcFacade = (*CompetitorService)(nil)

// NewCompetitorService creates a competitor price tracker service. A nil
// clock defaults to time.Now.
func NewCompetitorService(repo portsrepo.CompetitorRepositoryFacade, now domain.Clock) *CompetitorService {
	if now == nil {
		now = time.Now
	}
	return &CompetitorService{repo: repo, now: now}
}

// GetTemplate returns the viewer's working copy for the pair, or an empty
// template when none exists yet. Switching market or company on a terminal
// is just a GetTemplate for the new pair.
func (s *CompetitorService) GetTemplate(ctx context.Context, viewer domain.Viewer, market, company string) (*domain.CompetitorTemplate, error) {
	if market == "" || company == "" {
		return nil, fmt.Errorf("%w: market and company are required", apperrors.ErrValidation)
	}
	tpl, err := s.repo.FindTemplate(ctx, viewer.Username, market, company)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return &domain.CompetitorTemplate{
			Username: viewer.Username,
			Market:   market,
			Company:  company,
			Items:    []domain.PriceItem{},
		}, nil
	}
	return tpl, nil
}

func (s *CompetitorService) PutTemplateItems(ctx context.Context, viewer domain.Viewer, req dto.PutTemplateRequest) (*domain.CompetitorTemplate, error) {
	// an empty pair would address the user's template root, not a template
	if req.Market == "" || req.Company == "" {
		return nil, fmt.Errorf("%w: market and company are required", apperrors.ErrValidation)
	}
	tpl := domain.CompetitorTemplate{
		Username: viewer.Username,
		Market:   req.Market,
		Company:  req.Company,
		Items:    dto.ToPriceItems(req.Items),
	}
	if err := s.repo.SaveTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *CompetitorService) UpsertTemplateItem(ctx context.Context, viewer domain.Viewer, req dto.UpsertTemplateItemRequest) (*domain.CompetitorTemplate, error) {
	tpl, err := s.GetTemplate(ctx, viewer, req.Market, req.Company)
	if err != nil {
		return nil, err
	}
	item := domain.PriceItem{
		Category: domain.Category(req.Item.Category),
		Name:     req.Item.Name,
		Price:    req.Item.Price,
	}
	if req.Index == nil || *req.Index >= len(tpl.Items) {
		tpl.Items = append(tpl.Items, item)
	} else {
		tpl.Items[*req.Index] = item
	}
	if err := s.repo.SaveTemplate(ctx, *tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *CompetitorService) DeleteTemplateItem(ctx context.Context, viewer domain.Viewer, req dto.DeleteTemplateItemRequest) (*domain.CompetitorTemplate, error) {
	tpl, err := s.GetTemplate(ctx, viewer, req.Market, req.Company)
	if err != nil {
		return nil, err
	}
	if req.Index >= len(tpl.Items) {
		return nil, fmt.Errorf("%w: no template row at index %d", apperrors.ErrValidation, req.Index)
	}
	tpl.Items = append(tpl.Items[:req.Index], tpl.Items[req.Index+1:]...)
	if err := s.repo.SaveTemplate(ctx, *tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// PostReport snapshots the viewer's template as an immutable dated report,
// keeping only rows with a name and a positive price.
func (s *CompetitorService) PostReport(ctx context.Context, viewer domain.Viewer, req dto.PostReportRequest) (*domain.CompetitorReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tpl, err := s.GetTemplate(ctx, viewer, req.Market, req.Company)
	if err != nil {
		return nil, err
	}
	items := tpl.ReportableItems()
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: template has no priced items to report", apperrors.ErrValidation)
	}

	now := s.now()
	report := domain.CompetitorReport{
		Market:       req.Market,
		Company:      req.Company,
		EmployeeName: viewer.Name,
		RecordedBy:   viewer.Username,
		Date:         domain.DateOf(now),
		Timestamp:    domain.StampOf(now),
		Items:        items,
	}
	key, err := s.repo.SaveReport(ctx, report)
	if err != nil {
		logger.Error("Failed to post report", slog.String("error", err.Error()), slog.String("market", req.Market), slog.String("company", req.Company))
		return nil, err
	}
	report.ID = key

	logger.Info("Report posted", slog.String("report_id", key), slog.String("market", req.Market), slog.String("company", req.Company), slog.Int("items", len(items)))
	return &report, nil
}

// ListReports is not visibility-restricted: price surveys are shared
// knowledge across the whole team.
func (s *CompetitorService) ListReports(ctx context.Context, market, company string) ([]domain.CompetitorReport, error) {
	return s.repo.ListReports(ctx, market, company)
}

// UpdateReportPrices edits row prices on a posted report. Categories and
// names are fixed after posting.
func (s *CompetitorService) UpdateReportPrices(ctx context.Context, viewer domain.Viewer, reportID string, req dto.UpdateReportPricesRequest) (*domain.CompetitorReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	report, err := s.repo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(viewer, report.RecordedBy) {
		logger.Warn("Report edit denied", slog.String("report_id", reportID), slog.String("username", viewer.Username))
		return nil, fmt.Errorf("%w: only an admin or the recording employee may edit a report", apperrors.ErrForbidden)
	}

	items := make([]domain.PriceItem, len(report.Items))
	copy(items, report.Items)
	for _, upd := range req.Prices {
		if upd.Index >= len(items) {
			return nil, fmt.Errorf("%w: no report row at index %d", apperrors.ErrValidation, upd.Index)
		}
		if !upd.Price.IsPositive() {
			return nil, fmt.Errorf("%w: report prices must be positive", apperrors.ErrValidation)
		}
		items[upd.Index].Price = upd.Price
	}

	if err := s.repo.UpdateReportItems(ctx, reportID, items); err != nil {
		logger.Error("Failed to update report", slog.String("error", err.Error()), slog.String("report_id", reportID))
		return nil, err
	}
	report.Items = items
	logger.Info("Report updated", slog.String("report_id", reportID))
	return report, nil
}

func (s *CompetitorService) DeleteReport(ctx context.Context, viewer domain.Viewer, reportID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	report, err := s.repo.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if !CanMutate(viewer, report.RecordedBy) {
		logger.Warn("Report delete denied", slog.String("report_id", reportID), slog.String("username", viewer.Username))
		return fmt.Errorf("%w: only an admin or the recording employee may delete a report", apperrors.ErrForbidden)
	}
	if err := s.repo.DeleteReport(ctx, reportID); err != nil {
		return err
	}
	logger.Info("Report deleted", slog.String("report_id", reportID))
	return nil
}

func (s *CompetitorService) ExportRows(ctx context.Context, market, company string) ([][]string, error) {
	reports, err := s.ListReports(ctx, market, company)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"Date", "Market", "Company", "Employee", "Category", "Product", "Price"}}
	for _, r := range reports {
		for _, it := range r.Items {
			rows = append(rows, []string{
				r.Date,
				r.Market,
				r.Company,
				r.EmployeeName,
				string(it.Category),
				it.Name,
				it.Price.String(),
			})
		}
	}
	return rows, nil
}

func (s *CompetitorService) SubscribeReports(ctx context.Context, onChange func([]domain.CompetitorReport)) (store.Unsubscribe, error) {
	return s.repo.SubscribeReports(ctx, onChange)
}
