package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/dto"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
)

// SalesService implements the sales ledger over the sales repository.
type SalesService struct {
	repo portsrepo.SalesRepositoryFacade
	now  domain.Clock
}

var _ portssvc.SalesSvcFacade = (*SalesService)(nil)

// NewSalesService creates a sales ledger service. A nil clock defaults to
// time.Now.
func NewSalesService(repo portsrepo.SalesRepositoryFacade, now domain.Clock) *SalesService {
	if now == nil {
		now = time.Now
	}
	return &SalesService{repo: repo, now: now}
}

// BuildBlankSession produces one zeroed row per fixed-catalog product across
// all four categories, in catalog order.
func (s *SalesService) BuildBlankSession() domain.SaleItems {
	var items domain.SaleItems
	for _, cat := range domain.Categories {
		for _, name := range domain.ProductCatalog[cat] {
			items = append(items, domain.ProductItem{
				Name:     name,
				Category: cat,
				Price:    decimal.Zero,
			})
		}
	}
	return items
}

func (s *SalesService) SaveSale(ctx context.Context, viewer domain.Viewer, req dto.SaveSaleRequest) (*domain.SaleRecord, domain.SaleItems, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Market == "" {
		return nil, nil, fmt.Errorf("%w: market is required", apperrors.ErrValidation)
	}
	items := dto.ToSaleItems(req.Items)
	if !items.HasEntry() {
		return nil, nil, fmt.Errorf("%w: no item has a price or quantity", apperrors.ErrValidation)
	}

	now := s.now()
	record := domain.SaleRecord{
		Market:       req.Market,
		EmployeeName: viewer.Name,
		RecordedBy:   viewer.Username,
		Date:         domain.DateOf(now),
		Timestamp:    domain.StampOf(now),
		Items:        items,
		Total:        items.Total(),
	}

	key, err := s.repo.SaveSale(ctx, record)
	if err != nil {
		logger.Error("Failed to save sale", slog.String("error", err.Error()), slog.String("market", req.Market))
		return nil, nil, err
	}
	record.ID = key

	logger.Info("Sale saved", slog.String("sale_id", key), slog.String("market", req.Market), slog.String("total", record.Total.String()))
	return &record, items.Reset(), nil
}

func (s *SalesService) ListSales(ctx context.Context, viewer domain.Viewer) ([]domain.SaleRecord, error) {
	records, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return FilterVisible(records, viewer, true), nil
}

func (s *SalesService) UpdateSale(ctx context.Context, viewer domain.Viewer, saleID string, req dto.UpdateSaleRequest) (*domain.SaleRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.repo.FindSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(viewer, record.RecordedBy) {
		logger.Warn("Sale edit denied", slog.String("sale_id", saleID), slog.String("username", viewer.Username))
		return nil, fmt.Errorf("%w: only an admin or the author may edit a sale", apperrors.ErrForbidden)
	}
	if req.Market == "" {
		return nil, fmt.Errorf("%w: market is required", apperrors.ErrValidation)
	}

	items := dto.ToSaleItems(req.Items)
	total := items.Total()
	if err := s.repo.UpdateSaleItems(ctx, saleID, items, total, req.Market); err != nil {
		logger.Error("Failed to update sale", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		return nil, err
	}

	record.Items = items
	record.Total = total
	record.Market = req.Market
	logger.Info("Sale updated", slog.String("sale_id", saleID), slog.String("total", total.String()))
	return record, nil
}

func (s *SalesService) DeleteSale(ctx context.Context, viewer domain.Viewer, saleID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.repo.FindSaleByID(ctx, saleID)
	if err != nil {
		return err
	}
	if !CanMutate(viewer, record.RecordedBy) {
		logger.Warn("Sale delete denied", slog.String("sale_id", saleID), slog.String("username", viewer.Username))
		return fmt.Errorf("%w: only an admin or the author may delete a sale", apperrors.ErrForbidden)
	}
	if err := s.repo.DeleteSale(ctx, saleID); err != nil {
		return err
	}
	logger.Info("Sale deleted", slog.String("sale_id", saleID))
	return nil
}

// ExportRows projects visible records onto flat uniform rows for the CSV
// exporter: one row per item, record columns repeated.
func (s *SalesService) ExportRows(ctx context.Context, viewer domain.Viewer) ([][]string, error) {
	records, err := s.ListSales(ctx, viewer)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"Date", "Market", "Employee", "Category", "Product", "Price", "Qty", "LineTotal", "RecordTotal"}}
	for _, r := range records {
		for _, it := range r.Items {
			line := it.Price.Mul(decimal.NewFromInt(int64(it.Qty)))
			rows = append(rows, []string{
				r.Date,
				r.Market,
				r.EmployeeName,
				string(it.Category),
				it.Name,
				it.Price.String(),
				fmt.Sprintf("%d", it.Qty),
				line.String(),
				r.Total.String(),
			})
		}
	}
	return rows, nil
}

func (s *SalesService) SubscribeSales(ctx context.Context, viewer domain.Viewer, onChange func([]domain.SaleRecord)) (store.Unsubscribe, error) {
	return s.repo.SubscribeSales(ctx, func(records []domain.SaleRecord) {
		onChange(FilterVisible(records, viewer, true))
	})
}
