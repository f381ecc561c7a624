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

// InventoryService implements the inventory ledger.
type InventoryService struct {
	repo portsrepo.InventoryRepositoryFacade
	now  domain.Clock
}

var _ portssvc.InventorySvcFacade = (*InventoryService)(nil)

// NewInventoryService creates an inventory ledger service. A nil clock
// defaults to time.Now.
func NewInventoryService(repo portsrepo.InventoryRepositoryFacade, now domain.Clock) *InventoryService {
	if now == nil {
		now = time.Now
	}
	return &InventoryService{repo: repo, now: now}
}

// BuildBlankSession produces one zeroed row per fixed-catalog product.
func (s *InventoryService) BuildBlankSession() []domain.InventoryItem {
	var items []domain.InventoryItem
	for _, cat := range domain.Categories {
		for _, name := range domain.ProductCatalog[cat] {
			items = append(items, domain.InventoryItem{Name: name, Category: cat})
		}
	}
	return items
}

// validateItems enforces the ad-hoc rules: a named cap per category and no
// nameless rows carrying a quantity.
func validateInventoryItems(items []domain.InventoryItem) error {
	adHocCount := make(map[domain.Category]int)
	for _, it := range items {
		if it.AdHoc {
			adHocCount[it.Category]++
			if adHocCount[it.Category] > domain.MaxAdHocPerCategory {
				return fmt.Errorf("%w: more than %d custom items for category %s", apperrors.ErrValidation, domain.MaxAdHocPerCategory, it.Category)
			}
		}
		if it.Qty > 0 && it.Name == "" {
			return fmt.Errorf("%w: item with quantity %d has no name", apperrors.ErrValidation, it.Qty)
		}
	}
	return nil
}

func (s *InventoryService) SaveInventory(ctx context.Context, viewer domain.Viewer, req dto.SaveInventoryRequest) (*domain.InventoryRecord, []domain.InventoryItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Market == "" {
		return nil, nil, fmt.Errorf("%w: market is required", apperrors.ErrValidation)
	}
	items := dto.ToInventoryItems(req.Items)
	if err := validateInventoryItems(items); err != nil {
		return nil, nil, err
	}
	counted := domain.CountedItems(items)
	if len(counted) == 0 {
		return nil, nil, fmt.Errorf("%w: no item has a quantity", apperrors.ErrValidation)
	}

	now := s.now()
	record := domain.InventoryRecord{
		Market:       req.Market,
		EmployeeName: viewer.Name,
		RecordedBy:   viewer.Username,
		Date:         domain.DateOf(now),
		Timestamp:    domain.StampOf(now),
		Items:        counted,
	}

	key, err := s.repo.SaveInventory(ctx, record)
	if err != nil {
		logger.Error("Failed to save inventory record", slog.String("error", err.Error()), slog.String("market", req.Market))
		return nil, nil, err
	}
	record.ID = key

	// reset quantities but keep the ad-hoc rows for the next count
	session := make([]domain.InventoryItem, len(items))
	for i, it := range items {
		it.Qty = 0
		session[i] = it
	}

	logger.Info("Inventory record saved", slog.String("record_id", key), slog.String("market", req.Market), slog.Int("items", len(counted)))
	return &record, session, nil
}

func (s *InventoryService) ListInventory(ctx context.Context, viewer domain.Viewer) ([]domain.InventoryRecord, error) {
	records, err := s.repo.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	return FilterVisible(records, viewer, true), nil
}

// UpdateInventory applies quantity-only edits to a saved record. Rows are
// matched by position; zero-qty rows are dropped, as at save time.
func (s *InventoryService) UpdateInventory(ctx context.Context, viewer domain.Viewer, recordID string, req dto.UpdateInventoryRequest) (*domain.InventoryRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.repo.FindInventoryByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(viewer, record.RecordedBy) {
		logger.Warn("Inventory edit denied", slog.String("record_id", recordID), slog.String("username", viewer.Username))
		return nil, fmt.Errorf("%w: only an admin or the author may edit a count", apperrors.ErrForbidden)
	}
	if len(req.Quantities) != len(record.Items) {
		return nil, fmt.Errorf("%w: expected %d quantities, got %d", apperrors.ErrValidation, len(record.Items), len(req.Quantities))
	}

	updated := make([]domain.InventoryItem, len(record.Items))
	for i, it := range record.Items {
		it.Qty = req.Quantities[i]
		updated[i] = it
	}
	counted := domain.CountedItems(updated)
	if len(counted) == 0 {
		return nil, fmt.Errorf("%w: no item has a quantity", apperrors.ErrValidation)
	}

	if err := s.repo.UpdateInventoryItems(ctx, recordID, counted); err != nil {
		logger.Error("Failed to update inventory record", slog.String("error", err.Error()), slog.String("record_id", recordID))
		return nil, err
	}
	record.Items = counted
	logger.Info("Inventory record updated", slog.String("record_id", recordID), slog.Int("items", len(counted)))
	return record, nil
}

func (s *InventoryService) DeleteInventory(ctx context.Context, viewer domain.Viewer, recordID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	record, err := s.repo.FindInventoryByID(ctx, recordID)
	if err != nil {
		return err
	}
	if !CanMutate(viewer, record.RecordedBy) {
		logger.Warn("Inventory delete denied", slog.String("record_id", recordID), slog.String("username", viewer.Username))
		return fmt.Errorf("%w: only an admin or the author may delete a count", apperrors.ErrForbidden)
	}
	if err := s.repo.DeleteInventory(ctx, recordID); err != nil {
		return err
	}
	logger.Info("Inventory record deleted", slog.String("record_id", recordID))
	return nil
}

func (s *InventoryService) ExportRows(ctx context.Context, viewer domain.Viewer) ([][]string, error) {
	records, err := s.ListInventory(ctx, viewer)
	if err != nil {
		return nil, err
	}
	rows := [][]string{{"Date", "Market", "Employee", "Category", "Product", "Qty"}}
	for _, r := range records {
		for _, it := range r.Items {
			rows = append(rows, []string{
				r.Date,
				r.Market,
				r.EmployeeName,
				string(it.Category),
				it.Name,
				fmt.Sprintf("%d", it.Qty),
			})
		}
	}
	return rows, nil
}

func (s *InventoryService) SubscribeInventory(ctx context.Context, viewer domain.Viewer, onChange func([]domain.InventoryRecord)) (store.Unsubscribe, error) {
	return s.repo.SubscribeInventory(ctx, func(records []domain.InventoryRecord) {
		onChange(FilterVisible(records, viewer, true))
	})
}
