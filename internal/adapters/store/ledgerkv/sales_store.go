package ledgerkv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// SalesStore persists sale records under the sales collection root.
type SalesStore struct {
	rs store.RemoteStore
}

var _ portsrepo.SalesRepositoryFacade = (*SalesStore)(nil)

// NewSalesStore creates a sales repository over the remote store.
func NewSalesStore(rs store.RemoteStore) *SalesStore {
	return &SalesStore{rs: rs}
}

func (s *SalesStore) SaveSale(ctx context.Context, sale domain.SaleRecord) (string, error) {
	key := s.rs.GenerateKey(salesPath)
	sale.ID = key
	if err := s.rs.Write(ctx, join(salesPath, key), sale); err != nil {
		return "", fmt.Errorf("failed to save sale: %w", err)
	}
	return key, nil
}

func (s *SalesStore) FindSaleByID(ctx context.Context, saleID string) (*domain.SaleRecord, error) {
	raw, err := s.rs.Read(ctx, join(salesPath, saleID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read sale %s: %w", saleID, err)
	}
	sale, err := decodeOne[domain.SaleRecord](raw)
	if err != nil {
		return nil, err
	}
	sale.ID = saleID
	return sale, nil
}

func (s *SalesStore) ListSales(ctx context.Context) ([]domain.SaleRecord, error) {
	raw, err := s.rs.Read(ctx, salesPath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.SaleRecord{}, nil
		}
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return decodeSales(raw)
}

func (s *SalesStore) UpdateSaleItems(ctx context.Context, saleID string, items domain.SaleItems, total decimal.Decimal, market string) error {
	err := s.rs.MergeFields(ctx, join(salesPath, saleID), map[string]any{
		"items":  items,
		"total":  total,
		"market": market,
	})
	if err != nil {
		return fmt.Errorf("failed to update sale %s: %w", saleID, err)
	}
	return nil
}

func (s *SalesStore) DeleteSale(ctx context.Context, saleID string) error {
	if err := s.rs.Delete(ctx, join(salesPath, saleID)); err != nil {
		return fmt.Errorf("failed to delete sale %s: %w", saleID, err)
	}
	return nil
}

func (s *SalesStore) SubscribeSales(ctx context.Context, onChange func([]domain.SaleRecord)) (store.Unsubscribe, error) {
	return s.rs.Subscribe(ctx, salesPath, func(raw json.RawMessage) {
		records, err := decodeSales(raw)
		if err != nil {
			return
		}
		onChange(records)
	})
}

func decodeSales(raw json.RawMessage) ([]domain.SaleRecord, error) {
	byKey, err := decodeMap[domain.SaleRecord](raw)
	if err != nil {
		return nil, err
	}
	records := make([]domain.SaleRecord, 0, len(byKey))
	for key, rec := range byKey {
		rec.ID = key
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp != records[j].Timestamp {
			return records[i].Timestamp < records[j].Timestamp
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}
