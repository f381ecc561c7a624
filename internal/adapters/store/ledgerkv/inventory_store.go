package ledgerkv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// InventoryStore persists stock count records.
type InventoryStore struct {
	rs store.RemoteStore
}

var _ portsrepo.InventoryRepositoryFacade = (*InventoryStore)(nil)

// NewInventoryStore creates an inventory repository over the remote store.
func NewInventoryStore(rs store.RemoteStore) *InventoryStore {
	return &InventoryStore{rs: rs}
}

func (s *InventoryStore) SaveInventory(ctx context.Context, record domain.InventoryRecord) (string, error) {
	key := s.rs.GenerateKey(inventoryPath)
	record.ID = key
	if err := s.rs.Write(ctx, join(inventoryPath, key), record); err != nil {
		return "", fmt.Errorf("failed to save inventory record: %w", err)
	}
	return key, nil
}

func (s *InventoryStore) FindInventoryByID(ctx context.Context, recordID string) (*domain.InventoryRecord, error) {
	raw, err := s.rs.Read(ctx, join(inventoryPath, recordID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read inventory record %s: %w", recordID, err)
	}
	record, err := decodeOne[domain.InventoryRecord](raw)
	if err != nil {
		return nil, err
	}
	record.ID = recordID
	return record, nil
}

func (s *InventoryStore) ListInventory(ctx context.Context) ([]domain.InventoryRecord, error) {
	raw, err := s.rs.Read(ctx, inventoryPath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.InventoryRecord{}, nil
		}
		return nil, fmt.Errorf("failed to list inventory records: %w", err)
	}
	return decodeInventory(raw)
}

func (s *InventoryStore) UpdateInventoryItems(ctx context.Context, recordID string, items []domain.InventoryItem) error {
	err := s.rs.MergeFields(ctx, join(inventoryPath, recordID), map[string]any{
		"items": items,
	})
	if err != nil {
		return fmt.Errorf("failed to update inventory record %s: %w", recordID, err)
	}
	return nil
}

func (s *InventoryStore) DeleteInventory(ctx context.Context, recordID string) error {
	if err := s.rs.Delete(ctx, join(inventoryPath, recordID)); err != nil {
		return fmt.Errorf("failed to delete inventory record %s: %w", recordID, err)
	}
	return nil
}

func (s *InventoryStore) SubscribeInventory(ctx context.Context, onChange func([]domain.InventoryRecord)) (store.Unsubscribe, error) {
	return s.rs.Subscribe(ctx, inventoryPath, func(raw json.RawMessage) {
		records, err := decodeInventory(raw)
		if err != nil {
			return
		}
		onChange(records)
	})
}

func decodeInventory(raw json.RawMessage) ([]domain.InventoryRecord, error) {
	byKey, err := decodeMap[domain.InventoryRecord](raw)
	if err != nil {
		return nil, err
	}
	records := make([]domain.InventoryRecord, 0, len(byKey))
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
