package ledgerkv

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// CatalogStore persists the editable market and company name lists. Each
// entry has its own generated key so single entries can be renamed or
// removed without rewriting the collection.
type CatalogStore struct {
	rs store.RemoteStore
}

var _ portsrepo.CatalogRepository = (*CatalogStore)(nil)

// NewCatalogStore creates a catalog repository over the remote store.
func NewCatalogStore(rs store.RemoteStore) *CatalogStore {
	return &CatalogStore{rs: rs}
}

func catalogPath(kind portsrepo.CatalogKind) string {
	return join(catalogsPath, string(kind))
}

func (s *CatalogStore) ListEntries(ctx context.Context, kind portsrepo.CatalogKind) ([]domain.CatalogEntry, error) {
	raw, err := s.rs.Read(ctx, catalogPath(kind))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.CatalogEntry{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	byKey, err := decodeMap[string](raw)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.CatalogEntry, 0, len(byKey))
	for key, name := range byKey {
		entries = append(entries, domain.CatalogEntry{Key: key, Name: name})
	}
	// generated keys are time-prefixed, so key order is insertion order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

func (s *CatalogStore) AddEntry(ctx context.Context, kind portsrepo.CatalogKind, name string) (*domain.CatalogEntry, error) {
	key := s.rs.GenerateKey(catalogPath(kind))
	if err := s.rs.Write(ctx, join(catalogPath(kind), key), name); err != nil {
		return nil, fmt.Errorf("failed to add %s entry: %w", kind, err)
	}
	return &domain.CatalogEntry{Key: key, Name: name}, nil
}

func (s *CatalogStore) RenameEntry(ctx context.Context, kind portsrepo.CatalogKind, key, name string) error {
	path := join(catalogPath(kind), key)
	if _, err := s.rs.Read(ctx, path); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to read %s entry %s: %w", kind, key, err)
	}
	if err := s.rs.Write(ctx, path, name); err != nil {
		return fmt.Errorf("failed to rename %s entry %s: %w", kind, key, err)
	}
	return nil
}

func (s *CatalogStore) DeleteEntry(ctx context.Context, kind portsrepo.CatalogKind, key string) error {
	if err := s.rs.Delete(ctx, join(catalogPath(kind), key)); err != nil {
		return fmt.Errorf("failed to delete %s entry %s: %w", kind, key, err)
	}
	return nil
}
