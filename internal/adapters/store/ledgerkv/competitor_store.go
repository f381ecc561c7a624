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

// CompetitorStore persists survey templates and posted reports. Templates
// are keyed by the escaped (username, market, company) triple so no two
// employees ever share a working copy.
type CompetitorStore struct {
	rs store.RemoteStore
}

var _ portsrepo.CompetitorRepositoryFacade = (*CompetitorStore)(nil)

// NewCompetitorStore creates a competitor repository over the remote store.
func NewCompetitorStore(rs store.RemoteStore) *CompetitorStore {
	return &CompetitorStore{rs: rs}
}

func templatePath(username, market, company string) string {
	return join(templatesPath, EscapeKey(username), EscapeKey(market), EscapeKey(company))
}

func (s *CompetitorStore) FindTemplate(ctx context.Context, username, market, company string) (*domain.CompetitorTemplate, error) {
	raw, err := s.rs.Read(ctx, templatePath(username, market, company))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	tpl, err := decodeOne[domain.CompetitorTemplate](raw)
	if err != nil {
		return nil, err
	}
	// identity comes from the path, not the stored doc
	tpl.Username = username
	tpl.Market = market
	tpl.Company = company
	return tpl, nil
}

func (s *CompetitorStore) SaveTemplate(ctx context.Context, tpl domain.CompetitorTemplate) error {
	path := templatePath(tpl.Username, tpl.Market, tpl.Company)
	if err := s.rs.Write(ctx, path, tpl); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}

func (s *CompetitorStore) DeleteTemplate(ctx context.Context, username, market, company string) error {
	if err := s.rs.Delete(ctx, templatePath(username, market, company)); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func (s *CompetitorStore) SaveReport(ctx context.Context, report domain.CompetitorReport) (string, error) {
	key := s.rs.GenerateKey(reportsPath)
	report.ID = key
	if err := s.rs.Write(ctx, join(reportsPath, key), report); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return key, nil
}

func (s *CompetitorStore) FindReportByID(ctx context.Context, reportID string) (*domain.CompetitorReport, error) {
	raw, err := s.rs.Read(ctx, join(reportsPath, reportID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read report %s: %w", reportID, err)
	}
	report, err := decodeOne[domain.CompetitorReport](raw)
	if err != nil {
		return nil, err
	}
	report.ID = reportID
	return report, nil
}

func (s *CompetitorStore) ListReports(ctx context.Context, market, company string) ([]domain.CompetitorReport, error) {
	raw, err := s.rs.Read(ctx, reportsPath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.CompetitorReport{}, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	reports, err := decodeReports(raw)
	if err != nil {
		return nil, err
	}
	if market == "" && company == "" {
		return reports, nil
	}
	filtered := make([]domain.CompetitorReport, 0, len(reports))
	for _, r := range reports {
		if market != "" && r.Market != market {
			continue
		}
		if company != "" && r.Company != company {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func (s *CompetitorStore) UpdateReportItems(ctx context.Context, reportID string, items []domain.PriceItem) error {
	err := s.rs.MergeFields(ctx, join(reportsPath, reportID), map[string]any{
		"items": items,
	})
	if err != nil {
		return fmt.Errorf("failed to update report %s: %w", reportID, err)
	}
	return nil
}

func (s *CompetitorStore) DeleteReport(ctx context.Context, reportID string) error {
	if err := s.rs.Delete(ctx, join(reportsPath, reportID)); err != nil {
		return fmt.Errorf("failed to delete report %s: %w", reportID, err)
	}
	return nil
}

func (s *CompetitorStore) SubscribeReports(ctx context.Context, onChange func([]domain.CompetitorReport)) (store.Unsubscribe, error) {
	return s.rs.Subscribe(ctx, reportsPath, func(raw json.RawMessage) {
		reports, err := decodeReports(raw)
		if err != nil {
			return
		}
		onChange(reports)
	})
}

func decodeReports(raw json.RawMessage) ([]domain.CompetitorReport, error) {
	byKey, err := decodeMap[domain.CompetitorReport](raw)
	if err != nil {
		return nil, err
	}
	reports := make([]domain.CompetitorReport, 0, len(byKey))
	for key, rec := range byKey {
		rec.ID = key
		reports = append(reports, rec)
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Timestamp != reports[j].Timestamp {
			return reports[i].Timestamp < reports[j].Timestamp
		}
		return reports[i].ID < reports[j].ID
	})
	return reports, nil
}
