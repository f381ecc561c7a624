package services

import (
	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
)

// NewServiceContainer creates a service container with properly initialized
// dependencies. A nil clock means time.Now.
func NewServiceContainer(repos portsrepo.RepositoryProvider, now domain.Clock) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Sales:      NewSalesService(repos.SalesRepo, now),
		Inventory:  NewInventoryService(repos.InventoryRepo, now),
		Competitor: NewCompetitorService(repos.CompetitorRepo, now),
		Leave:      NewLeaveService(repos.LeaveRepo, now),
		Catalog:    NewCatalogService(repos.CatalogRepo),
		Settings:   NewSettingsService(repos.SettingsRepo),
		User:       NewUserService(repos.UserRepo),
	}
}
