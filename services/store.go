package services

import (
	"context"
	"time"

	"github.com/Masood0319/Startups-platform/compliance"
	"github.com/Masood0319/Startups-platform/models"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvestmentFilter selects investments; empty fields are ignored.
type InvestmentFilter struct {
	Type       string
	InvestorID string
	StartupID  string
	ID         string
}

// RecordUpdate is the field set applied to an investment and mirrored onto its contracts.
// Nil fields are left untouched.
type RecordUpdate struct {
	Status    *string
	Terms     datatypes.JSONMap
	Amount    *decimal.Decimal
	UpdatedAt time.Time
}

// Store is the persistence collaborator. Lookups of missing records return gorm.ErrRecordNotFound.
type Store interface {
	compliance.StartupFinder

	// ListInvestments returns matches ordered by creation time, newest first.
	ListInvestments(ctx context.Context, f InvestmentFilter) ([]models.Investment, error)
	GetInvestment(ctx context.Context, id, kind string) (*models.Investment, error)
	InsertInvestment(ctx context.Context, inv *models.Investment) error
	UpdateInvestment(ctx context.Context, id, kind string, u RecordUpdate) error
	DeleteInvestment(ctx context.Context, id string) (int64, error)

	ListContracts(ctx context.Context, investmentID string) ([]models.Contract, error)
	InsertContract(ctx context.Context, c *models.Contract) error
	UpdateContracts(ctx context.Context, investmentID string, u RecordUpdate) (int64, error)
	DeleteContracts(ctx context.Context, investmentID string) (int64, error)

	// OrphanInvestments returns investments that no contract references.
	OrphanInvestments(ctx context.Context, limit int) ([]models.Investment, error)

	// Transaction runs fn against a store bound to one transaction; an error from fn rolls it back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
