package database

import (
	"context"

	"github.com/Masood0319/Startups-platform/models"
	"github.com/Masood0319/Startups-platform/services"

	"gorm.io/gorm"
)

// Store is the gorm-backed services.Store.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindStartup(ctx context.Context, id string) (*models.Startup, error) {
	var st models.Startup
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) ListInvestments(ctx context.Context, f services.InvestmentFilter) ([]models.Investment, error) {
	q := s.db.WithContext(ctx).Model(&models.Investment{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.InvestorID != "" {
		q = q.Where("investor_id = ?", f.InvestorID)
	}
	if f.StartupID != "" {
		q = q.Where("startup_id = ?", f.StartupID)
	}
	if f.ID != "" {
		q = q.Where("id = ?", f.ID)
	}
	var items []models.Investment
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetInvestment(ctx context.Context, id, kind string) (*models.Investment, error) {
	var inv models.Investment
	if err := s.db.WithContext(ctx).Where("id = ? AND type = ?", id, kind).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) InsertInvestment(ctx context.Context, inv *models.Investment) error {
	return s.db.WithContext(ctx).Create(inv).Error
}

func (s *Store) UpdateInvestment(ctx context.Context, id, kind string, u services.RecordUpdate) error {
	return s.db.WithContext(ctx).Model(&models.Investment{}).
		Where("id = ? AND type = ?", id, kind).
		Updates(updateColumns(u)).Error
}

func (s *Store) DeleteInvestment(ctx context.Context, id string) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Investment{})
	return res.RowsAffected, res.Error
}

func (s *Store) ListContracts(ctx context.Context, investmentID string) ([]models.Contract, error) {
	var items []models.Contract
	err := s.db.WithContext(ctx).Where("investment_id = ?", investmentID).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (s *Store) InsertContract(ctx context.Context, c *models.Contract) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) UpdateContracts(ctx context.Context, investmentID string, u services.RecordUpdate) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("investment_id = ?", investmentID).
		Updates(updateColumns(u))
	return res.RowsAffected, res.Error
}

func (s *Store) DeleteContracts(ctx context.Context, investmentID string) (int64, error) {
	res := s.db.WithContext(ctx).Where("investment_id = ?", investmentID).Delete(&models.Contract{})
	return res.RowsAffected, res.Error
}

func (s *Store) OrphanInvestments(ctx context.Context, limit int) ([]models.Investment, error) {
	var items []models.Investment
	err := s.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM contracts WHERE contracts.investment_id = investments.id)").
		Order("created_at ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (s *Store) Transaction(ctx context.Context, fn func(tx services.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func updateColumns(u services.RecordUpdate) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": u.UpdatedAt}
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	if u.Terms != nil {
		cols["terms"] = u.Terms
	}
	if u.Amount != nil {
		cols["amount"] = *u.Amount
	}
	return cols
}
