package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Masood0319/Startups-platform/models"

	"gorm.io/gorm"
)

// memStore is an in-memory Store with snapshot/restore transactions.
type memStore struct {
	mu          sync.Mutex
	investments map[string]models.Investment
	contracts   map[string]models.Contract
	startups    map[string]models.Startup

	failContractInsert bool
	failList           bool
	writes             int
}

func newMemStore(startups ...models.Startup) *memStore {
	m := &memStore{
		investments: map[string]models.Investment{},
		contracts:   map[string]models.Contract{},
		startups:    map[string]models.Startup{},
	}
	for _, st := range startups {
		m.startups[st.ID] = st
	}
	return m
}

var errInjected = errors.New("injected failure")

func (m *memStore) FindStartup(_ context.Context, id string) (*models.Startup, error) {
	st, ok := m.startups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &st, nil
}

func (m *memStore) ListInvestments(_ context.Context, f InvestmentFilter) ([]models.Investment, error) {
	if m.failList {
		return nil, errInjected
	}
	var out []models.Investment
	for _, inv := range m.investments {
		if f.Type != "" && inv.Type != f.Type ||
			f.InvestorID != "" && inv.InvestorID != f.InvestorID ||
			f.StartupID != "" && inv.StartupID != f.StartupID ||
			f.ID != "" && inv.ID != f.ID {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetInvestment(_ context.Context, id, kind string) (*models.Investment, error) {
	inv, ok := m.investments[id]
	if !ok || inv.Type != kind {
		return nil, gorm.ErrRecordNotFound
	}
	return &inv, nil
}

func (m *memStore) InsertInvestment(_ context.Context, inv *models.Investment) error {
	m.writes++
	m.investments[inv.ID] = *inv
	return nil
}

func (m *memStore) UpdateInvestment(_ context.Context, id, kind string, u RecordUpdate) error {
	m.writes++
	inv, ok := m.investments[id]
	if !ok || inv.Type != kind {
		return nil
	}
	if u.Status != nil {
		inv.Status = *u.Status
	}
	if u.Terms != nil {
		inv.Terms = u.Terms
	}
	if u.Amount != nil {
		inv.Amount = *u.Amount
	}
	inv.UpdatedAt = u.UpdatedAt
	m.investments[id] = inv
	return nil
}

func (m *memStore) DeleteInvestment(_ context.Context, id string) (int64, error) {
	m.writes++
	if _, ok := m.investments[id]; !ok {
		return 0, nil
	}
	delete(m.investments, id)
	return 1, nil
}

func (m *memStore) ListContracts(_ context.Context, investmentID string) ([]models.Contract, error) {
	var out []models.Contract
	for _, c := range m.contracts {
		if c.InvestmentID == investmentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) InsertContract(_ context.Context, c *models.Contract) error {
	if m.failContractInsert {
		return errInjected
	}
	m.writes++
	m.contracts[c.ID] = *c
	return nil
}

func (m *memStore) UpdateContracts(_ context.Context, investmentID string, u RecordUpdate) (int64, error) {
	m.writes++
	var n int64
	for id, c := range m.contracts {
		if c.InvestmentID != investmentID {
			continue
		}
		if u.Status != nil {
			c.Status = *u.Status
		}
		if u.Terms != nil {
			c.Terms = u.Terms
		}
		if u.Amount != nil {
			c.Amount = *u.Amount
		}
		c.UpdatedAt = u.UpdatedAt
		m.contracts[id] = c
		n++
	}
	return n, nil
}

func (m *memStore) DeleteContracts(_ context.Context, investmentID string) (int64, error) {
	m.writes++
	var n int64
	for id, c := range m.contracts {
		if c.InvestmentID == investmentID {
			delete(m.contracts, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) OrphanInvestments(_ context.Context, limit int) ([]models.Investment, error) {
	linked := map[string]bool{}
	for _, c := range m.contracts {
		linked[c.InvestmentID] = true
	}
	var out []models.Investment
	for _, inv := range m.investments {
		if !linked[inv.ID] {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Transaction(_ context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	invs := make(map[string]models.Investment, len(m.investments))
	for k, v := range m.investments {
		invs[k] = v
	}
	cons := make(map[string]models.Contract, len(m.contracts))
	for k, v := range m.contracts {
		cons[k] = v
	}
	if err := fn(m); err != nil {
		m.investments, m.contracts = invs, cons
		return err
	}
	return nil
}
