// Package services implements the investment record lifecycle on top of the
// compliance rules and a Store.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masood0319/Startups-platform/compliance"
	"github.com/Masood0319/Startups-platform/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actor is the authenticated user performing a write.
type Actor struct {
	ID string
}

type CreateInput struct {
	InvestorID string
	StartupID  string
	Amount     any
	Terms      any
}

type CreateResult struct {
	InvestmentID string `json:"id"`
	ContractID   string `json:"contractId"`
}

type UpdateInput struct {
	ID     string
	Status string
	Terms  any
	Amount any
}

type PreviewRequest struct {
	Amount   any
	Investor compliance.Party
	Startup  compliance.Party
	Terms    map[string]any
}

type InvestmentService struct {
	store     Store
	validator *compliance.Validator
	screen    *compliance.IndustryScreen
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

func NewInvestmentService(store Store, validator *compliance.Validator, screen *compliance.IndustryScreen, logger *zap.Logger) *InvestmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvestmentService{
		store:     store,
		validator: validator,
		screen:    screen,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// List returns investments of the given type, newest first.
func (s *InvestmentService) List(ctx context.Context, kind string, f InvestmentFilter) ([]models.Investment, error) {
	f.Type = compliance.NormalizeType(kind)
	if f.ID != "" {
		if _, err := uuid.Parse(f.ID); err != nil {
			return []models.Investment{}, nil
		}
	}
	items, err := s.store.ListInvestments(ctx, f)
	if err != nil {
		return nil, s.persistence("list investments", err)
	}
	if items == nil {
		items = []models.Investment{}
	}
	return items, nil
}

// Create validates the proposal, screens the startup and writes the investment
// together with its draft contract. Nothing is written when validation fails.
func (s *InvestmentService) Create(ctx context.Context, kind string, actor *Actor, in CreateInput) (*CreateResult, error) {
	if actor == nil || actor.ID == "" {
		return nil, ErrUnauthorized
	}
	t := compliance.NormalizeType(kind)

	errs := s.validator.Validate(t, in.Amount, in.Terms)
	flagged := contains(errs, compliance.MsgProhibitedTerms)
	if _, err := s.screen.Gate(ctx, in.StartupID); err != nil {
		var ce *compliance.ComplianceError
		if !errors.As(err, &ce) {
			return nil, s.persistence("screen startup", err)
		}
		errs = append(errs, ce.Message)
		flagged = flagged || !ce.NotFound
	}
	if len(errs) > 0 {
		s.reject(t, errs)
		return nil, &ValidationError{Messages: errs, Compliance: flagged}
	}

	amount, _ := compliance.ParseAmount(in.Amount)
	terms, _ := compliance.AsTerms(in.Terms)
	now := s.now()
	inv := &models.Investment{
		ID:         s.newID(),
		InvestorID: in.InvestorID,
		StartupID:  in.StartupID,
		Amount:     amount,
		Type:       t,
		Terms:      datatypes.JSONMap(terms),
		Status:     models.InvestmentStatusPending,
		CreatedBy:  actor.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	contract := models.NewContractFor(inv, s.newID())

	err := s.store.Transaction(ctx, func(tx Store) error {
		if err := tx.InsertInvestment(ctx, inv); err != nil {
			return fmt.Errorf("insert investment: %w", err)
		}
		if err := tx.InsertContract(ctx, contract); err != nil {
			return fmt.Errorf("insert contract: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.persistence("create investment", err)
	}

	investmentsCreated.WithLabelValues(t).Inc()
	s.logger.Info("investment created",
		zap.String("investment_id", inv.ID),
		zap.String("contract_id", contract.ID),
		zap.String("type", t),
		zap.String("startup_id", inv.StartupID),
		zap.String("actor", actor.ID))
	return &CreateResult{InvestmentID: inv.ID, ContractID: contract.ID}, nil
}

// Update applies status, terms and amount changes to an investment and to
// every contract that references it. When amount or terms is supplied the
// proposal is re-validated, substituting amount 1 or empty terms for whichever
// was not supplied.
func (s *InvestmentService) Update(ctx context.Context, kind string, actor *Actor, in UpdateInput) error {
	if actor == nil || actor.ID == "" {
		return ErrUnauthorized
	}
	t := compliance.NormalizeType(kind)
	if _, err := uuid.Parse(in.ID); err != nil {
		return &NotFoundError{Message: "Invalid id", Invalid: true}
	}

	u := RecordUpdate{UpdatedAt: s.now()}
	if in.Terms != nil || in.Amount != nil {
		amount, terms := in.Amount, in.Terms
		if amount == nil {
			amount = 1
		}
		if terms == nil {
			terms = map[string]any{}
		}
		if errs := s.validator.Validate(t, amount, terms); len(errs) > 0 {
			s.reject(t, errs)
			return &ValidationError{Messages: errs, Compliance: contains(errs, compliance.MsgProhibitedTerms)}
		}
	}
	if in.Status != "" {
		status := in.Status
		u.Status = &status
	}
	if in.Terms != nil {
		terms, _ := compliance.AsTerms(in.Terms)
		u.Terms = datatypes.JSONMap(terms)
	}
	if in.Amount != nil {
		amount, _ := compliance.ParseAmount(in.Amount)
		u.Amount = &amount
	}

	var missing bool
	err := s.store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.GetInvestment(ctx, in.ID, t); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				missing = true
			}
			return err
		}
		if err := tx.UpdateInvestment(ctx, in.ID, t, u); err != nil {
			return fmt.Errorf("update investment: %w", err)
		}
		if _, err := tx.UpdateContracts(ctx, in.ID, u); err != nil {
			return fmt.Errorf("update contracts: %w", err)
		}
		return nil
	})
	if missing {
		return &NotFoundError{Message: "Investment not found"}
	}
	if err != nil {
		return s.persistence("update investment", err)
	}
	s.logger.Info("investment updated", zap.String("investment_id", in.ID), zap.String("actor", actor.ID))
	return nil
}

// Delete removes the investment and every contract that references it.
// Deleting an id that no longer exists succeeds.
func (s *InvestmentService) Delete(ctx context.Context, kind string, actor *Actor, id string) error {
	if actor == nil || actor.ID == "" {
		return ErrUnauthorized
	}
	if _, err := uuid.Parse(id); err != nil {
		return &NotFoundError{Message: "Invalid id", Invalid: true}
	}
	var removedContracts int64
	err := s.store.Transaction(ctx, func(tx Store) error {
		if _, err := tx.DeleteInvestment(ctx, id); err != nil {
			return fmt.Errorf("delete investment: %w", err)
		}
		n, err := tx.DeleteContracts(ctx, id)
		if err != nil {
			return fmt.Errorf("delete contracts: %w", err)
		}
		removedContracts = n
		return nil
	})
	if err != nil {
		return s.persistence("delete investment", err)
	}
	s.logger.Info("investment deleted",
		zap.String("investment_id", id),
		zap.String("type", compliance.NormalizeType(kind)),
		zap.Int64("contracts_removed", removedContracts),
		zap.String("actor", actor.ID))
	return nil
}

// Preview renders the agreement preview. A startup given only by id has its
// name looked up; lookup failures leave the id in place.
func (s *InvestmentService) Preview(ctx context.Context, kind string, req PreviewRequest) string {
	if req.Startup.Name == "" && req.Startup.ID != "" {
		if _, err := uuid.Parse(req.Startup.ID); err == nil {
			if st, err := s.store.FindStartup(ctx, req.Startup.ID); err == nil {
				req.Startup.Name = st.Name
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn("preview startup lookup failed", zap.String("startup_id", req.Startup.ID), zap.Error(err))
			}
		}
	}
	return compliance.BuildAgreementPreview(compliance.PreviewInput{
		Type:     kind,
		Amount:   req.Amount,
		Investor: req.Investor,
		Startup:  req.Startup,
		Terms:    req.Terms,
	})
}

// StartupCompliance is the industry screen verdict for one startup.
type StartupCompliance struct {
	StartupID  string   `json:"startupId"`
	Allowed    bool     `json:"allowed"`
	Reason     string   `json:"reason,omitempty"`
	Industries []string `json:"industries"`
	Blocked    []string `json:"blocked,omitempty"`
}

// CheckStartup reports whether investments into the startup would pass the
// industry screen. Invalid and unknown ids are *NotFoundError.
func (s *InvestmentService) CheckStartup(ctx context.Context, startupID string) (*StartupCompliance, error) {
	st, err := s.screen.Screen(ctx, startupID)
	var ce *compliance.ComplianceError
	switch {
	case err == nil:
	case errors.As(err, &ce) && ce.NotFound:
		return nil, &NotFoundError{Message: ce.Message, Invalid: ce.Message == compliance.MsgInvalidStartupID}
	case errors.As(err, &ce):
		complianceRejections.WithLabelValues(ce.Message).Inc()
	default:
		return nil, s.persistence("screen startup", err)
	}
	out := &StartupCompliance{
		StartupID:  st.ID,
		Allowed:    ce == nil,
		Industries: st.IndustrySet(),
		Blocked:    s.screen.Blocked(st),
	}
	if ce != nil {
		out.Reason = ce.Message
	}
	if out.Industries == nil {
		out.Industries = []string{}
	}
	return out, nil
}

func (s *InvestmentService) reject(kind string, errs []string) {
	for _, e := range errs {
		complianceRejections.WithLabelValues(e).Inc()
	}
	s.logger.Info("investment rejected", zap.String("type", kind), zap.Strings("errors", errs))
}

func (s *InvestmentService) persistence(op string, err error) error {
	s.logger.Error("store failure", zap.String("op", op), zap.Error(err))
	return &PersistenceError{Op: op, Err: err}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
