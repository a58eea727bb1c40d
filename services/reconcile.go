package services

import (
	"context"
	"fmt"

	"github.com/Masood0319/Startups-platform/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultReconcileLimit = 500

// ReconcileReport lists investments found without a contract and the contracts created for them.
type ReconcileReport struct {
	Orphans  []string          `json:"orphans"`
	Repaired map[string]string `json:"repaired,omitempty"`
}

// Reconciler restores the one-contract-per-investment pairing for records
// written outside a transaction.
type Reconciler struct {
	store  Store
	logger *zap.Logger
	newID  func() string
}

func NewReconciler(store Store, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{store: store, logger: logger, newID: uuid.NewString}
}

// Run scans for orphaned investments. With repair set, each orphan gets a
// draft contract mirroring it.
func (r *Reconciler) Run(ctx context.Context, repair bool, limit int) (*ReconcileReport, error) {
	if limit <= 0 {
		limit = defaultReconcileLimit
	}
	orphans, err := r.store.OrphanInvestments(ctx, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "find orphan investments", Err: err}
	}
	report := &ReconcileReport{Orphans: make([]string, 0, len(orphans))}
	for _, inv := range orphans {
		report.Orphans = append(report.Orphans, inv.ID)
	}
	if !repair {
		return report, nil
	}

	report.Repaired = make(map[string]string, len(orphans))
	for i := range orphans {
		inv := &orphans[i]
		c := models.NewContractFor(inv, r.newID())
		if err := r.store.InsertContract(ctx, c); err != nil {
			r.logger.Error("reconcile contract insert failed", zap.String("investment_id", inv.ID), zap.Error(err))
			return report, &PersistenceError{Op: fmt.Sprintf("insert contract for %s", inv.ID), Err: err}
		}
		report.Repaired[inv.ID] = c.ID
	}
	r.logger.Info("reconciliation repaired orphans", zap.Int("count", len(report.Repaired)))
	return report, nil
}
