package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Contract is the draft agreement mirroring one Investment. Field changes and
// deletes on the Investment are applied to every Contract with its InvestmentID.
type Contract struct {
	ID           string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvestmentID string            `gorm:"type:varchar(36);not null;index" json:"investmentId"`
	InvestorID   string            `gorm:"type:varchar(191);index" json:"investorId"`
	StartupID    string            `gorm:"type:varchar(191);index" json:"startupId"`
	Amount       decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"amount"`
	Type         string            `gorm:"type:varchar(32);not null;index:idx_contracts_type_status" json:"type"`
	Terms        datatypes.JSONMap `json:"terms"`
	Status       string            `gorm:"type:varchar(32);not null;default:'draft';index:idx_contracts_type_status" json:"status"`
	CreatedBy    string            `gorm:"type:varchar(191)" json:"createdBy"`
	CreatedAt    time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func (Contract) TableName() string {
	return "contracts"
}

// NewContractFor builds the draft contract for an investment.
func NewContractFor(inv *Investment, id string) *Contract {
	return &Contract{
		ID:           id,
		InvestmentID: inv.ID,
		InvestorID:   inv.InvestorID,
		StartupID:    inv.StartupID,
		Amount:       inv.Amount,
		Type:         inv.Type,
		Terms:        inv.Terms,
		Status:       ContractStatusDraft,
		CreatedBy:    inv.CreatedBy,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.CreatedAt,
	}
}
