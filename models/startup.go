package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Startup is owned by the startup onboarding flow; this service only reads the
// industry fields when screening investments.
type Startup struct {
	ID         string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name       string                      `gorm:"type:varchar(191);index" json:"name"`
	Industry   string                      `gorm:"type:varchar(191);index" json:"industry,omitempty"`
	Industries datatypes.JSONSlice[string] `json:"industries,omitempty"`
	Status     string                      `gorm:"type:varchar(32);default:'pending'" json:"status"`
	CreatedAt  time.Time                   `json:"createdAt"`
	UpdatedAt  time.Time                   `json:"updatedAt"`
}

func (Startup) TableName() string {
	return "startups"
}

// IndustrySet returns the lower-cased union of Industry and Industries.
func (s *Startup) IndustrySet() []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(v string) {
		v = strings.ToLower(v)
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if s.Industry != "" {
		add(s.Industry)
	}
	for _, i := range s.Industries {
		add(i)
	}
	return out
}
