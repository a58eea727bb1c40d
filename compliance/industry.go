package compliance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masood0319/Startups-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MsgInvalidStartupID = "Invalid startupId"
	MsgStartupNotFound  = "Startup not found"
	MsgIndustryBlocked  = "Investment blocked: industry not Shariah-compliant"
)

// StartupFinder loads a startup by id. A missing startup is reported as gorm.ErrRecordNotFound.
type StartupFinder interface {
	FindStartup(ctx context.Context, id string) (*models.Startup, error)
}

// ComplianceError is a rejection produced by the industry screen.
type ComplianceError struct {
	Message  string
	NotFound bool
}

func (e *ComplianceError) Error() string { return e.Message }

// IndustryScreen gates investments into startups whose declared industries are excluded.
type IndustryScreen struct {
	excluded map[string]struct{}
	startups StartupFinder
	gate     StartupFinder
}

func NewIndustryScreen(p Policy, startups StartupFinder) *IndustryScreen {
	p = p.WithDefaults()
	ex := make(map[string]struct{}, len(p.ExcludedIndustries))
	for _, i := range p.ExcludedIndustries {
		ex[strings.ToLower(i)] = struct{}{}
	}
	return &IndustryScreen{excluded: ex, startups: startups, gate: startups}
}

// WithGate returns a copy of the screen whose Gate reads startups from f.
// Serve passes the uncached store so a changed industry blocks writes at once.
func (s *IndustryScreen) WithGate(f StartupFinder) *IndustryScreen {
	cp := *s
	cp.gate = f
	return &cp
}

// Allowed reports whether none of the startup's industries is excluded.
func (s *IndustryScreen) Allowed(st *models.Startup) bool {
	return len(s.Blocked(st)) == 0
}

// Blocked returns the startup's industries that hit the exclusion list.
func (s *IndustryScreen) Blocked(st *models.Startup) []string {
	var hits []string
	for _, i := range st.IndustrySet() {
		if _, ok := s.excluded[i]; ok {
			hits = append(hits, i)
		}
	}
	return hits
}

// Screen resolves the startup and checks it against the exclusion list.
// Rejections are *ComplianceError; any other error comes from the finder. A
// blocked startup is still returned alongside its error.
func (s *IndustryScreen) Screen(ctx context.Context, startupID string) (*models.Startup, error) {
	return s.screen(ctx, s.startups, startupID)
}

// Gate is Screen for the write path. It reads through the gate finder.
func (s *IndustryScreen) Gate(ctx context.Context, startupID string) (*models.Startup, error) {
	return s.screen(ctx, s.gate, startupID)
}

func (s *IndustryScreen) screen(ctx context.Context, finder StartupFinder, startupID string) (*models.Startup, error) {
	if _, err := uuid.Parse(startupID); err != nil {
		return nil, &ComplianceError{Message: MsgInvalidStartupID, NotFound: true}
	}
	st, err := finder.FindStartup(ctx, startupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ComplianceError{Message: MsgStartupNotFound, NotFound: true}
		}
		return nil, fmt.Errorf("load startup %s: %w", startupID, err)
	}
	if !s.Allowed(st) {
		return st, &ComplianceError{Message: MsgIndustryBlocked}
	}
	return st, nil
}
