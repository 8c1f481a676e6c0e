package safety

import (
	"fmt"
	"strings"

	"purgeall/internal/model"
)

// Verdict is the evaluator outcome for one (identifier, count) pair.
// Reason carries the first failing rule's message when not allowed.
type Verdict struct {
	Allowed bool
	Reason  string
}

// Policy evaluates deletion requests against a loaded configuration.
// Read-only after construction; reloading means constructing a new one.
type Policy struct {
	cfg            Config
	excludedApps   map[string]bool
	excludedModels map[string]bool
}

// NewPolicy builds a Policy from configuration. Exclusion matching is
// case-insensitive.
func NewPolicy(cfg *Config) *Policy {
	p := &Policy{
		cfg:            *cfg,
		excludedApps:   make(map[string]bool, len(cfg.ExcludedApps)),
		excludedModels: make(map[string]bool, len(cfg.ExcludedModels)),
	}
	for _, app := range cfg.ExcludedApps {
		p.excludedApps[strings.ToLower(app)] = true
	}
	for _, m := range cfg.ExcludedModels {
		p.excludedModels[strings.ToLower(m)] = true
	}
	return p
}

// LoadPolicy loads configuration from path and constructs a Policy.
func LoadPolicy(path string, opts LoadOptions) (*Policy, error) {
	cfg, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	return NewPolicy(cfg), nil
}

// Evaluate applies the safety rules in order (first failing rule wins):
//  1. Policy disabled
//  2. Namespace excluded
//  3. Model excluded
//  4. Count above the no-confirmation ceiling
func (p *Policy) Evaluate(id model.Identifier, count int64) Verdict {
	if !p.cfg.Enabled {
		return Verdict{Reason: "bulk deletion is disabled"}
	}
	if p.excludedApps[strings.ToLower(id.Namespace)] {
		return Verdict{Reason: fmt.Sprintf("namespace %q is excluded", id.Namespace)}
	}
	if p.excludedModels[strings.ToLower(id.String())] {
		return Verdict{Reason: fmt.Sprintf("model %q is excluded", id.String())}
	}
	if count > p.cfg.MaxObjectsWithoutConfirmation {
		return Verdict{Reason: fmt.Sprintf("too many objects (%d): maximum allowed without confirmation is %d",
			count, p.cfg.MaxObjectsWithoutConfirmation)}
	}
	return Verdict{Allowed: true}
}

// RequiresConfirmation reports whether a deletion of count records needs
// an explicit confirmation. A non-blocking signal for front-ends; it is
// independent of the Evaluate outcome.
func (p *Policy) RequiresConfirmation(count int64) bool {
	return count > p.cfg.RequireConfirmationAbove
}

// Enabled reports whether bulk deletion is enabled after overrides.
func (p *Policy) Enabled() bool { return p.cfg.Enabled }

// Config returns a copy of the underlying configuration.
func (p *Policy) Config() Config { return p.cfg }
