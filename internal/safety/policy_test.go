package safety

import (
	"strings"
	"testing"

	"purgeall/internal/model"
)

func id(ns, name string) model.Identifier {
	return model.Identifier{Namespace: ns, Name: name}
}

func TestEvaluateAllowsWithinLimits(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	v := p.Evaluate(id("shop", "order"), 50)
	if !v.Allowed {
		t.Fatalf("expected allowed, got blocked: %s", v.Reason)
	}
	if v.Reason != "" {
		t.Errorf("allowed verdict should carry no reason, got %q", v.Reason)
	}
}

func TestEvaluateBlocksWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	p := NewPolicy(cfg)

	v := p.Evaluate(id("shop", "order"), 1)
	if v.Allowed {
		t.Fatal("expected blocked")
	}
	if v.Reason != "bulk deletion is disabled" {
		t.Errorf("unexpected reason: %q", v.Reason)
	}
}

func TestEvaluateBlocksExcludedNamespace(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	// Exclusion wins even for an empty collection.
	v := p.Evaluate(id("auth", "user"), 0)
	if v.Allowed {
		t.Fatal("expected blocked")
	}
	if v.Reason != `namespace "auth" is excluded` {
		t.Errorf("unexpected reason: %q", v.Reason)
	}
}

func TestEvaluateBlocksExcludedModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludedModels = []string{"shop.payment"}
	p := NewPolicy(cfg)

	v := p.Evaluate(id("shop", "payment"), 1)
	if v.Allowed {
		t.Fatal("expected blocked")
	}
	if v.Reason != `model "shop.payment" is excluded` {
		t.Errorf("unexpected reason: %q", v.Reason)
	}

	// Sibling model in the same namespace is unaffected.
	if v := p.Evaluate(id("shop", "order"), 1); !v.Allowed {
		t.Errorf("sibling model should be allowed, got: %s", v.Reason)
	}
}

func TestEvaluateBlocksAboveCeiling(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	v := p.Evaluate(id("shop", "order"), 101)
	if v.Allowed {
		t.Fatal("expected blocked")
	}
	want := "too many objects (101): maximum allowed without confirmation is 100"
	if v.Reason != want {
		t.Errorf("unexpected reason: %q", v.Reason)
	}

	// Exactly at the ceiling is allowed.
	if v := p.Evaluate(id("shop", "order"), 100); !v.Allowed {
		t.Errorf("count at ceiling should be allowed, got: %s", v.Reason)
	}
}

func TestEvaluateRuleOrder(t *testing.T) {
	// All four rules fail at once; the first must win.
	cfg := DefaultConfig()
	cfg.Enabled = false
	cfg.ExcludedModels = []string{"auth.user"}
	p := NewPolicy(cfg)

	v := p.Evaluate(id("auth", "user"), 10000)
	if v.Reason != "bulk deletion is disabled" {
		t.Errorf("disabled rule should win, got: %q", v.Reason)
	}

	// With enabled back on, the namespace rule wins over model and count.
	cfg2 := DefaultConfig()
	cfg2.ExcludedModels = []string{"auth.user"}
	p2 := NewPolicy(cfg2)
	v2 := p2.Evaluate(id("auth", "user"), 10000)
	if !strings.Contains(v2.Reason, "namespace") {
		t.Errorf("namespace rule should win, got: %q", v2.Reason)
	}
}

func TestEvaluateExclusionsCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludedModels = []string{"Shop.Payment"}
	p := NewPolicy(cfg)

	if v := p.Evaluate(id("AUTH", "user"), 1); v.Allowed {
		t.Error("uppercase namespace should still match exclusion")
	}
	if v := p.Evaluate(id("shop", "payment"), 1); v.Allowed {
		t.Error("lowercase model should match mixed-case exclusion")
	}
}

func TestRequiresConfirmation(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	if p.RequiresConfirmation(10) {
		t.Error("count at threshold should not require confirmation")
	}
	if !p.RequiresConfirmation(11) {
		t.Error("count above threshold should require confirmation")
	}
}

func TestRequiresConfirmationIndependentOfEvaluate(t *testing.T) {
	// The confirmation signal is computed even for counts Evaluate would
	// block, and for disabled policies.
	cfg := DefaultConfig()
	cfg.Enabled = false
	p := NewPolicy(cfg)

	if !p.RequiresConfirmation(500) {
		t.Error("confirmation signal should not depend on the enabled flag")
	}
	if v := p.Evaluate(id("shop", "order"), 500); v.Allowed {
		t.Error("sanity: 500 should be blocked")
	}
}
