// Package invoker orchestrates one deletion: policy check, audit,
// confirmation, the host delete call, and the outcome. Single-threaded
// per invocation; invocations do not coordinate with each other.
package invoker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"purgeall/internal/audit"
	"purgeall/internal/model"
	"purgeall/internal/safety"
)

// State of a deletion invocation. Transitions are linear:
// Idle → PolicyChecked → {Blocked, Confirming} → {Cancelled, Deleting}
// → {Succeeded, Failed}. Dry runs terminate from PolicyChecked or
// Confirming without ever entering Deleting. State is tracked per
// invocation, never on the shared Invoker; transitions surface in debug
// logs and the terminal state as the Outcome kind.
type State string

const (
	StateIdle          State = "idle"
	StatePolicyChecked State = "policy_checked"
	StateBlocked       State = "blocked"
	StateConfirming    State = "confirming"
	StateCancelled     State = "cancelled"
	StateDeleting      State = "deleting"
	StateSucceeded     State = "succeeded"
	StateFailed        State = "failed"
)

// Deleter is the host datastore's bulk-delete capability. It is assumed
// transactional and to cascade by its own relationship rules.
type Deleter interface {
	DeleteAll(ctx context.Context, table string) (int64, map[string]int64, error)
}

// Confirmer answers the confirmation question for a pending deletion.
type Confirmer interface {
	Confirm(id model.Identifier, count int64) (bool, error)
}

// Request describes one deletion invocation.
type Request struct {
	Identifier model.Identifier
	Table      string
	Count      int64
	Actor      string

	// DryRun reports the would-be count and terminates without deleting.
	DryRun bool

	// PreAuthorized skips the Confirming state (--force, or the
	// confirmed second request of the admin flow).
	PreAuthorized bool
}

// Invoker runs deletion requests through the safety policy, audit log,
// and host datastore.
type Invoker struct {
	policy *safety.Policy
	store  Deleter
	audit  *audit.Recorder
	logger *zap.Logger
}

// New builds an Invoker. The policy is read-only; swapping configuration
// means constructing a fresh Invoker. An Invoker holds no per-request
// state, so one instance can serve concurrent invocations.
func New(policy *safety.Policy, store Deleter, rec *audit.Recorder, logger *zap.Logger) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{
		policy: policy,
		store:  store,
		audit:  rec,
		logger: logger,
	}
}

// Run executes one deletion request. The returned Outcome is always
// non-nil except on confirmation transport failure; a non-nil error
// accompanies Blocked and Failed outcomes so front-ends can exit
// accordingly.
func (inv *Invoker) Run(ctx context.Context, req Request, confirm Confirmer) (*model.Outcome, error) {
	// Invocation-local: concurrent runs share nothing but the policy,
	// audit log, and store, which guard themselves.
	step := inv.stepper(req)

	step(StatePolicyChecked)
	verdict := inv.policy.Evaluate(req.Identifier, req.Count)

	// Every attempt is audited, including ones the policy blocks.
	inv.audit.Attempt(req.Identifier, req.Count, req.Actor)

	if !verdict.Allowed {
		step(StateBlocked)
		inv.logger.Info("deletion blocked",
			zap.String("model", req.Identifier.String()),
			zap.String("reason", verdict.Reason))
		return inv.outcome(req, model.KindBlocked, 0, nil, verdict.Reason),
			&BlockedError{Identifier: req.Identifier, Count: req.Count, Reason: verdict.Reason}
	}

	if req.DryRun {
		// Terminal: the host delete call is never reached.
		return inv.outcome(req, model.KindDryRun, 0, nil, ""), nil
	}

	if !req.PreAuthorized {
		step(StateConfirming)
		ok, err := askConfirm(confirm, req)
		if err != nil || !ok {
			step(StateCancelled)
			reason := "cancelled by " + req.Actor
			if err != nil {
				reason = "confirmation unavailable: " + err.Error()
			}
			return inv.outcome(req, model.KindCancelled, 0, nil, reason), nil
		}
	}

	step(StateDeleting)
	deleted, breakdown, err := inv.store.DeleteAll(ctx, req.Table)
	if err != nil {
		step(StateFailed)
		inv.logger.Error("deletion failed",
			zap.String("model", req.Identifier.String()),
			zap.Error(err))
		return inv.outcome(req, model.KindFailed, 0, nil, err.Error()),
			&DeleteError{Identifier: req.Identifier, Err: err}
	}

	inv.audit.Success(req.Identifier, deleted, req.Actor)
	step(StateSucceeded)
	return inv.outcome(req, model.KindSucceeded, deleted, breakdown, ""), nil
}

// stepper returns a transition logger scoped to one invocation.
func (inv *Invoker) stepper(req Request) func(State) {
	return func(s State) {
		inv.logger.Debug("deletion state",
			zap.String("model", req.Identifier.String()),
			zap.String("state", string(s)))
	}
}

func askConfirm(confirm Confirmer, req Request) (bool, error) {
	if confirm == nil {
		return false, nil
	}
	return confirm.Confirm(req.Identifier, req.Count)
}

func (inv *Invoker) outcome(req Request, kind model.OutcomeKind, deleted int64, breakdown map[string]int64, reason string) *model.Outcome {
	return &model.Outcome{
		ID:             uuid.NewString(),
		Identifier:     req.Identifier,
		RequestedCount: req.Count,
		DeletedCount:   deleted,
		Breakdown:      breakdown,
		Actor:          req.Actor,
		Timestamp:      time.Now().UTC(),
		Kind:           kind,
		Reason:         reason,
	}
}
