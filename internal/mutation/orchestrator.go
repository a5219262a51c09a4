package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"scenebridge/internal/config"
	"scenebridge/internal/property"
	"scenebridge/internal/scene"
	"scenebridge/internal/store"
)

// Orchestrator runs property mutations against a host:
// guard, analyze, coerce, resolve, plan, write, verify.
type Orchestrator struct {
	host     scene.Host
	hints    *config.Hints
	journal  store.Store
	logger   *slog.Logger
	ids      RequestIDGenerator
	resolver property.Resolver
	verifier property.Verifier
	now      func() time.Time
}

type Option func(*Orchestrator)

func WithHints(h *config.Hints) Option {
	return func(o *Orchestrator) {
		if h != nil {
			o.hints = h
		}
	}
}

func WithJournal(s store.Store) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.journal = s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithRequestIDs(g RequestIDGenerator) Option {
	return func(o *Orchestrator) {
		if g != nil {
			o.ids = g
		}
	}
}

func WithVerifyDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.verifier.Delay = d }
}

// WithVerifyWait replaces the timer used before verification.
func WithVerifyWait(after func(time.Duration) <-chan time.Time) Option {
	return func(o *Orchestrator) { o.verifier.After = after }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func New(host scene.Host, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		host:    host,
		hints:   config.DefaultHints(),
		journal: store.Nop{},
		logger:  slog.Default(),
		ids:     UUIDv7Generator{},
		now:     time.Now,
	}
	o.verifier = property.Verifier{Host: host, Delay: property.DefaultVerifyDelay}
	for _, opt := range opts {
		opt(o)
	}
	o.resolver = property.Resolver{Host: host, GenericBases: o.hints.GenericBases}
	return o
}

// trace collects what the journal records about one mutation.
type trace struct {
	propertyType property.SemanticType
	coerced      any
	actual       any
	verified     bool
}

// SetComponentProperty sets one property and reports the outcome. Every
// outcome is journaled; journal failures are logged and otherwise ignored.
func (o *Orchestrator) SetComponentProperty(ctx context.Context, req Request) Result {
	id := o.ids.Generate()
	log := o.logger.With(
		"request_id", id,
		"node", req.Node,
		"component", req.ComponentType,
		"property", req.Property,
	)
	start := o.now()

	var tr trace
	res := o.run(ctx, log, req, &tr)
	res.RequestID = id
	elapsed := o.now().Sub(start)

	if res.Success {
		log.Info("property set", "type", tr.propertyType, "verified", tr.verified, "duration", elapsed)
	} else {
		log.Warn("property mutation failed", "code", res.Code, "error", res.Error)
	}

	rec := store.MutationRecord{
		RequestID:     id,
		Node:          req.Node,
		ComponentType: req.ComponentType,
		Property:      req.Property,
		PropertyType:  string(tr.propertyType),
		Requested:     scene.JSONSafe(req.Value),
		Coerced:       scene.JSONSafe(tr.coerced),
		Actual:        scene.JSONSafe(tr.actual),
		Success:       res.Success,
		Verified:      tr.verified,
		ErrorCode:     string(res.Code),
		Message:       res.Message,
		Duration:      elapsed,
		CreatedAt:     start,
	}
	if !res.Success {
		rec.Message = res.Error
	}
	if err := o.journal.RecordMutation(context.WithoutCancel(ctx), rec); err != nil {
		log.Error("recording mutation", "error", err)
	}
	return res
}

func (o *Orchestrator) run(ctx context.Context, log *slog.Logger, req Request, tr *trace) Result {
	if res, ok := o.checkRequest(req); !ok {
		return res
	}
	if res, ok := o.guard(req); !ok {
		return res
	}

	comps, err := o.host.QueryComponents(ctx, req.Node)
	if err != nil {
		return Result{
			Code:  property.CodeHostError,
			Error: fmt.Sprintf("reading components of node %s: %v", req.Node, err),
		}
	}

	idx, ok := scene.FindComponent(comps, req.ComponentType)
	if !ok {
		available := scene.ComponentTypes(comps)
		return Result{
			Code: property.CodeComponentNotFound,
			Error: fmt.Sprintf("component %s not found on node %s (available: %s)",
				req.ComponentType, req.Node, strings.Join(available, ", ")),
			Details: map[string]any{"availableComponents": available},
		}
	}
	comp := comps[idx]

	analysis := property.Analyze(comp, req.Property)
	log.Debug("property analyzed", "exists", analysis.Exists, "inferred_type", analysis.Type)
	if !analysis.Exists {
		return o.propertyNotFound(req, comps, comp, analysis)
	}

	t, res, ok := o.mutationType(log, req, analysis)
	if !ok {
		return res
	}
	tr.propertyType = t

	coerced, err := property.Coerce(t, req.Value, analysis.OriginalValue)
	if err != nil {
		return failure(err)
	}
	tr.coerced = coerced
	log.Debug("value coerced", "type", t)

	value := coerced
	var resolution property.Resolution
	if t == property.TypeComponentRef && coerced != nil {
		target, _ := coerced.(string)
		resolution, err = o.resolver.Resolve(ctx, property.ResolveRequest{
			Node:       req.Node,
			Component:  comp,
			Property:   req.Property,
			TargetNode: target,
		})
		if err != nil {
			return failure(err)
		}
		value = map[string]any{scene.IdentityKey: resolution.SceneLocalID}
		tr.coerced = value
		log.Debug("reference resolved", "expected_type", resolution.ExpectedType, "scene_local_id", resolution.SceneLocalID)
	}

	if err := property.CheckComposite(req.Property, value); err != nil {
		return failure(err)
	}
	plan := property.Plan(idx, req.Property, t, value, resolution.ExpectedType)
	if err := property.Execute(ctx, o.host, req.Node, plan); err != nil {
		return failure(err)
	}
	log.Debug("writes issued", "count", len(plan))

	outcome := o.verifier.Verify(ctx, property.VerifyRequest{
		Node:           req.Node,
		ComponentIndex: idx,
		ComponentType:  comp.Type,
		Property:       req.Property,
		Expected:       value,
	})
	tr.actual = outcome.Actual
	tr.verified = outcome.Verified
	if !outcome.Verified {
		log.Warn("write not verified", "expected", scene.JSONSafe(value), "actual", scene.JSONSafe(outcome.Actual), "error", outcome.Err)
	}

	data := &Data{
		ActualValue:    scene.JSONSafe(outcome.Actual),
		ExpectedValue:  scene.JSONSafe(value),
		ChangeVerified: outcome.Verified,
		PropertyType:   t,
		ComponentIndex: idx,
		SceneLocalID:   resolution.SceneLocalID,
	}
	for _, w := range plan {
		data.Writes = append(data.Writes, w.Path.String())
	}
	if outcome.Err != nil {
		data.VerifyError = outcome.Err.Error()
	}

	msg := fmt.Sprintf("set %s.%s on node %s", comp.Type, req.Property, req.Node)
	if !outcome.Verified {
		msg += " (change not verified)"
	}
	return Result{Success: true, Message: msg, Data: data}
}

func (o *Orchestrator) checkRequest(req Request) (Result, bool) {
	var missing []string
	if strings.TrimSpace(req.Node) == "" {
		missing = append(missing, "nodeUuid")
	}
	if strings.TrimSpace(req.ComponentType) == "" {
		missing = append(missing, "componentType")
	}
	if strings.TrimSpace(req.Property) == "" {
		missing = append(missing, "property")
	}
	if len(missing) > 0 {
		return Result{
			Code:    property.CodeInvalidRequest,
			Error:   "missing required fields: " + strings.Join(missing, ", "),
			Details: map[string]any{"missing": missing},
		}, false
	}
	return Result{}, true
}

// guard refuses node-level properties addressed through the node type and
// names the tool that handles them.
func (o *Orchestrator) guard(req Request) (Result, bool) {
	if !o.hints.IsNodeType(req.ComponentType) {
		return Result{}, true
	}
	np, ok := o.hints.NodeProperty(req.Property)
	if !ok {
		return Result{}, true
	}
	return Result{
		Code:        property.CodeMisroutedProperty,
		Error:       fmt.Sprintf("%q is a node property, not a component property", req.Property),
		Instruction: fmt.Sprintf("use the %s tool to set %q on node %s", np.Tool, req.Property, req.Node),
		Details:     map[string]any{"tool": np.Tool, "property": req.Property},
	}, false
}

func (o *Orchestrator) propertyNotFound(req Request, comps []scene.ComponentSnapshot, comp scene.ComponentSnapshot, a property.Analysis) Result {
	similar := similarNames(req.Property, a.AvailableNames)
	suggested := suggestComponents(o.hints, comps, comp.Type, req.Property)

	res := Result{
		Code: property.CodePropertyNotFound,
		Error: fmt.Sprintf("property %q not found on %s (available: %s)",
			req.Property, comp.Type, strings.Join(a.AvailableNames, ", ")),
		Details: map[string]any{
			"availableProperties": a.AvailableNames,
			"inferredType":        string(a.Type),
			"similarProperties":   similar,
			"suggestedComponents": suggested,
		},
	}
	switch {
	case len(suggested) > 0:
		res.Instruction = fmt.Sprintf("did you mean component %s? %q is usually set there", suggested[0], req.Property)
	case len(similar) > 0:
		res.Instruction = fmt.Sprintf("did you mean property %q?", similar[0])
	}
	return res
}

// mutationType fixes the semantic type used for the rest of the mutation.
func (o *Orchestrator) mutationType(log *slog.Logger, req Request, a property.Analysis) (property.SemanticType, Result, bool) {
	if strings.TrimSpace(req.PropertyType) == "" {
		return a.Type, Result{}, true
	}
	t, ok := property.ParseSemanticType(req.PropertyType)
	if !ok {
		return "", Result{
			Code:    property.CodeTypeCoercion,
			Error:   fmt.Sprintf("unknown property type %q", req.PropertyType),
			Details: map[string]any{"propertyType": req.PropertyType, "inferredType": string(a.Type)},
		}, false
	}
	if a.Type != property.TypeUnknown && a.Type != t {
		log.Warn("caller type differs from inferred type", "caller_type", t, "inferred_type", a.Type)
	}
	return t, Result{}, true
}
