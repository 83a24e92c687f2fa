package policy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/open-policy-agent/opa/v1/rego"
)

// regoQuery is the document an overlay module populates. Modules declare
// "package gg" and may define the sets "deny" and "confirm".
const regoQuery = "data.gg"

// Overlay is an optional Rego module consulted after rule evaluation.
// It can only tighten a decision: a non-empty deny set blocks an allowed
// or confirmed command, and a non-empty confirm set turns an allowed
// command into one that needs confirmation.
type Overlay struct {
	name  string
	query rego.PreparedEvalQuery
}

// OverlayResult is the outcome of consulting an overlay.
type OverlayResult struct {
	Decision Decision
	Reasons  []string
}

// LoadOverlay compiles the Rego module at path.
func LoadOverlay(ctx context.Context, path string) (*Overlay, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rego policy %s: %w", path, err)
	}
	o, err := NewOverlay(ctx, path, string(src))
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded rego overlay", "path", path)
	return o, nil
}

// NewOverlay compiles Rego source. name is used in compiler messages.
func NewOverlay(ctx context.Context, name, src string) (*Overlay, error) {
	r := rego.New(
		rego.Query(regoQuery),
		rego.Module(name, src),
	)
	pq, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("preparing rego policy %s: %w", name, err)
	}
	return &Overlay{name: name, query: pq}, nil
}

// Apply evaluates the overlay for an invocation already decided as d.
func (o *Overlay) Apply(ctx context.Context, tool Tool, args []string, d Decision) (OverlayResult, error) {
	res := OverlayResult{Decision: d}
	if d.Blocked() {
		return res, nil
	}

	input := map[string]any{
		"tool":     tool.String(),
		"args":     toAnySlice(args),
		"command":  JoinArgs(args),
		"decision": d.String(),
	}
	rs, err := o.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return res, fmt.Errorf("evaluating rego policy %s: %w", o.name, err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return res, nil
	}
	doc, ok := rs[0].Expressions[0].Value.(map[string]any)
	if !ok {
		return res, nil
	}

	if deny := o.ruleSet(doc, "deny"); len(deny) > 0 {
		res.Decision = DecisionDeny
		res.Reasons = deny
		return res, nil
	}
	if confirm := o.ruleSet(doc, "confirm"); len(confirm) > 0 && d == DecisionAllow {
		res.Decision = DecisionConfirm
		res.Reasons = confirm
	}
	return res, nil
}

func toAnySlice(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

// ruleSet returns the messages of the named set rule. A rule of any
// other shape is reported and ignored.
func (o *Overlay) ruleSet(doc map[string]any, name string) []string {
	v, ok := doc[name]
	if !ok {
		return nil
	}
	if _, ok := v.([]any); !ok {
		slog.Warn("rego overlay rule is not a set, ignoring it",
			"policy", o.name, "rule", name, "type", fmt.Sprintf("%T", v))
		return nil
	}
	return stringSet(v)
}

// stringSet renders a Rego set (decoded as a slice) as sorted strings.
func stringSet(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprint(it))
	}
	sort.Strings(out)
	return out
}
