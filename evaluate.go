package variant

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("variant: evaluator not configured")

// Evaluate executes expr against the registry snapshot using the configured
// evaluator and wraps the result.
func (r *Resolver[K, V]) Evaluate(expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := r.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	ctx := RuleContext{Snapshot: r.snapshotBinding()}.withDefaultScope(r.cfg.scope).withDefaultNow().withDefaultMaps()
	return r.evaluateContext(evaluator, ctx, expr)
}

// EvaluateWith executes expr using ctx, falling back to the registry snapshot
// when ctx.Snapshot is nil.
func (r *Resolver[K, V]) EvaluateWith(ctx RuleContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, fmt.Errorf("expression must not be empty")
	}
	evaluator, err := r.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = r.snapshotBinding()
	}
	ctx = ctx.withDefaultScope(r.cfg.scope).withDefaultNow().withDefaultMaps()
	return r.evaluateContext(evaluator, ctx, expr)
}

func (r *Resolver[K, V]) evaluateContext(evaluator Evaluator, ctx RuleContext, expr string) (Response[any], error) {
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError("", expr, ctx.scopeLabel(), evalErr)
	r.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Tag:      ctx.tagBinding(),
		Scope:    ctx.scopeLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

func (r *Resolver[K, V]) resolveEvaluator() (Evaluator, error) {
	evaluator := r.evaluatorInstance()
	if evaluator != nil {
		return evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := r.programCache(); cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := r.functionRegistry(); registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	r.withEvaluator(defaultEvaluator)
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*variant.exprEvaluator":
		return "expr"
	case "*variant.celEvaluator":
		return "cel"
	case "*variant.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
