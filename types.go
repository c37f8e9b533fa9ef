package variant

import (
	"fmt"
	"time"

	"github.com/goliatone/go-variant/pkg/activity"
)

// Resolver wraps a registry with fallback, evaluator, and observability
// configuration. It is the read-side façade: lookups resolve against the
// registry first, then against the configured defaults.
type Resolver[K comparable, V any] struct {
	registry *Registry[K, V]

	cfg    resolverConfig
	layers []layerSnapshot
}

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents the flattened field descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatOpenAPI represents OpenAPI-compatible tagged-union documents.
	SchemaFormatOpenAPI SchemaFormat = "openapi"
)

// SchemaDocument encapsulates a generated schema output alongside its format
// identifier. Implementations must ensure Document is JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
	Scopes   []SchemaScope
}

// SchemaScope describes a single scope entry included in a schema document.
type SchemaScope struct {
	Name       string         `json:"name"`
	Label      string         `json:"label,omitempty"`
	Priority   int            `json:"priority"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	SnapshotID string         `json:"snapshot_id,omitempty"`
}

// SchemaGenerator transforms a registry snapshot into a schema document. All
// implementations MUST be safe for concurrent use and handle nil inputs by
// returning an empty schema document.
type SchemaGenerator interface {
	Generate(value any) (SchemaDocument, error)
}

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// RuleContext carries inputs needed when evaluating a default rule. Tag is
// the queried tag; Present reports whether the registry held an entry for it.
type RuleContext struct {
	Tag       any
	Present   bool
	Snapshot  any
	Now       *time.Time
	Args      map[string]any
	Metadata  map[string]any
	Scope     Scope
	ScopeName string
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) withDefaultScope(scope Scope) RuleContext {
	if ctx.Scope.isZero() && !scope.isZero() {
		ctx.Scope = scope.clone()
	}
	if ctx.ScopeName == "" && ctx.Scope.Name != "" {
		ctx.ScopeName = ctx.Scope.Name
	}
	return ctx
}

func (ctx RuleContext) scopeLabel() string {
	if ctx.Scope.Name != "" {
		return ctx.Scope.Name
	}
	if ctx.ScopeName != "" {
		return ctx.ScopeName
	}
	return "unknown"
}

func (ctx RuleContext) scopeBinding() map[string]any {
	if binding := scopeToBinding(ctx.Scope); binding != nil {
		return binding
	}
	if ctx.ScopeName == "" {
		return nil
	}
	return map[string]any{"name": ctx.ScopeName}
}

func (ctx RuleContext) tagBinding() string {
	if ctx.Tag == nil {
		return ""
	}
	return fmt.Sprint(ctx.Tag)
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// ResolverOption configures a Resolver at construction.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	logger          EvaluatorLogger
	lookupLogger    LookupLogger
	schemaGenerator SchemaGenerator
	scope           Scope
	scopeSchema     bool
	activityHooks   activity.Hooks
	defaultRule     string
}

func applyResolverOptions(opts []ResolverOption) resolverConfig {
	cfg := resolverConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (r *Resolver[K, V]) evaluatorInstance() Evaluator {
	return r.cfg.evaluator
}

func (r *Resolver[K, V]) withEvaluator(e Evaluator) {
	r.cfg.evaluator = e
}

func (r *Resolver[K, V]) programCache() ProgramCache {
	return r.cfg.programCache
}

func (r *Resolver[K, V]) functionRegistry() *FunctionRegistry {
	return r.cfg.functions
}

func (r *Resolver[K, V]) evaluatorLogger() EvaluatorLogger {
	if r.cfg.logger != nil {
		return r.cfg.logger
	}
	return noopEvaluatorLogger{}
}

func (r *Resolver[K, V]) lookupLogger() LookupLogger {
	if r.cfg.lookupLogger != nil {
		return r.cfg.lookupLogger
	}
	return noopLookupLogger{}
}

// WithSchemaGenerator configures a custom schema generator implementation.
func WithSchemaGenerator(generator SchemaGenerator) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.schemaGenerator = generator
	}
}

// WithScope configures the default scope metadata applied to evaluator contexts.
func WithScope(scope Scope) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.scope = scope.clone()
	}
}

// WithScopeSchema toggles inclusion of scope metadata within generated schemas.
func WithScopeSchema(include bool) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.scopeSchema = include
	}
}

// WithDefaultRule configures an expression evaluated to produce the fallback
// for tags absent from the registry.
func WithDefaultRule(expr string) ResolverOption {
	return func(cfg *resolverConfig) {
		cfg.defaultRule = expr
	}
}

func scopeToBinding(scope Scope) map[string]any {
	if scope.isZero() {
		return nil
	}
	binding := map[string]any{
		"name":     scope.Name,
		"label":    scope.Label,
		"priority": scope.Priority,
	}
	if len(scope.Metadata) > 0 {
		binding["metadata"] = copyMetadata(scope.Metadata)
	}
	return binding
}

func (r *Resolver[K, V]) schemaGenerator() SchemaGenerator {
	if r == nil {
		return DefaultSchemaGenerator()
	}
	if r.cfg.schemaGenerator != nil {
		return r.cfg.schemaGenerator
	}
	return DefaultSchemaGenerator()
}

func (r *Resolver[K, V]) attachLayers(layers []layerSnapshot) {
	if r == nil || len(layers) == 0 {
		return
	}
	r.layers = layers
}
