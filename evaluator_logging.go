package variant

import "time"

// EvaluatorLogEvent describes an evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Tag      string
	Scope    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithEvaluatorLogger attaches an evaluator logger to the Resolver.
func WithEvaluatorLogger(logger EvaluatorLogger) ResolverOption {
	return func(cfg *resolverConfig) {
		if logger == nil {
			cfg.logger = noopEvaluatorLogger{}
			return
		}
		cfg.logger = logger
	}
}

// LookupLogEvent describes a single registry lookup for logging. Fallback
// names the fallback kind taken ("value", "rule", "eval") and is empty when
// the registry held an entry.
type LookupLogEvent struct {
	Tag      string
	Scope    string
	Found    bool
	Fallback string
	Duration time.Duration
}

// LookupLogger records lookup outcomes.
type LookupLogger interface {
	LogLookup(LookupLogEvent)
}

// LookupLoggerFunc adapts a function to LookupLogger.
type LookupLoggerFunc func(LookupLogEvent)

// LogLookup implements LookupLogger.
func (f LookupLoggerFunc) LogLookup(event LookupLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLookupLogger struct{}

func (noopLookupLogger) LogLookup(LookupLogEvent) {}

// WithLookupLogger attaches a lookup logger to the Resolver.
func WithLookupLogger(logger LookupLogger) ResolverOption {
	return func(cfg *resolverConfig) {
		if logger == nil {
			cfg.lookupLogger = noopLookupLogger{}
			return
		}
		cfg.lookupLogger = logger
	}
}
