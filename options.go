package formula

import (
	"errors"
	"log/slog"
)

const (
	// DefaultMaxDepth is the default maximum number of values on an
	// Evaluator's stack.
	DefaultMaxDepth = 100
	// DefaultMaxNesting is the default maximum depth of parentheses and
	// function call argument lists.
	DefaultMaxNesting = 64
)

// config holds the settings an Evaluator is created with.
type config struct {
	// handler receives the evaluator's log records. nil means slog.Default.
	handler slog.Handler
	// maxDepth is the value stack bound.
	maxDepth int
	// maxNesting is the bracket nesting bound.
	maxNesting int
	// nodefaults disables the default functions.
	nodefaults bool
}

func defaultConfig() *config {
	return &config{
		maxDepth:   DefaultMaxDepth,
		maxNesting: DefaultMaxNesting,
	}
}

// Option is an option for creating an Evaluator.
type Option func(*config) error

// WithMaxDepth sets the maximum number of values on the evaluator's stack.
// Exceeding it fails evaluation with an *OverflowError.
func WithMaxDepth(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.New("maximum stack depth must be positive")
		}
		c.maxDepth = n
		return nil
	}
}

// WithMaxNesting sets the maximum depth of nested parentheses and function
// calls. Exceeding it fails evaluation with a *NestingError.
func WithMaxNesting(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.New("maximum nesting depth must be positive")
		}
		c.maxNesting = n
		return nil
	}
}

// WithLogger sets the handler for the evaluator's debug logging. A nil handler
// leaves the default, which is slog.Default.
func WithLogger(handler slog.Handler) Option {
	return func(c *config) error {
		if handler != nil {
			c.handler = handler
		}
		return nil
	}
}

// WithoutDefaultFuncs creates the evaluator with no functions registered.
// Constants remain available.
func WithoutDefaultFuncs() Option {
	return func(c *config) error {
		c.nodefaults = true
		return nil
	}
}

func (c *config) logger() *slog.Logger {
	if c.handler == nil {
		return slog.Default()
	}
	return slog.New(c.handler)
}
