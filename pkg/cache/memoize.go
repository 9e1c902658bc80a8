package cache

import (
	"github.com/apex/log"
)

// Func is the call shape wrapped by Memoize: positional arguments plus
// optional named arguments. Both are part of the cache fingerprint.
type Func func(args []any, named map[string]any) (any, error)

// Memoized wraps a function with lookup-then-store caching. The table file is
// keyed by the name given at construction, so the wrapper carries the
// function's identity explicitly.
type Memoized struct {
	m           *Manager
	name        string
	fn          Func
	receiverArg bool
}

type MemoizeOption func(*Memoized)

// WithReceiverArg declares that the first positional argument is a receiver
// (an object the function is invoked on) whose identity is irrelevant to the
// result. It is excluded from the fingerprint unless it is a primitive value.
// This is a deliberate opt-in: by default every argument participates.
func WithReceiverArg() MemoizeOption {
	return func(c *Memoized) {
		c.receiverArg = true
	}
}

// Memoize returns a cached wrapper around fn whose table is named after name.
func (m *Manager) Memoize(name string, fn Func, opts ...MemoizeOption) *Memoized {
	c := &Memoized{m: m, name: name, fn: fn}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the function name the table file is keyed by.
func (c *Memoized) Name() string {
	return c.name
}

// Call invokes the wrapped function with positional arguments only. The
// boolean reports whether the result was served from the cache.
func (c *Memoized) Call(args ...any) (any, bool, error) {
	return c.CallNamed(args, nil)
}

// CallNamed invokes the wrapped function with positional and named arguments.
// On a miss the result is computed and stored; a failed store is logged and
// dropped, since losing a cache write should only cost performance.
func (c *Memoized) CallNamed(args []any, named map[string]any) (any, bool, error) {
	keyArgs := args
	if c.receiverArg && len(args) > 0 && !isPrimitive(args[0]) {
		keyArgs = args[1:]
	}

	cached, ok, err := c.m.Lookup(c.name, keyArgs, named)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return cached, true, nil
	}

	result, err := c.fn(args, named)
	if err != nil {
		return nil, false, err
	}
	if err := c.m.Store(c.name, keyArgs, named, result); err != nil {
		log.WithError(err).Warnf("cache: dropping result of %q", c.name)
	}
	return result, false, nil
}

// CallRecord is the record-shaped alternative to Call's paired boolean.
type CallRecord struct {
	Result    any  `json:"result"`
	FromCache bool `json:"isFromCache"`
}

// Record invokes the wrapped function and reports the outcome as a record
// with named fields, for call sites that prefer that shape.
func (c *Memoized) Record(args ...any) (*CallRecord, error) {
	return c.RecordNamed(args, nil)
}

// RecordNamed is Record with named arguments.
func (c *Memoized) RecordNamed(args []any, named map[string]any) (*CallRecord, error) {
	result, fromCache, err := c.CallNamed(args, named)
	if err != nil {
		return nil, err
	}
	return &CallRecord{Result: result, FromCache: fromCache}, nil
}
