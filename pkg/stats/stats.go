// Package stats accumulates per-category metrics from concurrent workers.
// Values merge by kind: numbers add up, strings are replaced, slices extend,
// maps update.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type Counter struct {
	mu    sync.Mutex
	stats map[string]map[string]any
}

func NewCounter() *Counter {
	return &Counter{stats: map[string]map[string]any{}}
}

// Add merges metrics into the category, creating it on first use.
func (c *Counter) Add(category string, metrics map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.stats[category]
	if !ok {
		bucket = map[string]any{}
		c.stats[category] = bucket
	}
	for name, value := range metrics {
		current, ok := bucket[name]
		if !ok {
			bucket[name] = cloneValue(value)
			continue
		}
		bucket[name] = merge(current, value)
	}
}

// Get returns a copy of one category's metrics; missing categories yield an
// empty map.
func (c *Counter) Get(category string) map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := map[string]any{}
	for name, value := range c.stats[category] {
		copied[name] = value
	}
	return copied
}

// All returns a copy of every category.
func (c *Counter) All() map[string]map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := map[string]map[string]any{}
	for category, bucket := range c.stats {
		inner := map[string]any{}
		for name, value := range bucket {
			inner[name] = value
		}
		copied[category] = inner
	}
	return copied
}

// Has reports whether the category exists.
func (c *Counter) Has(category string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.stats[category]
	return ok
}

// Total returns a numeric metric as an int, zero when absent or non-numeric.
func (c *Counter) Total(category, metric string) int {
	switch v := c.Get(category)[metric].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Clear drops every category.
func (c *Counter) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = map[string]map[string]any{}
}

// ClearCategory drops a single category; absent categories are a no-op.
func (c *Counter) ClearCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stats, category)
}

// Summary renders the counters as a readable block, categories and metrics
// sorted by name.
func (c *Counter) Summary(title string) string {
	all := c.All()
	if title == "" {
		title = "STATS"
	}
	if len(all) == 0 {
		return fmt.Sprintf("%s: no data", title)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", title)

	categories := make([]string, 0, len(all))
	for category := range all {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Fprintf(&sb, "\n%s:\n", strings.ToUpper(category))
		bucket := all[category]
		names := make([]string, 0, len(bucket))
		for name := range bucket {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			switch v := bucket[name].(type) {
			case float64:
				fmt.Fprintf(&sb, "  %s: %.4f\n", name, v)
			default:
				fmt.Fprintf(&sb, "  %s: %v\n", name, v)
			}
		}
	}
	sb.WriteString(strings.Repeat("=", 50))
	return sb.String()
}

// merge combines an existing metric value with a new one. Mismatched kinds
// fall back to replacement.
func merge(current, value any) any {
	switch v := value.(type) {
	case int:
		switch cur := current.(type) {
		case int:
			return cur + v
		case int64:
			return cur + int64(v)
		case float64:
			return cur + float64(v)
		}
	case int64:
		switch cur := current.(type) {
		case int:
			return int64(cur) + v
		case int64:
			return cur + v
		case float64:
			return cur + float64(v)
		}
	case float64:
		switch cur := current.(type) {
		case int:
			return float64(cur) + v
		case int64:
			return float64(cur) + v
		case float64:
			return cur + v
		}
	case []any:
		if cur, ok := current.([]any); ok {
			return append(cur, v...)
		}
	case map[string]any:
		if cur, ok := current.(map[string]any); ok {
			for name, item := range v {
				cur[name] = item
			}
			return cur
		}
	}
	return value
}

// cloneValue protects stored slices and maps from later mutation by the
// caller.
func cloneValue(value any) any {
	switch v := value.(type) {
	case []any:
		return append([]any{}, v...)
	case map[string]any:
		copied := map[string]any{}
		for name, item := range v {
			copied[name] = item
		}
		return copied
	}
	return value
}
