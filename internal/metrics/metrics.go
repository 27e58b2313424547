// Package metrics provides lightweight, lock-free counters for tracking
// what a composite builder has done over its lifetime.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks builder statistics.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	buildsTotal       atomic.Int64
	buildFailures     atomic.Int64
	typesMaterialized atomic.Int64
	instancesCreated  atomic.Int64
	stubsBound        atomic.Int64
	cacheHits         atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastBuild    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Build metrics ────────────────────────────────────────────────────

// BuildStarted counts a Build call and stamps its time.
func (c *Collector) BuildStarted() {
	if c == nil {
		return
	}
	c.buildsTotal.Add(1)
	c.mu.Lock()
	c.lastBuild = time.Now()
	c.mu.Unlock()
}

// BuildFailed counts a failed Build and remembers its message.
func (c *Collector) BuildFailed(msg string) {
	if c == nil {
		return
	}
	c.buildFailures.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// BuildsTotal returns the number of Build calls.
func (c *Collector) BuildsTotal() int64 {
	if c == nil {
		return 0
	}
	return c.buildsTotal.Load()
}

// BuildFailures returns the number of failed Build calls.
func (c *Collector) BuildFailures() int64 {
	if c == nil {
		return 0
	}
	return c.buildFailures.Load()
}

// ── Type metrics ─────────────────────────────────────────────────────

// TypeMaterialized records a freshly synthesized composite type.
func (c *Collector) TypeMaterialized() {
	if c == nil {
		return
	}
	c.typesMaterialized.Add(1)
}

// TypesMaterialized returns the number of synthesized types.
func (c *Collector) TypesMaterialized() int64 {
	if c == nil {
		return 0
	}
	return c.typesMaterialized.Load()
}

// CacheHit records a reuse of a cached composite type.
func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.cacheHits.Add(1)
}

// CacheHits returns the number of cache hits.
func (c *Collector) CacheHits() int64 {
	if c == nil {
		return 0
	}
	return c.cacheHits.Load()
}

// ── Instance metrics ─────────────────────────────────────────────────

// InstanceCreated records a bound instance carrying n stubs.
func (c *Collector) InstanceCreated(stubs int) {
	if c == nil {
		return
	}
	c.instancesCreated.Add(1)
	c.stubsBound.Add(int64(stubs))
}

// InstancesCreated returns the number of bound instances.
func (c *Collector) InstancesCreated() int64 {
	if c == nil {
		return 0
	}
	return c.instancesCreated.Load()
}

// StubsBound returns the total number of dispatch stubs bound.
func (c *Collector) StubsBound() int64 {
	if c == nil {
		return 0
	}
	return c.stubsBound.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string `json:"uptime" yaml:"uptime"`
	BuildsTotal       int64  `json:"builds_total" yaml:"builds_total"`
	BuildFailures     int64  `json:"build_failures" yaml:"build_failures"`
	TypesMaterialized int64  `json:"types_materialized" yaml:"types_materialized"`
	InstancesCreated  int64  `json:"instances_created" yaml:"instances_created"`
	StubsBound        int64  `json:"stubs_bound" yaml:"stubs_bound"`
	CacheHits         int64  `json:"cache_hits" yaml:"cache_hits"`
	LastBuild         string `json:"last_build,omitempty" yaml:"last_build,omitempty"`
	LastError         string `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	LastErrorMessage  string `json:"last_error_message,omitempty" yaml:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Second).String(),
		BuildsTotal:       c.buildsTotal.Load(),
		BuildFailures:     c.buildFailures.Load(),
		TypesMaterialized: c.typesMaterialized.Load(),
		InstancesCreated:  c.instancesCreated.Load(),
		StubsBound:        c.stubsBound.Load(),
		CacheHits:         c.cacheHits.Load(),
		LastErrorMessage:  c.lastErrorMsg,
	}
	if !c.lastBuild.IsZero() {
		s.LastBuild = c.lastBuild.Format(time.RFC3339)
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
