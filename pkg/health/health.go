package health

import (
	"context"
	"time"
)

// Result represents the outcome of a health check.
type Result struct {
	Healthy   bool
	Message   string
	CheckedAt time.Time
}

// Checker is implemented by anything the admin /healthz endpoint can poll
// for current status. Handlers register one Checker backed by their ring
// manager's Running method.
type Checker interface {
	Check(ctx context.Context) Result
	Name() string
}

// RunningFunc adapts a plain "is it running" predicate, such as a
// *ringmgr.Manager's Running method, into a Checker.
type RunningFunc struct {
	CheckerName string
	Fn          func() bool
}

// Check implements Checker.
func (r RunningFunc) Check(ctx context.Context) Result {
	now := time.Now()
	if r.Fn() {
		return Result{Healthy: true, Message: "running", CheckedAt: now}
	}
	return Result{Healthy: false, Message: "not running", CheckedAt: now}
}

// Name implements Checker.
func (r RunningFunc) Name() string {
	return r.CheckerName
}

// Aggregate runs every Checker and reports overall health: healthy only if
// every Checker is healthy.
func Aggregate(ctx context.Context, checkers []Checker) (bool, map[string]Result) {
	results := make(map[string]Result, len(checkers))
	healthy := true
	for _, c := range checkers {
		res := c.Check(ctx)
		results[c.Name()] = res
		if !res.Healthy {
			healthy = false
		}
	}
	return healthy, results
}
