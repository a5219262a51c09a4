package store

import "time"

const DefaultListLimit = 50

type MutationRecord struct {
	ID            int64
	RequestID     string
	Node          string
	ComponentType string
	Property      string
	PropertyType  string
	Requested     any
	Coerced       any
	Actual        any
	Success       bool
	Verified      bool
	ErrorCode     string
	Message       string
	Duration      time.Duration
	CreatedAt     time.Time
}

// MutationFilter narrows ListMutations. Empty fields match everything.
type MutationFilter struct {
	Node     string
	Property string
	Limit    int
}

// EffectiveLimit clamps Limit into [1, 500], defaulting to DefaultListLimit.
func (f MutationFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > 500:
		return 500
	}
	return f.Limit
}
