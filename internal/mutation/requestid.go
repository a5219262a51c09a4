package mutation

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// RequestIDGenerator produces the correlation id attached to every log line
// and journal record of one mutation.
type RequestIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable request ids. Safe for concurrent use.
type UUIDv7Generator struct{}

func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids in order, then "req-<n>" once the
// list is exhausted.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.idx++
	if g.idx <= len(g.ids) {
		return g.ids[g.idx-1]
	}
	return fmt.Sprintf("req-%d", g.idx)
}
