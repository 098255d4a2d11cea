// Package service contains the business logic for the aggregation and
// moderation ledger.
package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger serializes every read-modify-write cycle against the derived
// aggregates (vote tallies, reaction summaries, poll counts, report
// collapse). All engine services and the retention sweeper share one
// instance, so concurrent mutations of the same target never interleave
// between the read and the recompute.
type Ledger struct {
	mu sync.Mutex
}

// NewLedger returns a new Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Lock acquires the ledger write lock.
func (l *Ledger) Lock() {
	l.mu.Lock()
}

// Unlock releases the ledger write lock.
func (l *Ledger) Unlock() {
	l.mu.Unlock()
}

func newID() string {
	return uuid.NewString()
}

func nowUnix() int64 {
	return time.Now().Unix()
}
