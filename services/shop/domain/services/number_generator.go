package services

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	JobNumberPrefix     = "JOB-"
	InvoiceNumberPrefix = "INV-"
)

// NumberGenerator issues human-facing record numbers of the form
// <prefix><unix milliseconds>. Within one generator numbers are strictly
// increasing: two calls in the same millisecond yield consecutive values.
// Collisions across processes are caught by the store's unique constraint.
type NumberGenerator struct {
	prefix string
	now    func() time.Time

	mu   sync.Mutex
	last int64
}

// NewNumberGenerator returns a generator for prefix. A nil clock uses time.Now.
func NewNumberGenerator(prefix string, now func() time.Time) *NumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &NumberGenerator{prefix: prefix, now: now}
}

// NewJobNumberGenerator returns a generator for JOB- numbers.
func NewJobNumberGenerator(now func() time.Time) *NumberGenerator {
	return NewNumberGenerator(JobNumberPrefix, now)
}

// NewInvoiceNumberGenerator returns a generator for INV- numbers.
func NewInvoiceNumberGenerator(now func() time.Time) *NumberGenerator {
	return NewNumberGenerator(InvoiceNumberPrefix, now)
}

// Next returns the next number. Safe for concurrent use.
func (g *NumberGenerator) Next() string {
	g.mu.Lock()
	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	g.mu.Unlock()
	return g.prefix + strconv.FormatInt(n, 10)
}

// HasPrefix reports whether number looks like it was issued by a generator for prefix.
func HasPrefix(number, prefix string) bool {
	rest, ok := strings.CutPrefix(number, prefix)
	if !ok || rest == "" {
		return false
	}
	_, err := strconv.ParseInt(rest, 10, 64)
	return err == nil
}
