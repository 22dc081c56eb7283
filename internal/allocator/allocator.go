// Package allocator issues the human-presentable identifiers handed out on
// confirmation: six-digit team IDs with in-process (or Redis-backed)
// duplicate avoidance, and deterministic composite ticket codes.
package allocator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	// Team IDs are fixed-width six-digit decimals: 100000..999999.
	teamIDMin   = 100000
	teamIDRange = 900000

	// maxAttempts bounds the random draw so allocation can never block
	// unboundedly; past it we fall back to a timestamp-derived identifier.
	maxAttempts = 100

	ticketPrefix = "TICKET"
)

// IssuedSet tracks identifiers already handed out. TryAdd must be atomic
// (check-and-insert under mutual exclusion) so concurrent allocations cannot
// both claim the same identifier.
type IssuedSet interface {
	// TryAdd records id if absent and reports whether it was added.
	TryAdd(ctx context.Context, id string) (bool, error)
	// Clear forgets all recorded identifiers. Identifiers already persisted
	// on registrations are unaffected.
	Clear(ctx context.Context) error
}

// Allocator issues unique team identifiers against an injected issued-set.
type Allocator struct {
	issued IssuedSet
	intN   func(n int) int
	nowMs  func() int64
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithRandFunc overrides the random source. Test hook.
func WithRandFunc(intN func(n int) int) Option {
	return func(a *Allocator) { a.intN = intN }
}

// WithNowFunc overrides the clock used by the fallback path. Test hook.
func WithNowFunc(nowMs func() int64) Option {
	return func(a *Allocator) { a.nowMs = nowMs }
}

// New constructs an Allocator over the given issued-set.
func New(issued IssuedSet, opts ...Option) *Allocator {
	a := &Allocator{
		issued: issued,
		intN:   rand.IntN,
		nowMs:  func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns an unused six-digit team identifier. It draws uniformly
// from the identifier range, retrying up to the attempt bound when a draw is
// already issued. On exhaustion it falls back to the last six digits of the
// current Unix-millisecond timestamp, which guarantees termination at the
// cost of a theoretical uniqueness violation.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := strconv.Itoa(teamIDMin + a.intN(teamIDRange))
		added, err := a.issued.TryAdd(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("record team id: %w", err)
		}
		if added {
			return candidate, nil
		}
	}

	fallback := lastDigits(strconv.FormatInt(a.nowMs(), 10), 6)
	if _, err := a.issued.TryAdd(ctx, fallback); err != nil {
		return "", fmt.Errorf("record fallback team id: %w", err)
	}
	return fallback, nil
}

// Reset clears the issued-set. Used for test isolation; it has no effect on
// identifiers already stored on registrations.
func (a *Allocator) Reset(ctx context.Context) error {
	return a.issued.Clear(ctx)
}

// TicketCodes produces n composite ticket numbers for the given record:
// TICKET-<SUFFIX>-<seq>, where SUFFIX is the last eight characters of the
// record id uppercased and seq runs 1..n. Codes are deterministic given the
// record id and are not checked against the issued-set.
func TicketCodes(recordID string, n int) []string {
	suffix := strings.ToUpper(lastDigits(recordID, 8))
	codes := make([]string, 0, n)
	for seq := 1; seq <= n; seq++ {
		codes = append(codes, fmt.Sprintf("%s-%s-%d", ticketPrefix, suffix, seq))
	}
	return codes
}

func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
