// Package userkeys allocates the short public identifiers exposed in
// place of internal user IDs. Keys are human-typable, drawn from an
// alphabet without visually ambiguous glyphs, and grow in length as the
// user population grows.
package userkeys

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/dmitrijs2005/linkmark/internal/logging"
)

// Alphabet is the 57-symbol candidate alphabet: alphanumeric minus the
// visually ambiguous 0, O, I, l and o.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"

const (
	retriesPerLength = 3
	maxTotalAttempts = 20
	fallbackLength   = 9
)

// Store is the users-store subset consulted for uniqueness. The store's
// unique constraint on the key column is the authoritative guard; the
// existence check here only avoids constraint-violation round-trips.
type Store interface {
	Count(ctx context.Context) (int64, error)
	ExistsByUserKey(ctx context.Context, key string) (bool, error)
}

// state tracks the generate/check loop: a bounded number of retries at
// the current length before growing by one, under a hard overall
// attempt ceiling.
type state struct {
	currentLength   int
	retriesAtLength int
	totalAttempts   int
}

func newState(length int) state {
	return state{currentLength: length}
}

// recordCollision advances the state after a taken candidate: retry at
// the current length up to retriesPerLength times, then grow by one and
// reset the per-length counter.
func (s *state) recordCollision() {
	s.retriesAtLength++
	if s.retriesAtLength > retriesPerLength {
		s.currentLength++
		s.retriesAtLength = 0
	}
}

func (s *state) recordAttempt() {
	s.totalAttempts++
}

func (s *state) exhausted() bool {
	return s.totalAttempts >= maxTotalAttempts
}

// startingLength picks the candidate length for the key being
// allocated, so the thresholds count the principal about to be added:
// with nine principals stored, the tenth already needs length 5. The
// boundaries keep the collision space large relative to the number of
// allocated keys while favoring short keys for small deployments.
func startingLength(population int64) int {
	next := population + 1
	switch {
	case next < 10:
		return 4
	case next < 100:
		return 5
	case next < 1000:
		return 6
	case next < 10000:
		return 7
	case next < 100000:
		return 8
	default:
		return 9
	}
}

// RandomKey returns a key of the given length drawn uniformly from
// Alphabet using a cryptographically strong source.
func RandomKey(length int) string {
	max := big.NewInt(int64(len(Alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b)
}

// Allocator hands out keys that are unique in the users store at the
// moment of allocation. The random source and clock are injectable for
// tests.
type Allocator struct {
	store     Store
	logger    logging.Logger
	randomKey func(length int) string
	now       func() time.Time
}

func NewAllocator(store Store, logger logging.Logger) *Allocator {
	return &Allocator{
		store:     store,
		logger:    logger.With("module", "key_allocator"),
		randomKey: RandomKey,
		now:       time.Now,
	}
}

// Allocate generates candidates until one is free in the store, growing
// the candidate length after repeated collisions. If the overall
// attempt ceiling is somehow exhausted, it falls back to a long random
// key suffixed with a base-36 timestamp fragment (re-checked once), and
// as a terminal resort appends extra random characters and returns the
// result unchecked.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	population, err := a.store.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("counting users: %w", err)
	}

	st := newState(startingLength(population))

	for !st.exhausted() {
		st.recordAttempt()

		candidate := a.randomKey(st.currentLength)
		if !a.keyTaken(ctx, candidate) {
			return candidate, nil
		}

		st.recordCollision()
	}

	a.logger.Warn(ctx, "collision budget exhausted, falling back to timestamp-augmented key",
		"attempts", st.totalAttempts, "length", st.currentLength)

	fallback := a.randomKey(fallbackLength) + strconv.FormatInt(a.now().UnixMilli(), 36)
	if !a.keyTaken(ctx, fallback) {
		return fallback, nil
	}

	// Terminal tier: returned without a store check.
	return fallback + a.randomKey(4), nil
}

// keyTaken reports whether the candidate already exists. A failed
// existence check never proves uniqueness, so a store error counts as
// taken.
func (a *Allocator) keyTaken(ctx context.Context, key string) bool {
	exists, err := a.store.ExistsByUserKey(ctx, key)
	if err != nil {
		a.logger.Warn(ctx, "existence check failed, assuming key is taken", "error", err)
		return true
	}
	return exists
}
