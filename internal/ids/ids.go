// Package ids allocates and decodes the identifiers used for users,
// conversations, and messages.
//
// Identifiers are ULIDs: 26-character Crockford base32 strings whose
// lexicographic order matches creation order. Message ids therefore double as
// pagination cursors ("give me everything strictly before this id").
package ids

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrInvalidIdentifier is returned when a string is not a well-formed
// identifier (wrong length, characters outside the alphabet, or overflow).
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Generator hands out strictly increasing identifiers. Ids generated in the
// same millisecond increment the random component; if the clock steps
// backwards the last seen timestamp is reused. It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
	last    ulid.ULID
}

// NewGenerator returns a Generator reading time from now and randomness from r.
// Nil arguments select time.Now and crypto/rand.
func NewGenerator(now func() time.Time, r io.Reader) *Generator {
	if now == nil {
		now = time.Now
	}
	if r == nil {
		r = rand.Reader
	}
	return &Generator{now: now, entropy: ulid.Monotonic(r, 0)}
}

// New returns the next identifier in canonical (uppercase) form.
func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := ulid.Timestamp(g.now())
	if last := g.last.Time(); ms < last {
		ms = last
	}
	id, err := ulid.New(ms, g.entropy)
	if errors.Is(err, ulid.ErrMonotonicOverflow) {
		ms++
		id, err = ulid.New(ms, g.entropy)
	}
	if err != nil {
		// Only reachable when the entropy source fails.
		panic(fmt.Sprintf("ids: generate: %v", err))
	}
	g.last = id
	return id.String()
}

var std = NewGenerator(nil, nil)

// New returns a fresh identifier from the process-wide generator.
func New() string { return std.New() }

// Decode parses s into a ULID. Any malformed input yields an error wrapping
// ErrInvalidIdentifier.
func Decode(s string) (ulid.ULID, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	return id, nil
}

// Canonical returns the canonical uppercase encoding of s. Lowercase input is
// accepted; stores compare ids as strings, so cursors must be canonicalized
// before use in range filters.
func Canonical(s string) (string, error) {
	id, err := Decode(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Compare orders two identifiers by creation: -1 if a was generated before b,
// +1 if after, 0 if equal. The stores rely on string order of canonical ids
// instead; Compare is the codec's checked form of that ordering for callers
// holding ids of unknown spelling, and is not on any request path.
func Compare(a, b string) (int, error) {
	ia, err := Decode(a)
	if err != nil {
		return 0, err
	}
	ib, err := Decode(b)
	if err != nil {
		return 0, err
	}
	return ia.Compare(ib), nil
}
