// Package id provides prefixed ULID generation.
//
// ULIDs sort by creation time, and the prefix names the kind of thing an id
// refers to so logs stay readable (desk_*, conn_*, req_*).
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DesktopID identifies a desktop session
type DesktopID string

// ConnID identifies a relay connection
type ConnID string

// RequestID identifies an HTTP request or trace span
type RequestID string

// ID prefixes
const (
	DesktopPrefix = "desk"
	ConnPrefix    = "conn"
	RequestPrefix = "req"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the shared generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand, made monotonic
// so ids minted in the same millisecond still sort in creation order
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewDesktopID generates a desktop session id
func NewDesktopID() DesktopID {
	return DesktopID(Default().GenerateWithPrefix(DesktopPrefix))
}

// NewConnID generates a relay connection id
func NewConnID() ConnID {
	return ConnID(Default().GenerateWithPrefix(ConnPrefix))
}

// NewRequestID generates a request id
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id DesktopID) String() string { return string(id) }
func (id ConnID) String() string    { return string(id) }
func (id RequestID) String() string { return string(id) }

// IsValid reports whether s is a bare ULID
func IsValid(s string) bool {
	_, err := ulid.Parse(s)
	return err == nil
}

// ParsePrefixed splits a prefixed id and validates its ULID part
func ParsePrefixed(s, prefix string) (ulid.ULID, error) {
	rest, ok := strings.CutPrefix(s, prefix+"_")
	if !ok {
		return ulid.ULID{}, fmt.Errorf("id %q does not start with %s_", s, prefix)
	}
	u, err := ulid.Parse(rest)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return u, nil
}

// Timestamp extracts the creation time from a prefixed id
func Timestamp(s, prefix string) (time.Time, error) {
	u, err := ParsePrefixed(s, prefix)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
