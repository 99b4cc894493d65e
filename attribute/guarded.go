package attribute

import (
	"crypto/subtle"
	"database/sql/driver"
	"fmt"
	"log/slog"
)

const redacted = "********"

// GuardedString is an opaque secret. Its plaintext is only reachable
// through Access or, at bind time, through driver.Valuer.
type GuardedString struct {
	b []byte
}

// NewGuardedString copies s into a new secret.
func NewGuardedString(s string) GuardedString {
	return GuardedString{b: []byte(s)}
}

// Access hands the plaintext to fn. fn must not retain the slice.
func (g GuardedString) Access(fn func(clear []byte)) {
	buf := make([]byte, len(g.b))
	copy(buf, g.b)
	defer func() {
		for i := range buf {
			buf[i] = 0
		}
	}()
	fn(buf)
}

// IsEmpty reports whether the secret has no characters.
func (g GuardedString) IsEmpty() bool {
	return len(g.b) == 0
}

// Equal compares two secrets in constant time.
func (g GuardedString) Equal(other GuardedString) bool {
	return subtle.ConstantTimeCompare(g.b, other.b) == 1
}

// Value implements driver.Valuer.
func (g GuardedString) Value() (driver.Value, error) {
	return string(g.b), nil
}

func (g GuardedString) String() string { return redacted }

func (g GuardedString) GoString() string { return "attribute.GuardedString{" + redacted + "}" }

// Format keeps %v, %s, %q and %#v from printing the secret.
func (g GuardedString) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('#') {
			_, _ = f.Write([]byte(g.GoString()))
			return
		}
		_, _ = f.Write([]byte(redacted))
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", redacted)
	default:
		_, _ = f.Write([]byte(redacted))
	}
}

func (g GuardedString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

func (g GuardedString) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

var (
	_ driver.Valuer  = GuardedString{}
	_ slog.LogValuer = GuardedString{}
	_ fmt.Formatter  = GuardedString{}
)
