// Package attribute holds the generic identity attributes fed into the
// account call compiler.
package attribute

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
)

// Special attribute names shared by every connector.
const (
	NameName            = "__NAME__"
	UIDName             = "__UID__"
	PasswordName        = "__PASSWORD__"
	PasswordExpiredName = "__PASSWORD_EXPIRED__"
	EnableDateName      = "__ENABLE_DATE__"
	DisableDateName     = "__DISABLE_DATE__"
)

// ErrMultiValued is returned when a single valued accessor is used on an
// attribute carrying more than one value.
var ErrMultiValued = errors.New("attribute: expected a single value")

// Attribute is one generic attribute change. A nil Values slice is an
// explicit absence: the caller asks for the column to be cleared.
type Attribute struct {
	Name   string
	Values []any
}

// New builds an attribute with the given values.
func New(name string, values ...any) Attribute {
	if values == nil {
		values = []any{}
	}
	return Attribute{Name: name, Values: values}
}

// Null builds an explicitly absent attribute.
func Null(name string) Attribute {
	return Attribute{Name: name}
}

// Name builds the identity attribute.
func Name(name string) Attribute {
	return New(NameName, name)
}

// Password builds the password attribute.
func Password(password GuardedString) Attribute {
	return New(PasswordName, password)
}

// PasswordExpired builds the password expiry flag.
func PasswordExpired(expired bool) Attribute {
	return New(PasswordExpiredName, expired)
}

// Is reports whether the attribute carries the given name, ignoring case.
func (a Attribute) Is(name string) bool {
	return strings.EqualFold(a.Name, name)
}

// IsNull reports whether the attribute is explicitly absent.
func (a Attribute) IsNull() bool {
	return a.Values == nil
}

// Multiplicity is the number of values carried.
func (a Attribute) Multiplicity() int {
	return len(a.Values)
}

// SingleValue returns the only value, or nil when absent or empty.
func (a Attribute) SingleValue() (any, error) {
	switch len(a.Values) {
	case 0:
		return nil, nil
	case 1:
		return a.Values[0], nil
	default:
		return nil, fmt.Errorf("%w: %s has %d values", ErrMultiValued, a.Name, len(a.Values))
	}
}

// AsString returns the single value formatted as a string. ok is false
// when the attribute has no value.
func (a Attribute) AsString() (s string, ok bool, err error) {
	v, err := a.SingleValue()
	if err != nil || v == nil {
		return "", false, err
	}
	switch val := v.(type) {
	case string:
		return val, true, nil
	case []byte:
		return string(val), true, nil
	case time.Time:
		return val.Format("2006-01-02 15:04:05.999999999"), true, nil
	case fmt.Stringer:
		return val.String(), true, nil
	default:
		return fmt.Sprint(val), true, nil
	}
}

// AsBool returns the single value as a boolean. Strings accepted by
// strconv.ParseBool are converted; nil reads as false with ok unset.
func (a Attribute) AsBool() (b bool, ok bool, err error) {
	v, err := a.SingleValue()
	if err != nil || v == nil {
		return false, false, err
	}
	switch val := v.(type) {
	case bool:
		return val, true, nil
	case *bool:
		if val == nil {
			return false, false, nil
		}
		return *val, true, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return false, false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return false, false, err
		}
		return b, true, nil
	default:
		return false, false, fmt.Errorf("attribute: %s is %T, not a boolean", a.Name, v)
	}
}

// String renders the attribute for logs. Guarded values stay redacted.
func (a Attribute) String() string {
	if a.IsNull() {
		return a.Name + "=<null>"
	}
	parts := make([]string, len(a.Values))
	for i, v := range a.Values {
		parts[i] = fmt.Sprint(v)
	}
	return a.Name + "=[" + strings.Join(parts, ", ") + "]"
}

// NormalizeName maps an attribute name onto the lookup key used by the
// translator. Special names are uppercased, everything else becomes
// snake_case so emailAddress, EmailAddress and EMAIL_ADDRESS agree.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if IsSpecialName(name) {
		return strings.ToUpper(name)
	}
	if strings.ToUpper(name) == name {
		return strings.ToLower(name)
	}
	return strcase.ToSnake(name)
}

// IsSpecialName reports whether name uses the __NAME__ convention.
func IsSpecialName(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}
