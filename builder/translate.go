package builder

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/erpcall/attribute"
	"github.com/Konsultn-Engineering/erpcall/schema"
)

// LogicalField is the closed set of attributes the compiler understands.
// Every other attribute name is ignored.
type LogicalField int

const (
	FieldUnknown LogicalField = iota
	FieldIdentity
	FieldOwner
	FieldPassword
	FieldExpirePassword
	FieldStartDate
	FieldEndDate
	FieldDescription
	FieldEmailAddress
	FieldFax
	FieldPasswordAccessesLeft
	FieldPasswordLifespanAccesses
	FieldPasswordLifespanDays
	FieldEmployeeID
	FieldCustomerID
	FieldSupplierID
)

// ExpirePasswordName is the account attribute alias of __PASSWORD_EXPIRED__.
const ExpirePasswordName = "expirePassword"

var fieldNames = map[string]LogicalField{
	attribute.NameName:                          FieldIdentity,
	attribute.UIDName:                           FieldIdentity,
	schema.Owner:                                FieldOwner,
	attribute.PasswordName:                      FieldPassword,
	attribute.PasswordExpiredName:               FieldExpirePassword,
	attribute.NormalizeName(ExpirePasswordName): FieldExpirePassword,
	schema.StartDate:                            FieldStartDate,
	attribute.EnableDateName:                    FieldStartDate,
	schema.EndDate:                              FieldEndDate,
	attribute.DisableDateName:                   FieldEndDate,
	schema.Description:                          FieldDescription,
	schema.EmailAddress:                         FieldEmailAddress,
	schema.Fax:                                  FieldFax,
	schema.PasswordAccessesLeft:                 FieldPasswordAccessesLeft,
	schema.PasswordLifespanAccesses:             FieldPasswordLifespanAccesses,
	schema.PasswordLifespanDays:                 FieldPasswordLifespanDays,
	schema.EmployeeID:                           FieldEmployeeID,
	schema.CustomerID:                           FieldCustomerID,
	schema.SupplierID:                           FieldSupplierID,
}

// foldedFieldNames indexes the plain (non __SPECIAL__) names with case and
// underscores folded away, so expirePassword, EXPIREPASSWORD and
// expire_password all resolve alike.
var foldedFieldNames = func() map[string]LogicalField {
	m := make(map[string]LogicalField, len(fieldNames))
	for name, f := range fieldNames {
		if !attribute.IsSpecialName(name) {
			m[foldName(name)] = f
		}
	}
	return m
}()

func foldName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
}

// ResolveField maps an attribute name onto its logical field, ignoring case.
func ResolveField(name string) LogicalField {
	if f, ok := fieldNames[attribute.NormalizeName(name)]; ok {
		return f
	}
	if attribute.IsSpecialName(strings.TrimSpace(name)) {
		return FieldUnknown
	}
	return foldedFieldNames[foldName(name)]
}

type policyKind uint8

const (
	policyIdentity policyKind = iota
	policyString              // bind as is, absence is ignored
	policyPassword
	policyExpiry
	policyStartDate
	policyEndDate
	policyNullableString
	policyNullableInteger
)

type fieldPolicy struct {
	column string
	kind   policyKind
}

var policies = map[LogicalField]fieldPolicy{
	FieldIdentity:                 {schema.UserName, policyIdentity},
	FieldOwner:                    {schema.Owner, policyString},
	FieldPassword:                 {schema.UnencryptedPassword, policyPassword},
	FieldExpirePassword:           {schema.LastLogonDate, policyExpiry},
	FieldStartDate:                {schema.StartDate, policyStartDate},
	FieldEndDate:                  {schema.EndDate, policyEndDate},
	FieldDescription:              {schema.Description, policyNullableString},
	FieldEmailAddress:             {schema.EmailAddress, policyNullableString},
	FieldFax:                      {schema.Fax, policyNullableString},
	FieldPasswordAccessesLeft:     {schema.PasswordAccessesLeft, policyNullableInteger},
	FieldPasswordLifespanAccesses: {schema.PasswordLifespanAccesses, policyNullableInteger},
	FieldPasswordLifespanDays:     {schema.PasswordLifespanDays, policyNullableInteger},
	FieldEmployeeID:               {schema.EmployeeID, policyNullableInteger},
	FieldCustomerID:               {schema.CustomerID, policyNullableInteger},
	FieldSupplierID:               {schema.SupplierID, policyNullableInteger},
}

// translate applies the policy of one attribute to the store.
func (b *AccountCallBuilder) translate(attr attribute.Attribute) error {
	field := ResolveField(attr.Name)
	p, ok := policies[field]
	if !ok {
		b.logger.Debug("attribute ignored", "call_id", b.id, "attribute", attr.Name)
		return nil
	}

	raw, err := attr.SingleValue()
	if err != nil {
		return &MalformedValueError{Column: p.column, Raw: attr.Values, Err: err}
	}

	switch p.kind {
	case policyIdentity:
		s, ok, err := attr.AsString()
		if err != nil || !ok {
			return err
		}
		return b.bind(p.column, strings.ToUpper(s))

	case policyString:
		s, ok, err := attr.AsString()
		if err != nil || !ok {
			return err
		}
		return b.bind(p.column, s)

	case policyPassword:
		secret, ok, err := guarded(raw)
		if err != nil {
			return &MalformedValueError{Column: p.column, Raw: fmt.Sprintf("%T", raw), Err: err}
		}
		if !ok {
			return nil
		}
		if err := b.bind(p.column, secret); err != nil {
			return err
		}
		b.passwordChanged = true
		return nil

	case policyExpiry:
		expired, ok, err := attr.AsBool()
		if err != nil {
			return &MalformedValueError{Column: p.column, Raw: raw, Err: err}
		}
		if !ok {
			return nil
		}
		if b.expired != nil && *b.expired != expired {
			return &ConflictingAssignmentError{
				Column: p.column,
				Old:    "password expired " + strconv.FormatBool(*b.expired),
				New:    "password expired " + strconv.FormatBool(expired),
			}
		}
		b.expired = &expired
		return nil

	case policyStartDate:
		if isBlank(raw) {
			return nil
		}
		ts, err := b.parseTimestamp(raw)
		if err != nil {
			return &MalformedValueError{Column: p.column, Raw: raw, Err: err}
		}
		return b.bind(p.column, ts)

	case policyEndDate:
		if isBlank(raw) {
			return b.null(p.column, b.sentinels.Date)
		}
		if s, isString := raw.(string); isString && strings.EqualFold(strings.TrimSpace(s), b.sentinels.Now) {
			return b.null(p.column, b.sentinels.Now)
		}
		ts, err := b.parseTimestamp(raw)
		if err != nil {
			return &MalformedValueError{Column: p.column, Raw: raw, Err: err}
		}
		return b.bind(p.column, ts)

	case policyNullableString:
		if isBlank(raw) {
			return b.nullFor(p.column)
		}
		s, _, err := attr.AsString()
		if err != nil {
			return err
		}
		return b.bind(p.column, s)

	case policyNullableInteger:
		if isBlank(raw) {
			return b.nullFor(p.column)
		}
		n, err := toInteger(raw)
		if err != nil {
			return &MalformedValueError{Column: p.column, Raw: raw, Err: err}
		}
		return b.bind(p.column, n)
	}
	return nil
}

func (b *AccountCallBuilder) bind(column string, v any) error {
	if err := b.store.setBound(column, v); err != nil {
		return err
	}
	b.logger.Debug("bound", "call_id", b.id, "column", column, "kind", bound.String(), "value", v)
	return nil
}

func (b *AccountCallBuilder) null(column, literal string) error {
	if err := b.store.setNullSentinel(column, literal); err != nil {
		return err
	}
	b.logger.Debug("null sentinel", "call_id", b.id, "column", column, "kind", nullSentinel.String(), "literal", literal)
	return nil
}

// nullFor assigns the sentinel matching the column's value type.
func (b *AccountCallBuilder) nullFor(column string) error {
	col, ok := b.table.Lookup(column)
	if !ok {
		return &UnknownColumnError{Column: column}
	}
	literal, ok := b.sentinels.For(col.Type)
	if !ok {
		return nil
	}
	return b.null(col.Name, literal)
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []byte:
		return len(val) == 0
	}
	return false
}

func guarded(v any) (attribute.GuardedString, bool, error) {
	switch val := v.(type) {
	case nil:
		return attribute.GuardedString{}, false, nil
	case attribute.GuardedString:
		return val, !val.IsEmpty(), nil
	case *attribute.GuardedString:
		if val == nil {
			return attribute.GuardedString{}, false, nil
		}
		return *val, !val.IsEmpty(), nil
	case string:
		return attribute.NewGuardedString(val), val != "", nil
	}
	return attribute.GuardedString{}, false, errors.New("password must be a guarded string")
}

var errNotInteger = errors.New("not an integer")

// toInteger converts v to an integer column value. The procedure's
// NUMBER parameters are read as 32-bit integers, so anything outside that
// range is rejected with strconv.ErrRange.
func toInteger(v any) (int64, error) {
	n, err := widenInteger(v)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%d: %w", n, strconv.ErrRange)
	}
	return n, nil
}

func widenInteger(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return unsignedInteger(uint64(n))
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return unsignedInteger(n)
	case float64:
		if n != math.Trunc(n) {
			return 0, errNotInteger
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("%v: %w", n, strconv.ErrRange)
		}
		return int64(n), nil
	case json.Number:
		return strconv.ParseInt(string(n), 10, 32)
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 32)
	}
	return 0, fmt.Errorf("%w: %T", errNotInteger, v)
}

func unsignedInteger(n uint64) (int64, error) {
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%d: %w", n, strconv.ErrRange)
	}
	return int64(n), nil
}

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
}

func (b *AccountCallBuilder) parseTimestamp(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case *time.Time:
		if val != nil {
			return *val, nil
		}
	case string:
		s := strings.TrimSpace(val)
		loc := b.now().Location()
		for _, layout := range timestampLayouts {
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", val)
	}
	return time.Time{}, fmt.Errorf("cannot use %T as a timestamp", v)
}

// today is the clock truncated to midnight in the clock's location.
func (b *AccountCallBuilder) today() time.Time {
	now := b.now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// settleStamps derives the last logon and password dates from the expiry
// and password flags collected by Add.
func (b *AccountCallBuilder) settleStamps() error {
	if b.expired != nil && *b.expired {
		if err := b.null(schema.LastLogonDate, b.sentinels.Date); err != nil {
			return err
		}
		return b.null(schema.PasswordDate, b.sentinels.Date)
	}
	today := b.today()
	if b.passwordChanged {
		if err := b.bind(schema.PasswordDate, today); err != nil {
			return err
		}
	}
	if b.mode == ModeCreate {
		if err := b.bind(schema.LastLogonDate, today); err != nil {
			return err
		}
	}
	return nil
}
