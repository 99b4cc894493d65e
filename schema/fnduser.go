package schema

import "sync"

// FND_USER_PKG argument names.
const (
	UserName                 = "user_name"
	Owner                    = "owner"
	UnencryptedPassword      = "unencrypted_password"
	SessionNumber            = "session_number"
	StartDate                = "start_date"
	EndDate                  = "end_date"
	LastLogonDate            = "last_logon_date"
	Description              = "description"
	PasswordDate             = "password_date"
	PasswordAccessesLeft     = "password_accesses_left"
	PasswordLifespanAccesses = "password_lifespan_accesses"
	PasswordLifespanDays     = "password_lifespan_days"
	EmployeeID               = "employee_id"
	EmailAddress             = "email_address"
	Fax                      = "fax"
	CustomerID               = "customer_id"
	SupplierID               = "supplier_id"
)

func arg(name string, t ValueType) ColumnTemplate {
	return ColumnTemplate{Name: name, Body: "x_" + name + " => " + Placeholder, Type: t}
}

// FNDUserColumns is the argument order of fnd_user_pkg.CreateUser/UpdateUser.
func FNDUserColumns() []ColumnTemplate {
	return []ColumnTemplate{
		arg(UserName, String),
		{Name: Owner, Body: "x_owner => upper(" + Placeholder + ")", Type: String},
		arg(UnencryptedPassword, GuardedSecret),
		arg(SessionNumber, Integer),
		arg(StartDate, Timestamp),
		arg(EndDate, Timestamp),
		arg(LastLogonDate, Timestamp),
		arg(Description, String),
		arg(PasswordDate, Timestamp),
		arg(PasswordAccessesLeft, Integer),
		arg(PasswordLifespanAccesses, Integer),
		arg(PasswordLifespanDays, Integer),
		arg(EmployeeID, Integer),
		arg(EmailAddress, String),
		arg(Fax, String),
		arg(CustomerID, Integer),
		arg(SupplierID, Integer),
	}
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// DefaultTable returns the shared FND_USER_PKG table.
func DefaultTable() *Table {
	defaultOnce.Do(func() {
		t, err := NewTable(DefaultProcedure(), DefaultSentinels(), FNDUserColumns()...)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}
