package builder

import (
	"github.com/Konsultn-Engineering/erpcall/attribute"
	"github.com/Konsultn-Engineering/erpcall/schema"
)

type requirement struct {
	column    string
	attribute string
}

var (
	requiredAlways = []requirement{
		{schema.UserName, attribute.NameName},
		{schema.Owner, schema.Owner},
	}
	requiredOnCreate = requirement{schema.UnencryptedPassword, attribute.PasswordName}
)

// validate checks that every required column is bound. It runs before any
// call text is produced.
func (b *AccountCallBuilder) validate() error {
	reqs := requiredAlways
	if b.mode == ModeCreate {
		reqs = append(reqs[:len(reqs):len(reqs)], requiredOnCreate)
	}
	for _, r := range reqs {
		a, ok := b.store.lookup(r.column)
		if !ok {
			return &UnknownColumnError{Column: r.column}
		}
		if a.kind != bound {
			return NewMissingRequiredAttributeError(r.column, r.attribute)
		}
	}
	return nil
}
