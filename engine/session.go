package engine

import (
	"context"

	"github.com/Konsultn-Engineering/erpcall/attribute"
	"github.com/Konsultn-Engineering/erpcall/builder"
)

// Session collects attribute changes for one account fluently:
//
//	e.Account("jdoe").Owner("CUST").Password(pw).Set("email_address", "j@x").Create(ctx)
type Session struct {
	engine *Engine
	attrs  []attribute.Attribute
}

// Account starts a session for the named user.
func (e *Engine) Account(name string) *Session {
	return &Session{
		engine: e,
		attrs:  []attribute.Attribute{attribute.Name(name)},
	}
}

func (s *Session) Owner(owner string) *Session {
	return s.Set("owner", owner)
}

func (s *Session) Password(pw attribute.GuardedString) *Session {
	s.attrs = append(s.attrs, attribute.Password(pw))
	return s
}

func (s *Session) ExpirePassword(expired bool) *Session {
	s.attrs = append(s.attrs, attribute.PasswordExpired(expired))
	return s
}

// Set adds an attribute with the given values.
func (s *Session) Set(name string, values ...any) *Session {
	s.attrs = append(s.attrs, attribute.New(name, values...))
	return s
}

// Clear asks for the column behind name to be nulled out.
func (s *Session) Clear(name string) *Session {
	s.attrs = append(s.attrs, attribute.Null(name))
	return s
}

// Attributes returns a copy of the collected attributes.
func (s *Session) Attributes() []attribute.Attribute {
	out := make([]attribute.Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Compile builds the call without executing it.
func (s *Session) Compile(mode builder.Mode) (*builder.CallResult, error) {
	return s.engine.Compile(mode, s.attrs...)
}

func (s *Session) Create(ctx context.Context) (*builder.CallResult, error) {
	return s.engine.Create(ctx, s.attrs...)
}

func (s *Session) Update(ctx context.Context) (*builder.CallResult, error) {
	return s.engine.Update(ctx, s.attrs...)
}
