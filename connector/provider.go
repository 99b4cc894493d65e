package connector

import (
	"context"

	"github.com/Konsultn-Engineering/erpcall/dialect"
)

type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	// Dialect is the default dialect for connections of this provider. It
	// may be overridden per connection once the driver is known.
	Dialect() dialect.Dialect
	HealthCheck(ctx context.Context, conn Connection) error
}
