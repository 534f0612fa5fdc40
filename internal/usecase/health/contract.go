package health

import "context"

// Pinger checks availability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readiness reports whether an index generation is live.
type Readiness interface {
	Ready() bool
}
