package repositories

import "context"

// HealthChecker is implemented by stores that can report their own liveness.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
