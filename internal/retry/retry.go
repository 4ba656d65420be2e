package retry

import (
	"context"
	"time"
)

// Policy reintenta fallas transitorias de infraestructura con backoff
// exponencial acotado. Los errores que `permanent` reconoce (negocio,
// validación, conflicto) cortan de inmediato.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
}

var Default = Policy{
	Attempts:  3,
	BaseDelay: 100 * time.Millisecond,
}

func (p Policy) Do(
	ctx context.Context,
	permanent func(error) bool,
	fn func(ctx context.Context) error,
) error {

	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	delay := p.BaseDelay

	for i := 0; i < attempts; i++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if permanent != nil && permanent(lastErr) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return lastErr
}
