package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrNotAcquired = errors.New("professional lock not acquired")

// Locker serializa las mutaciones de agenda de un profesional. La
// sección crítica de la reserva (chequeo de conflictos + creación)
// corre siempre dentro de WithProfessionalLock.
type Locker interface {
	WithProfessionalLock(ctx context.Context, professionalID uint, fn func(ctx context.Context) error) error
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisLocker) WithProfessionalLock(
	ctx context.Context,
	professionalID uint,
	fn func(ctx context.Context) error,
) error {

	key := fmt.Sprintf("lock:professional:%d", professionalID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire professional lock: %w", err)
	}
	if !ok {
		return ErrNotAcquired
	}

	defer func() {
		// el ctx del request puede llegar cancelado hasta acá; la
		// liberación corre con su propio contexto corto para no dejar
		// el lock vivo hasta el TTL
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.release(releaseCtx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

// solo borra si el token sigue siendo nuestro
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release professional lock: %w", err)
	}
	return nil
}
