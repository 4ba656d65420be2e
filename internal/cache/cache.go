package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

func NewRedisClient(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

// Service es el cache inyectable de disponibilidad por día. TTL corto:
// cualquier mutación de slots del profesional invalida el día entero.
type Service struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewService(rdb *redis.Client, ttl time.Duration) *Service {
	return &Service{rdb: rdb, ttl: ttl}
}

// DayKey identifica el día de agenda de un profesional. La fecha se
// canoniza a la zona por defecto del marketplace: la clave de un
// instante no depende de la zona en la que venga expresado, así
// lectura e invalidación siempre apuntan al mismo día.
func DayKey(professionalID uint, day time.Time) string {
	d := day.In(timezone.Location(timezone.DefaultTimezone))
	return fmt.Sprintf("availability:%d:%s", professionalID, d.Format("2006-01-02"))
}

// Get deserializa el valor cacheado en dest; false si no hay entrada.
func (s *Service) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, s.ttl).Err()
}

func (s *Service) InvalidateDay(ctx context.Context, professionalID uint, day time.Time) {
	// best effort: el TTL corto cubre cualquier miss de invalidación
	_ = s.rdb.Del(ctx, DayKey(professionalID, day)).Err()
}

func (s *Service) InvalidateRange(ctx context.Context, professionalID uint, from, to time.Time) {
	// un día extra al final: el cierre del último día del rango puede
	// caer en el día canónico siguiente
	for d := from; !d.After(to.AddDate(0, 0, 1)); d = d.AddDate(0, 0, 1) {
		s.InvalidateDay(ctx, professionalID, d)
	}
}
