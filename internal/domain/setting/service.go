package setting

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"nerdsociety/internal/pkg/applog"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)+$`)

// Service reads runtime overrides. Readers take a fallback (usually the env
// value) and never fail: lookup errors are logged and the fallback wins.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, key string) (string, bool, error) {
	item, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return item.Value, true, nil
}

func (s *Service) GetString(ctx context.Context, key, fallback string) string {
	v, ok := s.lookup(ctx, key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

func (s *Service) GetBool(ctx context.Context, key string, fallback bool) bool {
	v, ok := s.lookup(ctx, key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}

func (s *Service) GetInt64(ctx context.Context, key string, fallback int64) int64 {
	v, ok := s.lookup(ctx, key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// GetMinutes reads an integer number of minutes.
func (s *Service) GetMinutes(ctx context.Context, key string, fallback time.Duration) time.Duration {
	n := s.GetInt64(ctx, key, -1)
	if n < 0 {
		return fallback
	}
	return time.Duration(n) * time.Minute
}

func (s *Service) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *Service) SetMany(ctx context.Context, values map[string]string) error {
	items := make([]Setting, 0, len(values))
	now := time.Now().UTC()
	for k, v := range values {
		k = strings.ToLower(strings.TrimSpace(k))
		if !keyPattern.MatchString(k) {
			return ErrInvalidKey
		}
		if IsSecret(k) && v == maskedValue {
			continue
		}
		items = append(items, Setting{Key: k, Value: v, UpdatedAt: now})
	}
	return s.repo.Upsert(ctx, items)
}

func (s *Service) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// All returns every stored override with secrets masked.
func (s *Service) All(ctx context.Context) ([]Setting, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if IsSecret(items[i].Key) && items[i].Value != "" {
			items[i].Value = maskedValue
		}
	}
	return items, nil
}

func (s *Service) lookup(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.Get(ctx, key)
	if err != nil {
		applog.FromContext(ctx).WithError(err).WithField("key", key).Warn("setting lookup failed, using fallback")
		return "", false
	}
	return v, ok
}
