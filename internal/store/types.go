package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/store/cache"
)

const typesCacheKey = "parameter-types"

// ListParameterTypes returns the registered type tags in registration order.
// The list is served from the cache when one is configured.
func (s *Store) ListParameterTypes(ctx context.Context) ([]string, error) {
	if tags, ok := s.cachedTypes(ctx); ok {
		return tags, nil
	}
	defer s.observe("list_parameter_types", time.Now())

	rows, err := s.db.QueryContext(ctx, `SELECT type FROM parameter_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameter types: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan parameter type: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parameter types: %w", err)
	}

	s.cacheTypes(ctx, tags)
	return tags, nil
}

// AddParameterType registers a new type tag and returns the updated list.
func (s *Store) AddParameterType(ctx context.Context, tag string) ([]string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("%w: type is required", ErrInvalid)
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO parameter_types (type) VALUES ($1)`, tag); err != nil {
		return nil, fmt.Errorf("failed to add parameter type %q: %w", tag, ConvertDBError(err))
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, typesCacheKey); err != nil {
			s.logger.Warn("failed to invalidate parameter type cache", zap.Error(err))
		}
	}
	return s.ListParameterTypes(ctx)
}

// typeIDs maps every type tag to its row id.
func (s *Store) typeIDs(ctx context.Context, q queryer) (map[string]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, type FROM parameter_types`)
	if err != nil {
		return nil, fmt.Errorf("failed to load parameter types: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var (
			id  int64
			tag string
		)
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan parameter type: %w", err)
		}
		ids[tag] = id
	}
	return ids, rows.Err()
}

func (s *Store) cachedTypes(ctx context.Context) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, typesCacheKey)
	if err != nil {
		if !cache.IsCacheMiss(err) {
			s.logger.Warn("parameter type cache unavailable", zap.Error(err))
		}
		return nil, false
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		s.logger.Warn("discarding corrupt parameter type cache entry", zap.Error(err))
		return nil, false
	}
	return tags, true
}

func (s *Store) cacheTypes(ctx context.Context, tags []string) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, typesCacheKey, raw, s.typesTTL); err != nil {
		s.logger.Warn("failed to cache parameter types", zap.Error(err))
	}
}
