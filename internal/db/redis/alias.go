package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/studiodex/internal/db"
)

// Promote points the FT alias at generation and records it in the alias pointer key.
// Returns the generation the alias pointed at before ("" on first promotion).
func (s *Store) Promote(ctx context.Context, alias, generation string) (string, error) {
	if alias == "" || generation == "" {
		return "", fmt.Errorf("alias and generation are required")
	}

	previous, err := s.currentGeneration(ctx, alias)
	if err != nil {
		return "", err
	}
	if previous == generation {
		return "", nil
	}

	// ALIASUPDATE creates the alias when missing and moves it otherwise.
	cmd := s.b().Arbitrary("FT.ALIASUPDATE").Args(alias, generation).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isUnknownIndex(err) {
			return "", db.ErrIndexNotFound
		}
		return "", &db.Error{Op: db.OpAliasUpdate, Err: err}
	}

	set := s.b().Set().Key(s.aliasKey(alias)).Value(generation).Build()
	if err := s.do(ctx, set).Error(); err != nil {
		return "", &db.Error{Op: db.OpSet, Err: err}
	}

	return previous, nil
}

// currentGeneration returns the generation behind alias, or "" if it was never promoted.
func (s *Store) currentGeneration(ctx context.Context, alias string) (string, error) {
	cmd := s.b().Get().Key(s.aliasKey(alias)).Build()
	gen, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", nil
		}
		return "", &db.Error{Op: db.OpGet, Err: err}
	}
	return gen, nil
}

// resolve maps an alias to its current generation; other names pass through.
func (s *Store) resolve(ctx context.Context, name string) (string, error) {
	gen, err := s.currentGeneration(ctx, name)
	if err != nil {
		return "", err
	}
	if gen == "" {
		return name, nil
	}
	return gen, nil
}
