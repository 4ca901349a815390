package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go.uber.org/zap"
)

// Slot is one typed value in a scope. Load falls back to the default on any problem
// (missing, unreachable, undecodable, invalid); Save and Clear log failures and return.
// Read tells an unreachable backend apart from the rest.
type Slot[T any] struct {
	backend  Backend
	scope    string
	key      string
	def      func() T
	validate func(T) error
	log      *zap.Logger
}

func NewSlot[T any](b Backend, scope, key string, def func() T, validate func(T) error, log *zap.Logger) *Slot[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Slot[T]{
		backend:  b,
		scope:    scope,
		key:      key,
		def:      def,
		validate: validate,
		log:      log.With(zap.String("scope", scope), zap.String("slot", key)),
	}
}

// Read is Load for callers that must not mistake an unreachable backend for an empty
// slot: a failed read is returned, while missing or corrupt content still gives the default.
func (s *Slot[T]) Read(ctx context.Context) (T, error) {
	raw, err := s.backend.Get(ctx, s.scope, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.log.Debug("slot empty, using default")
			return s.def(), nil
		}
		return s.def(), fmt.Errorf("read %s/%s: %w", s.scope, s.key, err)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn("slot corrupt, using default", zap.Error(err), zap.Int("bytes", len(raw)))
		return s.def(), nil
	}
	if s.validate != nil {
		if err := s.validate(v); err != nil {
			s.log.Warn("slot failed validation, using default", zap.Error(err))
			return s.def(), nil
		}
	}
	return v, nil
}

func (s *Slot[T]) Load(ctx context.Context) T {
	v, err := s.Read(ctx)
	if err != nil {
		s.log.Warn("slot read failed, using default", zap.Error(err))
	}
	return v
}

func (s *Slot[T]) Save(ctx context.Context, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Error("slot encode failed", zap.Error(err))
		return
	}
	if err := s.backend.Set(ctx, s.scope, s.key, raw); err != nil {
		s.log.Error("slot write failed", zap.Error(err))
	}
}

func (s *Slot[T]) Clear(ctx context.Context) {
	if err := s.backend.Delete(ctx, s.scope, s.key); err != nil {
		s.log.Error("slot remove failed", zap.Error(err))
	}
}
