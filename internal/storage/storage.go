package storage

import (
	"context"
	"errors"

	"depthScope/internal/model"
)

// Sink persists snapshots.
type Sink interface {
	PutDepthSnapshot(ctx context.Context, snap model.DepthSnapshot) error
	PutPoolList(ctx context.Context, coinA, coinB string, entries []model.PoolListEntry) error
}

// Multi fans out to every sink and joins their errors.
type Multi []Sink

func (m Multi) PutDepthSnapshot(ctx context.Context, snap model.DepthSnapshot) error {
	var errs []error
	for _, s := range m {
		if err := s.PutDepthSnapshot(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) PutPoolList(ctx context.Context, coinA, coinB string, entries []model.PoolListEntry) error {
	var errs []error
	for _, s := range m {
		if err := s.PutPoolList(ctx, coinA, coinB, entries); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
