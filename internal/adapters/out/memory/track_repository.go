package memory

import (
	"context"
	"slices"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
)

type TrackRepository struct {
	mu     sync.RWMutex
	tracks map[kernel.UUID][]tracking.Sample
}

func NewTrackRepository() *TrackRepository {
	return &TrackRepository{tracks: make(map[kernel.UUID][]tracking.Sample)}
}

var _ ports.TrackRepository = (*TrackRepository)(nil)

func (r *TrackRepository) Append(_ context.Context, s tracking.Sample) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tracks[s.OrderID()] {
		if existing.PartnerID().IsEqual(s.PartnerID()) && existing.RecordedAt().Equal(s.RecordedAt()) {
			return tracking.ErrDuplicateSample
		}
	}
	r.tracks[s.OrderID()] = append(r.tracks[s.OrderID()], s)
	return nil
}

func (r *TrackRepository) Last(_ context.Context, orderID, partnerID kernel.UUID) (tracking.Sample, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	track := r.tracks[orderID]
	for i := len(track) - 1; i >= 0; i-- {
		if track[i].PartnerID().IsEqual(partnerID) {
			return track[i], true, nil
		}
	}
	return tracking.Sample{}, false, nil
}

func (r *TrackRepository) List(_ context.Context, orderID kernel.UUID) ([]tracking.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.tracks[orderID])
	if out == nil {
		out = []tracking.Sample{}
	}
	return out, nil
}
