package service

import (
	"context"

	"github.com/donordarah/donor-darah-api/internal/model"
)

// StatsService aggregates a donor's history.
type StatsService struct {
	donations DonationStore
}

func NewStatsService(donations DonationStore) *StatsService {
	return &StatsService{donations: donations}
}

// ForUser summarises the completed donations of userID. A donor without
// donations gets zero totals and no last date.
func (s *StatsService) ForUser(ctx context.Context, userID uint64) (model.UserStats, error) {
	list, err := s.donations.ListByUser(ctx, userID)
	if err != nil {
		return model.UserStats{}, err
	}
	return Summarize(list), nil
}

// Summarize counts completed donations, sums their quantity and picks the
// latest donation date among them. Other states are ignored.
func Summarize(donations []model.DonationView) model.UserStats {
	var st model.UserStats
	for _, d := range donations {
		if d.Status != model.StatusCompleted {
			continue
		}
		st.TotalDonations++
		st.TotalBloodDonated += d.Quantity
		if st.LastDonation == nil || d.DonationDate.After(st.LastDonation.Time) {
			last := d.DonationDate
			st.LastDonation = &last
		}
	}
	return st
}
