package services

import (
	"context"

	"github.com/nexusarena/tournament-service/models"
	"github.com/nexusarena/tournament-service/repositories"
	"golang.org/x/sync/errgroup"
)

// DashboardStats is the admin overview of the tournament collection.
type DashboardStats struct {
	TotalTournaments  int64 `json:"totalTournaments"`
	Upcoming          int64 `json:"upcoming"`
	Ongoing           int64 `json:"ongoing"`
	Completed         int64 `json:"completed"`
	TotalParticipants int64 `json:"totalParticipants"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	repo repositories.TournamentRepository
}

func NewDashboardService(repo repositories.TournamentRepository) DashboardService {
	return &dashboardService{repo: repo}
}

// Stats gathers the counts in parallel; the first failing count aborts the
// rest.
func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.CountAll(gCtx)
		stats.TotalTournaments = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountByStatus(gCtx, models.StatusUpcoming)
		stats.Upcoming = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountByStatus(gCtx, models.StatusOngoing)
		stats.Ongoing = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountByStatus(gCtx, models.StatusCompleted)
		stats.Completed = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountParticipants(gCtx)
		stats.TotalParticipants = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
