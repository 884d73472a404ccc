package application

import (
	"context"

	repo "github.com/oksasatya/internship-portal/internal/domain/repository"
)

type Stats struct {
	InternshipCount  int64 `json:"internship_count"`
	ApplicationCount int64 `json:"application_count"`
	UserCount        int64 `json:"user_count"`
}

// StatsService backs the about pages.
type StatsService struct {
	Internships  repo.InternshipRepository
	Applications repo.ApplicationRepository
	Users        repo.UserRepository
}

func NewStatsService(internships repo.InternshipRepository, apps repo.ApplicationRepository, users repo.UserRepository) *StatsService {
	return &StatsService{Internships: internships, Applications: apps, Users: users}
}

func (s *StatsService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.InternshipCount, err = s.Internships.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.ApplicationCount, err = s.Applications.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.UserCount, err = s.Users.Count(ctx); err != nil {
		return Stats{}, err
	}
	return st, nil
}
