package service

import (
	"github.com/codewithsuzan/Momento/internal/model"
	"github.com/codewithsuzan/Momento/internal/repository/interfaces"
)

// StatsService aggregates whole-system counters for the admin dashboard.
type StatsService struct {
	userRepo interfaces.UserRepository
	postRepo interfaces.PostRepository
}

func NewStatsService(userRepo interfaces.UserRepository, postRepo interfaces.PostRepository) *StatsService {
	return &StatsService{userRepo: userRepo, postRepo: postRepo}
}

func (s *StatsService) GetSystemStats() (*model.SystemStats, error) {
	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	totalPosts, err := s.postRepo.CountPosts()
	if err != nil {
		return nil, err
	}
	totalComments, err := s.postRepo.CountComments()
	if err != nil {
		return nil, err
	}
	totalLikes, err := s.postRepo.CountLikes()
	if err != nil {
		return nil, err
	}

	return &model.SystemStats{
		TotalUsers:    totalUsers,
		TotalPosts:    totalPosts,
		TotalComments: totalComments,
		TotalLikes:    totalLikes,
	}, nil
}
