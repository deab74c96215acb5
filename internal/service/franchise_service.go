package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const statsCacheTTL = 2 * time.Minute

type FranchiseService struct {
	Repo  *repository.FranchiseRepository
	Redis *redis.Client
}

func NewFranchiseService(repo *repository.FranchiseRepository, rdb *redis.Client) *FranchiseService {
	return &FranchiseService{Repo: repo, Redis: rdb}
}

type FranchiseRequest struct {
	Name      string `json:"name" binding:"required"`
	Subdomain string `json:"subdomain" binding:"required"`
	LogoURL   string `json:"logoUrl"`
	Active    *bool  `json:"active"`
}

func (s *FranchiseService) Create(req FranchiseRequest) (*model.Franchise, error) {
	f := &model.Franchise{
		Name:      req.Name,
		Subdomain: req.Subdomain,
		LogoURL:   req.LogoURL,
		Active:    true,
	}
	if req.Active != nil {
		f.Active = *req.Active
	}
	if err := s.Repo.Create(f); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("subdomain %q is already taken", req.Subdomain)
		}
		return nil, err
	}
	return f, nil
}

func (s *FranchiseService) Get(id uint) (*model.Franchise, error) {
	f, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrFranchiseNotFound
	}
	return f, nil
}

func (s *FranchiseService) GetBySubdomain(subdomain string) (*model.Franchise, error) {
	f, err := s.Repo.FindBySubdomain(subdomain)
	if err != nil {
		return nil, util.ErrFranchiseNotFound
	}
	return f, nil
}

func (s *FranchiseService) Update(id uint, req FranchiseRequest) (*model.Franchise, error) {
	f, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	f.Name = req.Name
	f.Subdomain = req.Subdomain
	f.LogoURL = req.LogoURL
	if req.Active != nil {
		f.Active = *req.Active
	}
	if err := s.Repo.Update(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FranchiseService) List(page, limit int) ([]model.Franchise, int64, error) {
	return s.Repo.List(page, limit)
}

// Stats aggregates tenant counters, cached briefly since the dashboard polls.
func (s *FranchiseService) Stats(franchiseID *uint) (*repository.FranchiseStats, error) {
	ctx := context.Background()
	key := "franchise:stats:all"
	if franchiseID != nil {
		key = fmt.Sprintf("franchise:stats:%d", *franchiseID)
	}

	if s.Redis != nil {
		if raw, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var cached repository.FranchiseStats
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	stats, err := s.Repo.Stats(franchiseID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(stats); err == nil {
			s.Redis.Set(ctx, key, raw, statsCacheTTL)
		}
	}
	return stats, nil
}
