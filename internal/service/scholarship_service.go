package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/scholarship-portal-api/internal/dto"
	"github.com/noah-isme/scholarship-portal-api/internal/repository"
)

const openScholarshipsCacheKey = "scholarships:open"

// ScholarshipService serves the scholarship browse pages.
type ScholarshipService interface {
	ListOpen(ctx context.Context) ([]dto.ScholarshipResponse, error)
	Get(ctx context.Context, id uint) (dto.ScholarshipResponse, error)
}

type scholarshipService struct {
	repo     repository.ScholarshipRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewScholarshipService builds the browse service. A nil cache disables caching.
func NewScholarshipService(repo repository.ScholarshipRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ScholarshipService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &scholarshipService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "scholarship_service").Logger(),
		now:      time.Now,
	}
}

func (s *scholarshipService) ListOpen(ctx context.Context) ([]dto.ScholarshipResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, openScholarshipsCacheKey).Result(); err == nil {
			var response []dto.ScholarshipResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("scholarship cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read scholarship cache")
		}
	}

	now := s.now().UTC()
	items, err := s.repo.ListOpen(ctx, now)
	if err != nil {
		return nil, err
	}

	response := make([]dto.ScholarshipResponse, 0, len(items))
	for _, item := range items {
		response = append(response, dto.NewScholarshipResponse(item, now))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, openScholarshipsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store scholarship cache")
			}
		}
	}

	return response, nil
}

func (s *scholarshipService) Get(ctx context.Context, id uint) (dto.ScholarshipResponse, error) {
	scholarship, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScholarshipResponse{}, ErrScholarshipNotFound
		}
		return dto.ScholarshipResponse{}, fmt.Errorf("load scholarship %d: %w", id, err)
	}
	return dto.NewScholarshipResponse(scholarship, s.now().UTC()), nil
}
