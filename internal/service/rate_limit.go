package service

import (
	"context"
	"fmt"

	"chat_gateway/internal/config"
	"chat_gateway/internal/repository"
	"chat_gateway/pkg/logger"
)

type RateLimitService interface {
	// Allow учитывает запрос и сообщает, укладывается ли key в лимит окна
	Allow(ctx context.Context, key string) (bool, error)
}

type rateLimitService struct {
	rateLimitRepo repository.RateLimitRepository
	cfg           config.RateLimitConfig
	log           logger.Logger
}

func NewRateLimitService(rateLimitRepo repository.RateLimitRepository, cfg config.RateLimitConfig, log logger.Logger) RateLimitService {
	return &rateLimitService{
		rateLimitRepo: rateLimitRepo,
		cfg:           cfg,
		log:           log,
	}
}

func (s *rateLimitService) Allow(ctx context.Context, key string) (bool, error) {
	key = fmt.Sprintf("rate_limit:%s", key)

	allowed, err := s.rateLimitRepo.CheckLimit(ctx, key, s.cfg.Limit)
	if err != nil || !allowed {
		return allowed, err
	}

	if _, err := s.rateLimitRepo.Increment(ctx, key, s.cfg.Window); err != nil {
		return false, err
	}
	return true, nil
}
