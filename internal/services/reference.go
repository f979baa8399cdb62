package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ams-portal/internal/dto"
	"ams-portal/internal/entities"
	"ams-portal/internal/repositories"
)

const (
	cacheKeyPriorities  = "reference:priorities"
	cacheKeyCategories  = "reference:ams_categories"
	cacheKeyStatuses    = "reference:statuses"
	cacheKeyTicketTypes = "reference:ticket_types"
)

type ReferenceServiceInterface interface {
	ReferenceProvider
	Statuses(ctx context.Context) ([]*entities.TicketStatus, error)
	TicketTypes(ctx context.Context) ([]*entities.TicketType, error)
	FormData(ctx context.Context) (*dto.ReferenceFormDataDTO, error)
	Invalidate(ctx context.Context)
}

// ReferenceService serves the slow-moving lookup lists through a
// read-through redis cache. A cache failure is only logged; the database
// stays the source of truth.
type ReferenceService struct {
	repo   repositories.ReferenceRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	ttl    time.Duration
	logger *zap.Logger
}

func NewReferenceService(
	repo repositories.ReferenceRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) ReferenceServiceInterface {
	return &ReferenceService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func cachedList[T any](ctx context.Context, s *ReferenceService, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var items []T
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return items, nil
		}
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
		_ = s.cache.Delete(ctx, key)
	}

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
			s.logger.Warn("failed to cache reference list", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

func (s *ReferenceService) Priorities(ctx context.Context) ([]*entities.Priority, error) {
	return cachedList(ctx, s, cacheKeyPriorities, s.repo.GetPriorities)
}

func (s *ReferenceService) AMSCategories(ctx context.Context) ([]*entities.TicketCategory, error) {
	return cachedList(ctx, s, cacheKeyCategories, s.repo.GetAMSCategories)
}

func (s *ReferenceService) Statuses(ctx context.Context) ([]*entities.TicketStatus, error) {
	return cachedList(ctx, s, cacheKeyStatuses, s.repo.GetStatuses)
}

func (s *ReferenceService) TicketTypes(ctx context.Context) ([]*entities.TicketType, error) {
	return cachedList(ctx, s, cacheKeyTicketTypes, s.repo.GetTicketTypes)
}

// FormData returns everything the ticket form needs in one response, with
// the four lists fetched in parallel.
func (s *ReferenceService) FormData(ctx context.Context) (*dto.ReferenceFormDataDTO, error) {
	var form dto.ReferenceFormDataDTO

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		priorities, err := s.Priorities(gctx)
		if err != nil {
			return err
		}
		for _, p := range priorities {
			form.Priorities = append(form.Priorities, dto.ReferenceItemDTO{ID: p.ID, Name: p.Name})
		}
		return nil
	})
	g.Go(func() error {
		categories, err := s.AMSCategories(gctx)
		if err != nil {
			return err
		}
		for _, c := range categories {
			form.Categories = append(form.Categories, dto.ReferenceItemDTO{ID: c.ID, Name: c.Name})
		}
		return nil
	})
	g.Go(func() error {
		statuses, err := s.Statuses(gctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			form.Statuses = append(form.Statuses, dto.ReferenceItemDTO{ID: st.ID, Name: st.Name})
		}
		return nil
	})
	g.Go(func() error {
		ticketTypes, err := s.TicketTypes(gctx)
		if err != nil {
			return err
		}
		for _, t := range ticketTypes {
			form.Types = append(form.Types, dto.ReferenceItemDTO{ID: t.ID, Name: t.Name})
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &form, nil
}

func (s *ReferenceService) Invalidate(ctx context.Context) {
	for _, key := range []string{cacheKeyPriorities, cacheKeyCategories, cacheKeyStatuses, cacheKeyTicketTypes} {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to invalidate reference cache", zap.String("key", key), zap.Error(err))
		}
	}
}
