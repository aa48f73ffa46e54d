package services

import (
	"context"

	"aifinder/internal/domain"
	"aifinder/internal/repos"
)

type CatalogService struct {
	Cats     *repos.CategoryRepo
	Networks *repos.NetworkRepo
	Ratings  *repos.RatingRepo
}

func NewCatalogService(cats *repos.CategoryRepo, networks *repos.NetworkRepo, ratings *repos.RatingRepo) *CatalogService {
	return &CatalogService{Cats: cats, Networks: networks, Ratings: ratings}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

// Search lists networks matching every filter that is set.
func (s *CatalogService) Search(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	return s.Networks.Search(ctx, f)
}

func (s *CatalogService) GetNetwork(ctx context.Context, id int64) (domain.Item, error) {
	return s.Networks.Get(ctx, id)
}

// NetworkRatings returns the individual ratings behind a network's average.
func (s *CatalogService) NetworkRatings(ctx context.Context, id int64) ([]domain.Rating, error) {
	if _, err := s.Networks.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Ratings.ForNetwork(ctx, id)
}
