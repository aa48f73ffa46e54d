package services

import (
	"context"

	"aifinder/internal/domain"
	"aifinder/internal/repos"
)

type FavoriteService struct {
	Repo  *repos.FavoriteRepo
	Users *repos.UserRepo
}

func NewFavoriteService(r *repos.FavoriteRepo, users *repos.UserRepo) *FavoriteService {
	return &FavoriteService{Repo: r, Users: users}
}

// AddNetwork is idempotent: repeating it reports created=false and no error.
func (s *FavoriteService) AddNetwork(ctx context.Context, userID, neuroID int64) (bool, error) {
	return s.Repo.AddNetwork(ctx, userID, neuroID)
}

func (s *FavoriteService) AddCategory(ctx context.Context, userID, categoryID int64) (bool, error) {
	return s.Repo.AddCategory(ctx, userID, categoryID)
}

func (s *FavoriteService) ListNetworks(ctx context.Context, userID int64) ([]domain.Item, error) {
	if _, err := s.Users.ByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.Repo.ListNetworks(ctx, userID)
}

func (s *FavoriteService) ListCategories(ctx context.Context, userID int64) ([]domain.Category, error) {
	if _, err := s.Users.ByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.Repo.ListCategories(ctx, userID)
}
