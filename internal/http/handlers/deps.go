package handlers

import (
	"aifinder/internal/config"
	"aifinder/internal/metrics"
	"aifinder/internal/repos"
	"aifinder/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	NetworkHandler  *NetworkHandler
	FavoriteHandler *FavoriteHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, m *metrics.Metrics) (*Deps, error) {
	catRepo := repos.NewCategoryRepo(db)
	netRepo := repos.NewNetworkRepo(db)
	favRepo := repos.NewFavoriteRepo(db)
	ratingRepo := repos.NewRatingRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, netRepo, ratingRepo)
	ratingSvc := services.NewRatingService(ratingRepo)
	favSvc := services.NewFavoriteService(favRepo, userRepo)
	authSvc, err := services.NewAuthService(userRepo, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc, Timeout: cfg.DBTimeout},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc, Timeout: cfg.DBTimeout},
		NetworkHandler:  &NetworkHandler{Catalog: catalogSvc, Rater: ratingSvc, Metrics: m, Timeout: cfg.DBTimeout},
		FavoriteHandler: &FavoriteHandler{Favorites: favSvc, Metrics: m, Timeout: cfg.DBTimeout},
	}, nil
}
