package services

import (
	"context"
	"fmt"

	"aifinder/internal/apperror"
	"aifinder/internal/domain"
	"aifinder/internal/repos"
	"aifinder/internal/validate"
)

type RatingService struct {
	Repo *repos.RatingRepo
}

func NewRatingService(r *repos.RatingRepo) *RatingService { return &RatingService{Repo: r} }

// Rate records the user's rating and returns the network's new average,
// rounded to one decimal. Out-of-range values are rejected before any write.
func (s *RatingService) Rate(ctx context.Context, userID, neuroID int64, value int) (repos.Aggregate, error) {
	if !validate.Rating(value, domain.MinRating, domain.MaxRating) {
		return repos.Aggregate{}, apperror.InvalidInput("rating_value",
			fmt.Sprintf("rating_value must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	return s.Repo.Rate(ctx, userID, neuroID, value)
}
