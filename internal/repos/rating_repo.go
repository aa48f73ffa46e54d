package repos

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"aifinder/internal/apperror"
	"aifinder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type RatingRepo struct{ db *sqlx.DB }

func NewRatingRepo(db *sqlx.DB) *RatingRepo { return &RatingRepo{db: db} }

// Aggregate is the recomputed summary persisted onto the network row.
type Aggregate struct {
	Average float64 // rounded to one decimal
	Count   int
}

// Rate upserts the user's rating for a network and recomputes the network's
// average from every current rating, all in one transaction. The network row
// is locked first so concurrent raters of the same network serialize and
// each recomputation sees every committed rating.
func (r *RatingRepo) Rate(ctx context.Context, userID, neuroID int64, value int) (Aggregate, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return Aggregate{}, apperror.Store("begin rating", err)
	}
	defer func() { _ = tx.Rollback() }()

	lock := `SELECT neuro_id FROM neural_networks WHERE neuro_id = ?`
	if isPostgres(r.db) {
		lock += ` FOR UPDATE`
	}
	var locked int64
	err = tx.GetContext(ctx, &locked, tx.Rebind(lock), neuroID)
	if errors.Is(err, sql.ErrNoRows) {
		return Aggregate{}, apperror.NotFound("network", neuroID)
	}
	if err != nil {
		return Aggregate{}, apperror.Store("lock network", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
	  INSERT INTO ratings(user_id, neuro_id, rating_value)
	  VALUES(?, ?, ?)
	  ON CONFLICT(user_id, neuro_id) DO UPDATE
	    SET rating_value = excluded.rating_value,
	        updated_at   = CURRENT_TIMESTAMP
	`), userID, neuroID, value)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Aggregate{}, apperror.NotFound("user", userID)
		}
		return Aggregate{}, apperror.Store("upsert rating", err)
	}

	var stats struct {
		Avg   sql.NullFloat64 `db:"avg"`
		Count int             `db:"cnt"`
	}
	err = tx.GetContext(ctx, &stats, tx.Rebind(`
	  SELECT AVG(rating_value) AS avg, COUNT(*) AS cnt
	  FROM ratings
	  WHERE neuro_id = ?
	`), neuroID)
	if err != nil {
		return Aggregate{}, apperror.Store("average ratings", err)
	}
	agg := Aggregate{Average: RoundRating(stats.Avg.Float64), Count: stats.Count}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
	  UPDATE neural_networks
	  SET average_rating = ?, rating_count = ?
	  WHERE neuro_id = ?
	`), agg.Average, agg.Count, neuroID)
	if err != nil {
		return Aggregate{}, apperror.Store("update average rating", err)
	}

	if err := tx.Commit(); err != nil {
		return Aggregate{}, apperror.Store("commit rating", err)
	}
	return agg, nil
}

// ForNetwork lists the current ratings of a network, oldest rater first.
func (r *RatingRepo) ForNetwork(ctx context.Context, neuroID int64) ([]domain.Rating, error) {
	out := []domain.Rating{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
	  SELECT user_id, neuro_id, rating_value
	  FROM ratings
	  WHERE neuro_id = ?
	  ORDER BY user_id
	`), neuroID)
	if err != nil {
		return nil, apperror.Store("list ratings", err)
	}
	return out, nil
}

// RoundRating rounds a mean to one decimal place.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
