package repos

import (
	"context"

	"aifinder/internal/apperror"
	"aifinder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// AddNetwork links a user to a network. An existing link is left alone and
// reported as created=false; an unknown user or network is NotFound.
func (r *FavoriteRepo) AddNetwork(ctx context.Context, userID, neuroID int64) (created bool, err error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO user_favorites(user_id, neuro_id)
	  VALUES(?, ?)
	  ON CONFLICT(user_id, neuro_id) DO NOTHING
	`), userID, neuroID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperror.NotFound("user or network", neuroID)
		}
		return false, apperror.Store("add favorite network", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperror.Store("add favorite network", err)
	}
	return n > 0, nil
}

func (r *FavoriteRepo) AddCategory(ctx context.Context, userID, categoryID int64) (created bool, err error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO favorite_categories(user_id, category_id)
	  VALUES(?, ?)
	  ON CONFLICT(user_id, category_id) DO NOTHING
	`), userID, categoryID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperror.NotFound("user or category", categoryID)
		}
		return false, apperror.Store("add favorite category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperror.Store("add favorite category", err)
	}
	return n > 0, nil
}

// ListNetworks returns the user's favorite networks, most recently added
// first. favorite_id breaks ties between links created in the same second.
func (r *FavoriteRepo) ListNetworks(ctx context.Context, userID int64) ([]domain.Item, error) {
	out := []domain.Item{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
	  SELECT`+networkColumns+`
	  FROM user_favorites uf
	  JOIN neural_networks n  ON n.neuro_id = uf.neuro_id
	  JOIN neuro_categories c ON c.category_id = n.category_id
	  WHERE uf.user_id = ?
	  ORDER BY uf.created_at DESC, uf.favorite_id DESC
	`), userID)
	if err != nil {
		return nil, apperror.Store("list favorite networks", err)
	}
	return out, nil
}

func (r *FavoriteRepo) ListCategories(ctx context.Context, userID int64) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`
	  SELECT c.category_id, c.category_name
	  FROM favorite_categories fc
	  JOIN neuro_categories c ON c.category_id = fc.category_id
	  WHERE fc.user_id = ?
	  ORDER BY fc.created_at DESC, fc.favorite_id DESC
	`), userID)
	if err != nil {
		return nil, apperror.Store("list favorite categories", err)
	}
	return out, nil
}
