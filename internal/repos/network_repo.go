package repos

import (
	"context"
	"database/sql"
	"errors"

	"aifinder/internal/apperror"
	"aifinder/internal/domain"

	"github.com/jmoiron/sqlx"
)

// NetworkRepo reads catalog items ("networks") together with the name of
// their owning category.
type NetworkRepo struct{ db *sqlx.DB }

func NewNetworkRepo(db *sqlx.DB) *NetworkRepo { return &NetworkRepo{db: db} }

const networkColumns = `
    n.neuro_id, n.name, n.description, n.category_id, c.category_name,
    n.average_rating, n.rating_count`

func (r *NetworkRepo) Search(ctx context.Context, f domain.ItemFilter) ([]domain.Item, error) {
	filter := Filter{Lower: lowerFunc(r.db)}
	if f.CategoryID != nil {
		filter.Eq("n.category_id", *f.CategoryID)
	}
	if f.Search != "" {
		filter.ContainsFold(f.Search, "n.name", "n.description")
	}
	where, args := filter.Where()

	query := `
  SELECT` + networkColumns + `
  FROM neural_networks n
  JOIN neuro_categories c ON c.category_id = n.category_id` + where + `
  ORDER BY n.name, n.neuro_id`

	out := []domain.Item{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, apperror.Store("search networks", err)
	}
	return out, nil
}

func (r *NetworkRepo) Get(ctx context.Context, id int64) (domain.Item, error) {
	var it domain.Item
	err := r.db.GetContext(ctx, &it, r.db.Rebind(`
  SELECT`+networkColumns+`
  FROM neural_networks n
  JOIN neuro_categories c ON c.category_id = n.category_id
  WHERE n.neuro_id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, apperror.NotFound("network", id)
	}
	if err != nil {
		return domain.Item{}, apperror.Store("get network", err)
	}
	return it, nil
}
