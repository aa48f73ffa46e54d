package repos

import (
	"context"

	"aifinder/internal/apperror"
	"aifinder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
  SELECT category_id, category_name
  FROM neuro_categories
  ORDER BY category_name, category_id
`)
	if err != nil {
		return nil, apperror.Store("list categories", err)
	}
	return out, nil
}
