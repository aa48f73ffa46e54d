package domain

type Category struct {
	ID   int64  `db:"category_id" json:"category_id"`
	Name string `db:"category_name" json:"category_name"`
}

// Item is a catalog entry ("network"). CategoryName is denormalized from
// the owning category on every read.
type Item struct {
	ID            int64    `db:"neuro_id" json:"neuro_id"`
	Name          string   `db:"name" json:"name"`
	Description   string   `db:"description" json:"description"`
	CategoryID    int64    `db:"category_id" json:"category_id"`
	CategoryName  string   `db:"category_name" json:"category_name"`
	AverageRating *float64 `db:"average_rating" json:"average_rating"` // nil until first rating
	RatingCount   int      `db:"rating_count" json:"rating_count"`
}

// ItemFilter holds the optional catalog search filters. A nil CategoryID and
// an empty Search mean "no constraint".
type ItemFilter struct {
	CategoryID *int64
	Search     string
}

type Rating struct {
	UserID int64 `db:"user_id" json:"user_id"`
	ItemID int64 `db:"neuro_id" json:"neuro_id"`
	Value  int   `db:"rating_value" json:"rating_value"`
}

const (
	MinRating = 1
	MaxRating = 5
)
