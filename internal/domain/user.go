package domain

type User struct {
	ID       int64  `db:"user_id"`
	Email    string `db:"email"`
	Username string `db:"username"`
	Hash     string `db:"password_hash"`
}
