package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"aifinder/internal/apperror"
	"aifinder/internal/domain"
	"aifinder/internal/repos"
	"aifinder/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.MustExec(`
	INSERT INTO neuro_categories(category_id, category_name) VALUES (1,'Text');
	INSERT INTO neural_networks(neuro_id, name, description, category_id) VALUES (10,'Bot','desc',1);
	`)
	return db
}

func newAuth(t *testing.T, db *sqlx.DB) *services.AuthService {
	t.Helper()
	auth, err := services.NewAuthService(repos.NewUserRepo(db), bcrypt.MinCost)
	require.NoError(t, err)
	return auth
}

func TestRegisterHashesPassword(t *testing.T) {
	db := memdb(t)
	auth := newAuth(t, db)

	id, err := auth.Register(context.Background(), " Neo@Example.com ", "Neo", "followthewhiterabbit")
	require.NoError(t, err)

	var u domain.User
	require.NoError(t, db.Get(&u, `SELECT user_id,email,username,password_hash FROM users WHERE user_id = ?`, id))
	assert.Equal(t, "neo@example.com", u.Email)
	assert.NotContains(t, u.Hash, "followthewhiterabbit")
	assert.True(t, strings.HasPrefix(u.Hash, "$2"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte("followthewhiterabbit")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := memdb(t)
	auth := newAuth(t, db)
	ctx := context.Background()

	_, err := auth.Register(ctx, "neo@example.com", "Neo", "followthewhiterabbit")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "NEO@example.com", "Thomas", "anotherpassword")
	assert.ErrorIs(t, err, apperror.ErrDuplicateEmail)

	n, err := repos.NewUserRepo(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	db := memdb(t)
	auth := newAuth(t, db)

	tests := []struct {
		name, email, username, password, field string
	}{
		{"bad email", "neo", "Neo", "followthewhiterabbit", "email"},
		{"empty username", "neo@example.com", " ", "followthewhiterabbit", "username"},
		{"short password", "neo@example.com", "Neo", "short", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(context.Background(), tt.email, tt.username, tt.password)
			require.ErrorIs(t, err, apperror.ErrInvalidInput)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestLogin(t *testing.T) {
	db := memdb(t)
	auth := newAuth(t, db)
	ctx := context.Background()

	id, err := auth.Register(ctx, "neo@example.com", "Neo", "followthewhiterabbit")
	require.NoError(t, err)

	u, err := auth.Login(ctx, "Neo@example.com", "followthewhiterabbit")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Neo", u.Username)

	_, wrongPass := auth.Login(ctx, "neo@example.com", "bluepill")
	_, unknown := auth.Login(ctx, "smith@example.com", "followthewhiterabbit")
	require.ErrorIs(t, wrongPass, apperror.ErrInvalidCredentials)
	require.ErrorIs(t, unknown, apperror.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
	assert.Equal(t, apperror.Public(wrongPass), apperror.Public(unknown))
}

func TestRateRejectsOutOfRangeBeforeWriting(t *testing.T) {
	db := memdb(t)
	svc := services.NewRatingService(repos.NewRatingRepo(db))

	for _, v := range []int{0, 6, -3} {
		_, err := svc.Rate(context.Background(), 1, 10, v)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	}

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM ratings`))
	assert.Zero(t, n)
}

func TestRateReturnsNewAverage(t *testing.T) {
	db := memdb(t)
	auth := newAuth(t, db)
	ctx := context.Background()
	u1, err := auth.Register(ctx, "u1@example.com", "u1", "password1")
	require.NoError(t, err)
	u2, err := auth.Register(ctx, "u2@example.com", "u2", "password2")
	require.NoError(t, err)

	svc := services.NewRatingService(repos.NewRatingRepo(db))
	_, err = svc.Rate(ctx, u1, 10, 4)
	require.NoError(t, err)
	agg, err := svc.Rate(ctx, u2, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 4.5, agg.Average)
	assert.Equal(t, 2, agg.Count)
}

func TestFavoritesForUnknownUser(t *testing.T) {
	db := memdb(t)
	svc := services.NewFavoriteService(repos.NewFavoriteRepo(db), repos.NewUserRepo(db))
	ctx := context.Background()

	_, err := svc.ListNetworks(ctx, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.ListCategories(ctx, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.AddNetwork(ctx, 42, 10)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFavoritesRoundTrip(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	uid, err := newAuth(t, db).Register(ctx, "u1@example.com", "u1", "password1")
	require.NoError(t, err)
	svc := services.NewFavoriteService(repos.NewFavoriteRepo(db), repos.NewUserRepo(db))

	created, err := svc.AddNetwork(ctx, uid, 10)
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.AddNetwork(ctx, uid, 10)
	require.NoError(t, err)
	assert.False(t, created)

	items, err := svc.ListNetworks(ctx, uid)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bot", items[0].Name)

	_, err = svc.AddCategory(ctx, uid, 1)
	require.NoError(t, err)
	cats, err := svc.ListCategories(ctx, uid)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Text", cats[0].Name)
}

func TestCatalogNetworkRatings(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	catalog := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewNetworkRepo(db), repos.NewRatingRepo(db))

	_, err := catalog.NetworkRatings(ctx, 99)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	ratings, err := catalog.NetworkRatings(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}
