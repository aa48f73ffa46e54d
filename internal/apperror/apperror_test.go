package apperror

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"invalid input", InvalidInput("email", "bad email"), ErrInvalidInput},
		{"duplicate email", DuplicateEmail(), ErrDuplicateEmail},
		{"invalid credentials", InvalidCredentials(), ErrInvalidCredentials},
		{"not found", NotFound("network", 10), ErrNotFound},
		{"store", Store("list networks", sql.ErrConnDone), ErrStore},
		{"wrapped not found", fmt.Errorf("rate: %w", NotFound("network", 1)), ErrNotFound},
		{"unclassified", errors.New("boom"), ErrStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestStoreKeepsCauseButHidesIt(t *testing.T) {
	err := Store("list networks", sql.ErrConnDone)

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), sql.ErrConnDone.Error())
	assert.NotContains(t, Public(err), "connection")
}

func TestPublic(t *testing.T) {
	assert.Equal(t, "network 7 not found", Public(NotFound("network", 7)))
	assert.Equal(t, "invalid email or password", Public(InvalidCredentials()))
	assert.Equal(t, "an internal error occurred", Public(errors.New("pq: relation does not exist")))
}
