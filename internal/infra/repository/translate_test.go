package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, "session", 1))

	err := translate(fmt.Errorf("first: %w", gorm.ErrRecordNotFound), "session", 4)
	assert.ErrorIs(t, err, httperr.ErrNotFound)
	assert.True(t, httperr.IsBusiness(err, "session_not_found"))

	for _, code := range []string{"40001", "40P01", "55P03", "23505"} {
		err := translate(&pgconn.PgError{Code: code}, "session", 4)
		assert.ErrorIs(t, err, httperr.ErrConcurrentModification, code)
	}

	plain := errors.New("connection reset")
	assert.Same(t, plain, translate(plain, "session", 4))

	other := &pgconn.PgError{Code: "23502"}
	assert.Equal(t, error(other), translate(other, "session", 4))
}
