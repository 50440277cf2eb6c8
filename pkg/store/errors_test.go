package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageErrorUnwraps(t *testing.T) {
	err := NewStorageError("failed to get admission", sql.ErrConnDone)

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Contains(t, err.Error(), "failed to get admission")

	var se *StorageError
	assert.True(t, errors.As(error(err), &se))
}
