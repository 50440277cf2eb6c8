package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/store"
)

func TestParseServerVersion(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "15.4", want: "15.4.0"},
		{raw: "16.1 (Debian 16.1-1.pgdg120+1)", want: "16.1.0"},
		{raw: "", wantErr: true},
		{raw: "devel", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := parseServerVersion(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestNotFoundOr(t *testing.T) {
	err := notFoundOr(sql.ErrNoRows, "admission 7", "failed to get admission")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, err.Error(), "admission 7")

	cause := errors.New("connection reset")
	err = notFoundOr(cause, "admission 7", "failed to get admission")
	var storageErr *store.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, cause)
}
