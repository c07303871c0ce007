package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewRequiresPath(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, nil)
	require.Error(t, err)
}

func TestNewOpensAndPings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	client, err := New(context.Background(), config.DBConfig{Path: path}, nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))
	require.NotNil(t, client.DB())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.db")

	client, err := New(context.Background(), config.DBConfig{Path: path}, nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.DB().Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`).Error)

	errRollback := errors.New("force rollback")
	err = client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO notes (body) VALUES ('temp')`).Error; err != nil {
			return err
		}
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)

	var count int64
	require.NoError(t, client.DB().Raw(`SELECT COUNT(*) FROM notes`).Scan(&count).Error)
	require.Zero(t, count)
}
