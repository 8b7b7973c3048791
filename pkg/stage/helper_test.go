package stage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/dao/query"
	"github.com/hubtav/tavlist/pkg/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := query.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, query.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	store := storage.NewLocal(t.TempDir(), "http://files.test")
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return NewService(db, store, WithClock(func() time.Time { return fixed })), db
}

func seedProfile(t *testing.T, db *gorm.DB, name string) model.Profile {
	t.Helper()
	p := model.Profile{UserID: uuid.NewString(), FullName: name, Email: uuid.NewString() + "@example.com"}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedProject(t *testing.T, db *gorm.DB) model.Project {
	t.Helper()
	creator := seedProfile(t, db, "Admin")
	p := model.Project{
		Name:         "Casa Azul",
		ClientName:   "Maria Silva",
		ClientEmail:  "maria@example.com",
		Status:       model.ProjectNotStarted,
		StartDate:    time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		ExpectedDate: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		CreatorID:    creator.ID,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

type failingStore struct{}

func (failingStore) Upload(context.Context, string, string, []byte, string) (string, error) {
	return "", errors.New("bucket offline")
}

func (failingStore) Remove(context.Context, string, string) error { return nil }
