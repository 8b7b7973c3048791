package signature

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/dao/query"
	"github.com/hubtav/tavlist/pkg/storage"
)

var testNow = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

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

type recordingStore struct {
	mu      sync.Mutex
	inner   storage.Store
	uploads []string
	fail    bool
}

func (r *recordingStore) Upload(ctx context.Context, bucket, p string, data []byte, ct string) (string, error) {
	if r.fail {
		return "", errors.New("bucket offline")
	}
	r.mu.Lock()
	r.uploads = append(r.uploads, bucket+"/"+p)
	r.mu.Unlock()
	return r.inner.Upload(ctx, bucket, p, data, ct)
}

func (r *recordingStore) Remove(ctx context.Context, bucket, p string) error {
	return r.inner.Remove(ctx, bucket, p)
}

func newTestService(t *testing.T, opts ...Option) (*Service, *gorm.DB, *recordingStore) {
	t.Helper()
	db := newTestDB(t)
	store := &recordingStore{inner: storage.NewLocal(t.TempDir(), "http://files.test")}
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewService(db, store, opts...), db, store
}

func seedStage(t *testing.T, db *gorm.DB, status model.StageStatus) (model.Project, model.Stage) {
	t.Helper()
	creator := model.Profile{UserID: uuid.NewString(), FullName: "Admin", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, db.Create(&creator).Error)
	project := model.Project{
		Name:         "Residencial Aurora",
		ClientName:   "Maria Silva",
		ClientEmail:  "maria@example.com",
		Status:       model.ProjectInProgress,
		StartDate:    testNow,
		ExpectedDate: testNow.AddDate(0, 3, 0),
		CreatorID:    creator.ID,
	}
	require.NoError(t, db.Create(&project).Error)
	stage := model.Stage{ProjectID: project.ID, Title: "Fundação", Ordinal: 1, Status: status}
	require.NoError(t, db.Create(&stage).Error)
	return project, stage
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
