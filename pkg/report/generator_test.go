package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/dao/query"
	"github.com/hubtav/tavlist/pkg/apperr"
	"github.com/hubtav/tavlist/pkg/signature"
	"github.com/hubtav/tavlist/pkg/stage"
	"github.com/hubtav/tavlist/pkg/storage"
)

type fakeFetcher struct {
	mu      sync.Mutex
	data    []byte
	broken  map[string]bool
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, url)
	if f.broken[url] {
		return nil, errors.New("unreachable")
	}
	return &Image{Data: f.data, Type: "PNG"}, nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := range 4 {
		for y := range 4 {
			img.Set(x, y, color.RGBA{R: 34, G: 197, B: 94, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

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

func seedProject(t *testing.T, db *gorm.DB, stages int) model.Project {
	t.Helper()
	creator := model.Profile{UserID: uuid.NewString(), FullName: "Admin", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, db.Create(&creator).Error)
	project := model.Project{
		Name:         "Residencial Aurora",
		ClientName:   "Maria Silva",
		ClientEmail:  "maria@example.com",
		Status:       model.ProjectInProgress,
		StartDate:    buildNow,
		ExpectedDate: buildNow.AddDate(0, 3, 0),
		CreatorID:    creator.ID,
	}
	require.NoError(t, db.Create(&project).Error)
	for i := 1; i <= stages; i++ {
		s := model.Stage{
			ProjectID: project.ID,
			Title:     fmt.Sprintf("Etapa %d", i),
			Ordinal:   i,
			Status:    lo.Ternary(i%2 == 1, model.StageApproved, model.StagePending),
		}
		require.NoError(t, db.Create(&s).Error)
		for j := range 4 {
			require.NoError(t, db.Create(&model.StageAttachment{
				StageID:     s.ID,
				Name:        fmt.Sprintf("foto-%d.png", j),
				MimeType:    "image/png",
				URL:         fmt.Sprintf("http://img/%d/%d.png", i, j),
				StoragePath: fmt.Sprintf("%d/%d.png", s.ID, j),
				UploaderID:  creator.ID,
			}).Error)
		}
	}
	return project
}

func newTestGenerator(t *testing.T, db *gorm.DB, f Fetcher) *Generator {
	t.Helper()
	stages := stage.NewService(db, storage.NewLocal(t.TempDir(), "http://files.test"))
	return NewGenerator(db, stages,
		WithFetcher(f),
		WithDefaultLogo("http://img/logo.png"),
		WithClock(func() time.Time { return buildNow }),
	)
}

func TestRenderProducesPDF(t *testing.T) {
	signedAt := buildNow
	doc := &Document{
		ProjectName: "Residencial Aurora",
		ClientName:  "Maria Silva",
		StatusLabel: "Concluída",
		Progress:    100,
		Approved:    1,
		Total:       1,
		Stages: []StageBlock{{
			Ordinal:     1,
			Title:       "Fundação",
			StatusLabel: "Aprovada",
			Color:       "#22c55e",
			Responsible: "João",
			ImageURLs:   []string{"a", "missing"},
		}},
		Attestation: &Attestation{SignerName: "Maria", SignedAt: signedAt, IP: "10.0.0.1", ImageURL: "sig"},
		GeneratedAt: buildNow,
	}
	img := &Image{Data: testPNG(t), Type: "PNG"}

	data, err := Render(doc, map[string]*Image{"a": img, "sig": img})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderSkipsUndecodableImages(t *testing.T) {
	doc := &Document{
		ProjectName: "Obra",
		Total:       1,
		Stages:      []StageBlock{{Ordinal: 1, Title: "A", StatusLabel: "Pendente", ImageURLs: []string{"bad"}}},
		LogoURL:     "bad",
	}
	data, err := Render(doc, map[string]*Image{"bad": {Data: []byte("not a png"), Type: "PNG"}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGenerateWholeProject(t *testing.T) {
	db := newTestDB(t)
	project := seedProject(t, db, 6)
	fetcher := &fakeFetcher{data: testPNG(t), broken: map[string]bool{"http://img/2/1.png": true}}
	g := newTestGenerator(t, db, fetcher)

	res, err := g.Generate(context.Background(), project.ID, nil, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("%PDF")))
	assert.Equal(t, "relatorio-residencial-aurora.pdf", res.Filename)
	assert.Equal(t, 6, res.Document.Total)
	assert.Equal(t, 3, res.Document.Approved)
	assert.Equal(t, 50, res.Document.Progress)
	assert.Equal(t, "http://img/logo.png", fetcher.fetched[0])
	assert.Len(t, fetcher.fetched, 1+6*4)
}

func TestGenerateSubset(t *testing.T) {
	db := newTestDB(t)
	project := seedProject(t, db, 3)
	views, err := stage.NewService(db, nil).List(context.Background(), project.ID)
	require.NoError(t, err)

	fetcher := &fakeFetcher{data: testPNG(t)}
	g := newTestGenerator(t, db, fetcher)
	res, err := g.Generate(context.Background(), project.ID, []uint{views[2].ID, views[1].ID}, "http://img/custom.png")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Document.Total)
	assert.Equal(t, 1, res.Document.Approved)
	assert.Equal(t, "Etapa 2", res.Document.Stages[0].Title)
	assert.Equal(t, "http://img/custom.png", res.Document.LogoURL)
	for _, url := range fetcher.fetched {
		assert.False(t, strings.HasPrefix(url, "http://img/1/"), url)
	}
}

func TestGenerateUnknownProject(t *testing.T) {
	g := newTestGenerator(t, newTestDB(t), &fakeFetcher{})
	_, err := g.Generate(context.Background(), 999, nil, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGenerateEmbedsRecordedSignature(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	project := seedProject(t, db, 1)
	require.NoError(t, db.Where("1 = 1").Delete(&model.StageAttachment{}).Error)

	dir := t.TempDir()
	srv := httptest.NewServer(http.StripPrefix(storage.LocalPrefix, http.FileServer(http.Dir(dir))))
	defer srv.Close()
	store := storage.NewLocal(dir, srv.URL)

	stages := stage.NewService(db, store)
	views, err := stages.List(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)

	signatures := signature.NewService(db, store)
	sig, err := signatures.Request(ctx, views[0].ID)
	require.NoError(t, err)
	_, err = signatures.Record(ctx, signature.RecordInput{
		Token:        sig.Token,
		SignerName:   "Maria Silva",
		ImageDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t)),
		ClientIP:     "203.0.113.5",
	})
	require.NoError(t, err)

	g := NewGenerator(db, stages, WithClock(func() time.Time { return buildNow }))
	res, err := g.Generate(ctx, project.ID, nil, "")
	require.NoError(t, err)

	att := res.Document.Stages[0].Attestation
	require.NotNil(t, att)
	assert.Equal(t, "Maria Silva", att.SignerName)
	require.True(t, strings.HasPrefix(att.ImageURL, srv.URL), att.ImageURL)

	img, err := NewHTTPFetcher(time.Second).Fetch(ctx, att.ImageURL)
	require.NoError(t, err)
	assert.Equal(t, "PNG", img.Type)
	// the signature is the only picture in the document
	assert.GreaterOrEqual(t, bytes.Count(res.Data, []byte("/Subtype /Image")), 1)
}
