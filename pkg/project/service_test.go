package project

import (
	"context"
	"fmt"
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
	"github.com/hubtav/tavlist/pkg/stage"
	"github.com/hubtav/tavlist/pkg/storage"
)

var start = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *stage.Service, *gorm.DB, uint) {
	t.Helper()
	db, err := query.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, query.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	creator := model.Profile{UserID: uuid.NewString(), FullName: "Admin", Email: "admin@example.com"}
	require.NoError(t, db.Create(&creator).Error)
	stages := stage.NewService(db, storage.NewLocal(t.TempDir(), "http://files.test"))
	return NewService(db, stages), stages, db, creator.ID
}

func input(name, client string) Input {
	return Input{
		Name:         name,
		ClientName:   client,
		ClientEmail:  "cliente@example.com",
		StartDate:    start,
		ExpectedDate: start.AddDate(0, 2, 0),
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, creator := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, creator, input(" Residencial Aurora ", "Maria"))
	require.NoError(t, err)
	assert.Equal(t, "Residencial Aurora", p.Name)
	assert.Equal(t, model.ProjectNotStarted, p.Status)

	bad := []func(*Input){
		func(in *Input) { in.Name = "  " },
		func(in *Input) { in.ClientName = "" },
		func(in *Input) { in.ClientEmail = "maria" },
		func(in *Input) { in.ExpectedDate = start.AddDate(0, 0, -1) },
		func(in *Input) { in.StartDate = time.Time{} },
		func(in *Input) { in.Status = "parada" },
	}
	for i, mutate := range bad {
		in := input("Obra", "Cliente")
		mutate(&in)
		_, err := svc.Create(ctx, creator, in)
		assert.ErrorIs(t, err, apperr.ErrValidation, "case %d", i)
	}
}

func TestListFiltersAndProgress(t *testing.T) {
	svc, stages, _, creator := newTestService(t)
	ctx := context.Background()

	aurora, err := svc.Create(ctx, creator, input("Residencial Aurora", "Maria Silva"))
	require.NoError(t, err)
	for i := range 3 {
		_, err := svc.Create(ctx, creator, input(fmt.Sprintf("Casa %d", i), "João"))
		require.NoError(t, err)
	}
	in := input("Galpão Norte", "Construtora Beta")
	in.Status = model.ProjectInProgress
	_, err = svc.Create(ctx, creator, in)
	require.NoError(t, err)

	s1, err := stages.Create(ctx, stage.CreateInput{ProjectID: aurora.ID, Title: "Fundação"})
	require.NoError(t, err)
	_, err = stages.Create(ctx, stage.CreateInput{ProjectID: aurora.ID, Title: "Alvenaria"})
	require.NoError(t, err)
	_, err = stages.Start(ctx, s1.ID)
	require.NoError(t, err)
	_, err = stages.Submit(ctx, s1.ID, "ok")
	require.NoError(t, err)
	_, err = stages.Approve(ctx, s1.ID)
	require.NoError(t, err)

	rows, count, err := svc.List(ctx, ListFilter{Search: "maria"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].TotalStages)
	assert.Equal(t, 1, rows[0].ApprovedStages)
	assert.Equal(t, 50, rows[0].Progress)

	rows, count, err = svc.List(ctx, ListFilter{Status: model.ProjectInProgress})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, "Galpão Norte", rows[0].Name)

	rows, count, err = svc.List(ctx, ListFilter{Search: "casa", PageIndex: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, rows, 1)

	_, _, err = svc.List(ctx, ListFilter{Status: "parada"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Total: 5, InProgress: 1}, stats)
}

func TestDetailUpdateDelete(t *testing.T) {
	svc, stages, db, creator := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, creator, input("Obra", "Cliente"))
	require.NoError(t, err)
	s, err := stages.Create(ctx, stage.CreateInput{
		ProjectID: p.ID,
		Title:     "Pintura",
		Items:     []stage.ItemInput{{Description: "Massa corrida"}},
	})
	require.NoError(t, err)

	detail, err := svc.Detail(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Stages, 1)
	assert.Equal(t, 0, detail.Progress)

	in := input("Obra Renomeada", "Cliente")
	in.Status = model.ProjectAwaitingApproval
	in.ClientPhone = lo.ToPtr(" (11) 90000-0000 ")
	updated, err := svc.Update(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Obra Renomeada", updated.Name)
	assert.Equal(t, "(11) 90000-0000", lo.FromPtr(updated.ClientPhone))

	_, err = svc.Update(ctx, 999, in)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, p.ID))
	var n int64
	require.NoError(t, db.Unscoped().Model(&model.StageItem{}).Where("stage_id = ?", s.ID).Count(&n).Error)
	assert.Zero(t, n)
	_, err = svc.Detail(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), apperr.ErrNotFound)
}
