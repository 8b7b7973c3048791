package account

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/dao/query"
	"github.com/hubtav/tavlist/pkg/apperr"
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

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestDB(t))

	created, err := svc.Create(ctx, CreateInput{FullName: " Ana Costa ", Email: "Ana@Example.com", Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Costa", created.FullName)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, model.RoleCollaborator, created.Role)

	got, err := svc.Authenticate(ctx, "ANA@example.com ", "segredo1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ana@example.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "ninguem@example.com", "segredo1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Create(ctx, CreateInput{FullName: "Outra", Email: "ana@example.com", Password: "segredo1"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newTestDB(t))
	cases := []CreateInput{
		{FullName: "", Email: "a@example.com", Password: "segredo1"},
		{FullName: "A", Email: "not-an-email", Password: "segredo1"},
		{FullName: "A", Email: "a@example.com", Password: "123"},
		{FullName: "A", Email: "a@example.com", Password: "segredo1", Role: "root"},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, apperr.ErrValidation, "%+v", in)
	}
}

func TestSetRoleAndList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewService(db)

	bruno, err := svc.Create(ctx, CreateInput{FullName: "Bruno", Email: "bruno@example.com", Password: "segredo1"})
	require.NoError(t, err)
	legacy := model.Profile{UserID: uuid.NewString(), FullName: "Aline", Email: "aline@example.com"}
	require.NoError(t, db.Create(&legacy).Error)

	promoted, err := svc.SetRole(ctx, bruno.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)
	role, err := svc.RoleOf(ctx, bruno.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)

	_, err = svc.SetRole(ctx, legacy.ID, model.RoleCollaborator)
	require.NoError(t, err)
	_, err = svc.SetRole(ctx, bruno.ID, model.RoleCollaborator)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Aline", list[0].FullName)
	assert.Equal(t, model.RoleCollaborator, list[1].Role)

	_, err = svc.SetRole(ctx, 999, model.RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
