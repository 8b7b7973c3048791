package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploadAndRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "http://localhost:8088/")

	url, err := store.Upload(context.Background(), "assinaturas", "etapa-abc-1.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8088/files/assinaturas/etapa-abc-1.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "assinaturas", "etapa-abc-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, store.Remove(context.Background(), "assinaturas", "etapa-abc-1.png"))
	require.NoError(t, store.Remove(context.Background(), "assinaturas", "etapa-abc-1.png"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	store := NewLocal(t.TempDir(), "")
	_, err := store.Upload(context.Background(), "assinaturas", "../../etc/passwd", []byte("x"), "text/plain")
	assert.Error(t, err)
	_, err = store.Upload(context.Background(), "a/b", "x.png", []byte("x"), "image/png")
	assert.Error(t, err)
}

func TestSupabaseUpload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"assinaturas/etapa-t-1.png"}`))
	}))
	defer srv.Close()

	store := NewSupabase(srv.URL, "service-key")
	url, err := store.Upload(context.Background(), "assinaturas", "etapa-t-1.png", []byte{1, 2, 3}, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/assinaturas/etapa-t-1.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, []byte{1, 2, 3}, gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/assinaturas/etapa-t-1.png", url)
}

func TestSupabaseUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":"400","error":"Duplicate","message":"The resource already exists"}`))
	}))
	defer srv.Close()

	store := NewSupabase(srv.URL, "k")
	_, err := store.Upload(context.Background(), "assinaturas", "x.png", []byte{1}, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The resource already exists")
}

func TestNewSelectsDriver(t *testing.T) {
	s, err := New(Options{Driver: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)

	_, err = New(Options{Driver: "supabase"})
	assert.Error(t, err)

	_, err = New(Options{Driver: "s3"})
	assert.Error(t, err)
}
