package internal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/dao/query"
	"github.com/hubtav/tavlist/internal/handler"
	"github.com/hubtav/tavlist/internal/resputil"
	"github.com/hubtav/tavlist/internal/util"
	"github.com/hubtav/tavlist/pkg/account"
	"github.com/hubtav/tavlist/pkg/config"
	"github.com/hubtav/tavlist/pkg/notify"
	"github.com/hubtav/tavlist/pkg/project"
	"github.com/hubtav/tavlist/pkg/report"
	"github.com/hubtav/tavlist/pkg/signature"
	"github.com/hubtav/tavlist/pkg/stage"
	"github.com/hubtav/tavlist/pkg/storage"
)

const (
	adminEmail    = "admin@obra.test"
	adminPassword = "admin-secret"
	collabEmail   = "joao@obra.test"
	collabPass    = "joao-secret"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := query.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, query.Migrate(db))
	ctx := context.Background()
	require.NoError(t, query.EnsureAdmin(ctx, db, adminEmail, adminPassword, "Ana Admin"))

	conf := &config.Config{PublicURL: "https://obras.example.com"}
	conf.Auth.AccessTokenSecret = "test-secret"
	conf.Storage.LocalDir = t.TempDir()
	conf.ApplyDefaults()

	store := storage.NewLocal(conf.Storage.LocalDir, conf.Storage.PublicBaseURL)
	stages := stage.NewService(db, store)
	signatures := signature.NewService(db, store)
	reports := report.NewGenerator(db, stages)
	accounts := account.NewService(db)
	_, err = accounts.Create(ctx, account.CreateInput{
		FullName: "João Silva", Email: collabEmail, Password: collabPass, Role: model.RoleCollaborator,
	})
	require.NoError(t, err)

	rc := &handler.RegisterConfig{
		Config:     conf,
		DB:         db,
		TokenMgr:   util.NewTokenManager(conf.Auth.AccessTokenSecret, conf.Auth.AccessTokenExpiryHour),
		Accounts:   accounts,
		Projects:   project.NewService(db, stages),
		Stages:     stages,
		Signatures: signatures,
		Reports:    reports,
		Notifier:   notify.NewDispatcher(db, signatures, reports, nil, nil, notify.WithPublicURL(conf.PublicURL)),
	}
	return &testServer{t: t, engine: Register(rc)}
}

func (s *testServer) do(method, path, token string, body any, headers ...string) (int, resputil.Response[json.RawMessage]) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp resputil.Response[json.RawMessage]
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, code, resp.Msg)
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(s.t, json.Unmarshal(resp.Data, &out))
	require.NotEmpty(s.t, out.AccessToken)
	return out.AccessToken
}

type stageOut struct {
	ID              uint              `json:"id"`
	Ordinal         int               `json:"ordinal"`
	Status          model.StageStatus `json:"status"`
	Notes           *string           `json:"notes"`
	SubmissionNotes *string           `json:"submissionNotes"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func signaturePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// createProjectWithStage runs the admin setup every scenario starts from.
func (s *testServer) createProjectWithStage(admin string) (uint, stageOut) {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/v1/admin/projects", admin, gin.H{
		"name":         "Residencial Aurora",
		"clientName":   "Carla Mendes",
		"clientEmail":  "carla@example.com",
		"startDate":    "2026-10-01",
		"expectedDate": "2026-12-01",
	})
	require.Equal(s.t, http.StatusOK, code, resp.Msg)
	proj := decode[struct {
		ID     uint                `json:"id"`
		Status model.ProjectStatus `json:"status"`
	}](s.t, resp.Data)
	assert.Equal(s.t, model.ProjectNotStarted, proj.Status)

	code, resp = s.do(http.MethodPost, "/v1/admin/stages", admin, gin.H{"projectId": proj.ID, "title": "Fundação"})
	require.Equal(s.t, http.StatusOK, code, resp.Msg)
	return proj.ID, decode[stageOut](s.t, resp.Data)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/healthz", http.NoBody))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t)
	collab := s.login(collabEmail, collabPass)

	code, resp := s.do(http.MethodGet, "/v1/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, resputil.TokenInvalid, resp.Code)

	code, resp = s.do(http.MethodPost, "/v1/admin/projects", collab, gin.H{"name": "x"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, resputil.UserNotAllowed, resp.Code)

	code, resp = s.do(http.MethodPost, "/v1/auth/login", "", gin.H{"email": collabEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, resputil.InvalidCredentials, resp.Code)
}

func TestCreateProjectAndStages(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)

	projectID, first := s.createProjectWithStage(admin)
	assert.Equal(t, 1, first.Ordinal)
	assert.Equal(t, model.StagePending, first.Status)

	code, resp := s.do(http.MethodPost, "/v1/admin/stages", admin, gin.H{"projectId": projectID, "title": "Alvenaria"})
	require.Equal(t, http.StatusOK, code, resp.Msg)
	assert.Equal(t, 2, decode[stageOut](t, resp.Data).Ordinal)

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/v1/stages?projectId=%d", projectID), admin, nil)
	require.Equal(t, http.StatusOK, code, resp.Msg)
	assert.Len(t, decode[[]stageOut](t, resp.Data), 2)
}

func TestRejectionKeepsSubmissionNotes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	collab := s.login(collabEmail, collabPass)
	_, st := s.createProjectWithStage(admin)
	base := fmt.Sprintf("/v1/stages/%d", st.ID)

	code, resp := s.do(http.MethodPost, base+"/start", collab, nil)
	require.Equal(t, http.StatusOK, code, resp.Msg)
	assert.Equal(t, model.StageInProgress, decode[stageOut](t, resp.Data).Status)

	code, resp = s.do(http.MethodPost, base+"/submit", collab, gin.H{"notes": "done"})
	require.Equal(t, http.StatusOK, code, resp.Msg)
	got := decode[stageOut](t, resp.Data)
	assert.Equal(t, model.StageSubmitted, got.Status)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "done", *got.Notes)

	code, resp = s.do(http.MethodPost, fmt.Sprintf("/v1/admin/stages/%d/reject", st.ID), admin, gin.H{"reason": "redo tiling"})
	require.Equal(t, http.StatusOK, code, resp.Msg)
	got = decode[stageOut](t, resp.Data)
	assert.Equal(t, model.StageRejected, got.Status)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "redo tiling", *got.Notes)
	require.NotNil(t, got.SubmissionNotes)
	assert.Equal(t, "done", *got.SubmissionNotes)

	// a rejected stage cannot be approved directly
	code, resp = s.do(http.MethodPost, fmt.Sprintf("/v1/admin/stages/%d/approve", st.ID), admin, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, resputil.InvalidTransition, resp.Code)
}

func TestApproveAndSign(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	collab := s.login(collabEmail, collabPass)
	_, st := s.createProjectWithStage(admin)

	for _, step := range []struct{ path, token string }{
		{fmt.Sprintf("/v1/stages/%d/start", st.ID), collab},
		{fmt.Sprintf("/v1/stages/%d/submit", st.ID), collab},
		{fmt.Sprintf("/v1/admin/stages/%d/approve", st.ID), admin},
	} {
		code, resp := s.do(http.MethodPost, step.path, step.token, nil)
		require.Equal(t, http.StatusOK, code, "%s: %s", step.path, resp.Msg)
	}

	code, resp := s.do(http.MethodPost, fmt.Sprintf("/v1/admin/signatures/stages/%d/request", st.ID), admin, nil)
	require.Equal(t, http.StatusOK, code, resp.Msg)
	link := decode[struct {
		Token   string `json:"token"`
		SignURL string `json:"signUrl"`
	}](t, resp.Data)
	require.NotEmpty(t, link.Token)
	assert.Contains(t, link.SignURL, link.Token)

	type summary struct {
		Signature struct {
			Signed     bool    `json:"signed"`
			SignerName *string `json:"signerName"`
		} `json:"signature"`
	}
	code, resp = s.do(http.MethodGet, "/v1/signatures/stage/"+link.Token, "", nil)
	require.Equal(t, http.StatusOK, code, resp.Msg)
	assert.False(t, decode[summary](t, resp.Data).Signature.Signed)

	body := gin.H{"signerName": "Maria Silva", "signature": signaturePNG(t)}
	code, resp = s.do(http.MethodPost, "/v1/signatures/stage/"+link.Token, "", body, "X-Forwarded-For", "203.0.113.5")
	require.Equal(t, http.StatusOK, code, resp.Msg)
	signed := decode[summary](t, resp.Data)
	assert.True(t, signed.Signature.Signed)
	require.NotNil(t, signed.Signature.SignerName)
	assert.Equal(t, "Maria Silva", *signed.Signature.SignerName)

	code, resp = s.do(http.MethodPost, "/v1/signatures/stage/"+link.Token, "", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, resputil.AlreadySigned, resp.Code)

	code, resp = s.do(http.MethodGet, "/v1/signatures/stage/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, resputil.NotFound, resp.Code)
}

func TestSignatureRequestNeedsApprovedStage(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	_, st := s.createProjectWithStage(admin)

	code, resp := s.do(http.MethodPost, fmt.Sprintf("/v1/admin/signatures/stages/%d/request", st.ID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, resputil.InvalidRequest, resp.Code)
}

func TestRoleChangeInvalidatesWrites(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	collab := s.login(collabEmail, collabPass)

	code, resp := s.do(http.MethodGet, "/v1/profiles/me", collab, nil)
	require.Equal(t, http.StatusOK, code, resp.Msg)
	me := decode[account.ProfileView](t, resp.Data)
	assert.Equal(t, model.RoleCollaborator, me.Role)

	code, resp = s.do(http.MethodPut, fmt.Sprintf("/v1/admin/profiles/%d/role", me.ID), admin, gin.H{"role": model.RoleAdmin})
	require.Equal(t, http.StatusOK, code, resp.Msg)

	// reads still pass, writes need a token carrying the current role
	code, _ = s.do(http.MethodGet, "/v1/projects", collab, nil)
	assert.Equal(t, http.StatusOK, code)
	code, resp = s.do(http.MethodPost, "/v1/admin/projects", collab, gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, resputil.TokenExpired, resp.Code)
}

func TestSignWithoutProxyHeaderStoresUnavailableIP(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	collab := s.login(collabEmail, collabPass)
	_, st := s.createProjectWithStage(admin)

	for _, step := range []struct{ path, token string }{
		{fmt.Sprintf("/v1/stages/%d/start", st.ID), collab},
		{fmt.Sprintf("/v1/stages/%d/submit", st.ID), collab},
		{fmt.Sprintf("/v1/admin/stages/%d/approve", st.ID), admin},
	} {
		code, resp := s.do(http.MethodPost, step.path, step.token, nil)
		require.Equal(t, http.StatusOK, code, "%s: %s", step.path, resp.Msg)
	}
	code, resp := s.do(http.MethodPost, fmt.Sprintf("/v1/admin/signatures/stages/%d/request", st.ID), admin, nil)
	require.Equal(t, http.StatusOK, code, resp.Msg)
	token := decode[struct {
		Token string `json:"token"`
	}](t, resp.Data).Token

	code, resp = s.do(http.MethodPost, "/v1/signatures/stage/"+token, "",
		gin.H{"signerName": "Maria Silva", "signature": signaturePNG(t)})
	require.Equal(t, http.StatusOK, code, resp.Msg)

	code, resp = s.do(http.MethodGet, fmt.Sprintf("/v1/admin/signatures/stages?ids=%d", st.ID), admin, nil)
	require.Equal(t, http.StatusOK, code, resp.Msg)
	sigs := decode[[]struct {
		SignerIP *string `json:"signerIp"`
	}](t, resp.Data)
	require.Len(t, sigs, 1)
	require.NotNil(t, sigs[0].SignerIP)
	assert.Equal(t, signature.UnavailableIP, *sigs[0].SignerIP)
}

func TestSwaggerDocListsRoutes(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "TavList API", doc.Info.Title)
	assert.Contains(t, doc.Paths["/v1/auth/login"], "post")
	assert.Contains(t, doc.Paths["/v1/signatures/stage/{token}"], "get")
	assert.Contains(t, doc.Paths["/v1/admin/stages/{id}/approve"], "post")
}
