package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hubtav/tavlist/dao/model"
	"github.com/hubtav/tavlist/dao/query"
	"github.com/hubtav/tavlist/pkg/report"
	"github.com/hubtav/tavlist/pkg/signature"
	"github.com/hubtav/tavlist/pkg/stage"
	"github.com/hubtav/tavlist/pkg/storage"
)

var testNow = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

const testPublicURL = "https://app.tavlist.test"

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

// fakeEvolution imitates the two Evolution API endpoints the dispatcher uses.
type fakeEvolution struct {
	*httptest.Server
	mu         sync.Mutex
	state      string
	sendStatus int
	apiKeys    []string
	sent       []sendTextRequest
}

func newFakeEvolution(t *testing.T, state string) *fakeEvolution {
	f := &fakeEvolution{state: state, sendStatus: http.StatusCreated}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.apiKeys = append(f.apiKeys, r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/instance/connectionState/obra-bot":
			_ = json.NewEncoder(w).Encode(map[string]any{"instance": map[string]string{"state": f.state}})
		case r.Method == http.MethodPost && r.URL.Path == "/message/sendText/obra-bot":
			var body sendTextRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.sent = append(f.sent, body)
			w.WriteHeader(f.sendStatus)
			if f.sendStatus >= 400 {
				_, _ = w.Write([]byte(`{"status":400,"error":"Bad Request","response":{"message":["number not on whatsapp"]}}`))
				return
			}
			_, _ = w.Write([]byte(`{"key":{"id":"MSG1"},"status":"PENDING"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeEvolution) setState(state string) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
}

func (f *fakeEvolution) setSendStatus(status int) {
	f.mu.Lock()
	f.sendStatus = status
	f.mu.Unlock()
}

func (f *fakeEvolution) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.apiKeys...)
}

func (f *fakeEvolution) messages() []sendTextRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sendTextRequest(nil), f.sent...)
}

// fakeResend imitates POST /emails.
type fakeResend struct {
	*httptest.Server
	mu     sync.Mutex
	fail   bool
	auth   string
	emails []resendRequest
}

func newFakeResend(t *testing.T) *fakeResend {
	f := &fakeResend{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.auth = r.Header.Get("Authorization")
		var body resendRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if f.fail {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
			return
		}
		f.emails = append(f.emails, body)
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeResend) setFail(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

func (f *fakeResend) sent() ([]resendRequest, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]resendRequest(nil), f.emails...), f.auth
}

type fixture struct {
	db         *gorm.DB
	dispatcher *Dispatcher
	signatures *signature.Service
	evolution  *fakeEvolution
	resend     *fakeResend
	project    model.Project
	stages     []model.Stage
}

func newFixture(t *testing.T, state string) *fixture {
	t.Helper()
	db := newTestDB(t)
	store := storage.NewLocal(t.TempDir(), "http://files.test")
	clock := func() time.Time { return testNow }
	signatures := signature.NewService(db, store, signature.WithClock(clock))
	reports := report.NewGenerator(db, stage.NewService(db, store), report.WithClock(clock))

	f := &fixture{
		db:         db,
		signatures: signatures,
		evolution:  newFakeEvolution(t, state),
		resend:     newFakeResend(t),
	}
	f.dispatcher = NewDispatcher(db, signatures, reports,
		NewEvolutionClient(5*time.Second),
		NewResendSender(f.resend.URL, "re_test_key", "TaviList <obras@tavlist.test>", 5*time.Second),
		WithPublicURL(testPublicURL+"/"),
		WithClock(clock),
	)
	f.seed(t)
	return f
}

func (f *fixture) seed(t *testing.T) {
	t.Helper()
	creator := model.Profile{UserID: uuid.NewString(), FullName: "Admin", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, f.db.Create(&creator).Error)
	f.project = model.Project{
		Name:         "Residencial Aurora",
		ClientName:   "Maria Silva",
		ClientEmail:  "maria@example.com",
		ClientPhone:  lo.ToPtr("(11) 98765-4321"),
		Status:       model.ProjectInProgress,
		StartDate:    testNow,
		ExpectedDate: testNow.AddDate(0, 3, 0),
		CreatorID:    creator.ID,
	}
	require.NoError(t, f.db.Create(&f.project).Error)
	approvedAt := time.Date(2026, 10, 17, 13, 45, 0, 0, time.UTC)
	for i, st := range []model.StageStatus{model.StageApproved, model.StagePending} {
		s := model.Stage{
			ProjectID:   f.project.ID,
			Title:       []string{"Fundação", "Alvenaria"}[i],
			Description: lo.ToPtr("Sapatas e baldrames"),
			Ordinal:     i + 1,
			Status:      st,
		}
		if st == model.StageApproved {
			s.ApprovedAt = &approvedAt
		}
		require.NoError(t, f.db.Create(&s).Error)
		f.stages = append(f.stages, s)
	}
}

func (f *fixture) configure(t *testing.T) {
	t.Helper()
	_, err := f.dispatcher.SaveChannel(context.Background(), ChannelInput{
		InstanceName: "obra-bot",
		APIURL:       f.evolution.URL + "/",
		APIKey:       "evo-key",
	})
	require.NoError(t, err)
}

func (f *fixture) logs(t *testing.T) []model.NotificationLog {
	t.Helper()
	var logs []model.NotificationLog
	require.NoError(t, f.db.Order("id").Find(&logs).Error)
	return logs
}

func contains(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
