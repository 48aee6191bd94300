package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vidnotes-be/internal/bootstrap"
	"vidnotes-be/internal/config"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/model"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/repository/unitofwork"
	"vidnotes-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "google" }

func (stubProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (stubProvider) Exchange(context.Context, string) (*entity.ExternalIdentity, error) {
	return nil, errors.New("exchange disabled in tests")
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	srv       *Server
	container *bootstrap.Container
	factory   unitofwork.RepositoryFactory
	db        *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	db := testutil.NewDB(t)
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			ClientURL:          "https://app.example.com",
			Environment:        "test",
			CorsAllowedOrigins: "*",
		},
		Auth:  config.AuthConfig{JwtSecret: "test-secret", JwtTTL: time.Hour, StateTTL: time.Minute},
		Share: config.ShareConfig{PublicRateLimit: 0},
	}

	container := bootstrap.NewContainer(db, cfg, logger.NewNopLogger(), stubProvider{})
	t.Cleanup(container.Close)

	return &testServer{
		srv:       New(cfg, container),
		container: container,
		factory:   unitofwork.NewRepositoryFactory(db),
		db:        db,
	}
}

func (s *testServer) do(t *testing.T, method, path, body, userToken string) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userToken != "" {
		req.Header.Set("Authorization", "Bearer "+userToken)
	}

	resp, err := s.srv.GetApp().Test(req, -1)
	require.NoError(t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp, env
}

func (s *testServer) user(t *testing.T, email string) (*entity.User, string) {
	now := time.Now().UTC()
	u := &entity.User{Id: uuid.New(), Email: email, FullName: email, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.factory.NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	token, err := s.container.TokenSigner.Sign(u.Id)
	require.NoError(t, err)
	return u, token
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	resp, env := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestServer_AuthRequired(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/share", "/api/share/note", "/api/share/fork"} {
		resp, env := s.do(t, http.MethodPost, path, `{}`, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.False(t, env.Success)
	}

	resp, _ := s.do(t, http.MethodGet, "/api/notebook/v1", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_ShareAndFork(t *testing.T) {
	s := newTestServer(t)
	_, ownerToken := s.user(t, "owner@example.com")
	_, receiverToken := s.user(t, "receiver@example.com")

	// Owner builds a page through the API
	resp, env := s.do(t, http.MethodPost, "/api/notebook/v1", `{"name":"Lectures"}`, ownerToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var notebook struct {
		Id uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &notebook))

	resp, env = s.do(t, http.MethodPost, "/api/page/v1",
		`{"notebook_id":"`+notebook.Id.String()+`","video_url":"https://youtu.be/dQw4w9WgXcQ"}`, ownerToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var page struct {
		Id uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))

	resp, _ = s.do(t, http.MethodPost, "/api/note/v1",
		`{"page_id":"`+page.Id.String()+`","content":"**hook**","timestamp_seconds":7}`, ownerToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Receiver cannot share it
	resp, _ = s.do(t, http.MethodPost, "/api/share", `{"page_id":"`+page.Id.String()+`"}`, receiverToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = s.do(t, http.MethodPost, "/api/share", `{"page_id":"`+page.Id.String()+`"}`, ownerToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var share struct {
		ShareToken string `json:"share_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &share))
	require.NotEmpty(t, share.ShareToken)

	t.Run("public view", func(t *testing.T) {
		resp, env := s.do(t, http.MethodGet, "/api/share/"+share.ShareToken, "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var shared struct {
			Notes []struct {
				ContentHTML string `json:"content_html"`
			} `json:"notes"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &shared))
		require.Len(t, shared.Notes, 1)
		assert.Contains(t, shared.Notes[0].ContentHTML, "<strong>hook</strong>")

		resp, env = s.do(t, http.MethodGet, "/api/share/note/"+share.ShareToken, "", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "share link not found or expired", env.Message)
	})

	t.Run("bad share type", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodPost, "/api/share/fork",
			`{"share_token":"`+share.ShareToken+`","share_type":"video"}`, receiverToken)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("fork twice", func(t *testing.T) {
		body := `{"share_token":"` + share.ShareToken + `","share_type":"page"}`

		resp, env := s.do(t, http.MethodPost, "/api/share/fork", body, receiverToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var first struct {
			PageId        uuid.UUID `json:"page_id"`
			NotesCopied   int       `json:"notes_copied"`
			AlreadyForked bool      `json:"already_forked"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &first))
		assert.Equal(t, 1, first.NotesCopied)
		assert.NotEqual(t, page.Id, first.PageId)

		resp, env = s.do(t, http.MethodPost, "/api/share/fork", body, receiverToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var second struct {
			PageId        uuid.UUID `json:"page_id"`
			AlreadyForked bool      `json:"already_forked"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &second))
		assert.True(t, second.AlreadyForked)
		assert.Equal(t, first.PageId, second.PageId)
	})

	t.Run("metrics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		resp, err := s.srv.GetApp().Test(req, -1)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "vidnotes_share_tokens_issued_total")
		assert.Contains(t, string(raw), "vidnotes_share_forks_total")
	})
}

func TestServer_UnknownShare(t *testing.T) {
	s := newTestServer(t)
	resp, env := s.do(t, http.MethodGet, "/api/share/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestServer_ExpiredShare(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.user(t, "owner@example.com")
	now := time.Now().UTC()

	notebook := &entity.Notebook{Id: uuid.New(), Name: "N", UserId: owner.Id, CreatedAt: now}
	page := &entity.Page{Id: uuid.New(), NotebookId: notebook.Id, UserId: owner.Id, Title: "P", YoutubeVideoId: "dQw4w9WgXcQ", CreatedAt: now}
	uow := s.factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.NotebookRepository().Create(context.Background(), notebook))
	require.NoError(t, uow.PageRepository().Create(context.Background(), page))

	expiredAt := now.Add(-time.Second)
	require.NoError(t, s.db.Create(&model.PageShare{
		Id:        uuid.New(),
		PageId:    page.Id,
		Token:     "expired-token",
		CreatedBy: owner.Id,
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: &expiredAt,
	}).Error)

	resp, env := s.do(t, http.MethodGet, "/api/share/expired-token", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "share link not found or expired", env.Message)
}

func TestServer_OAuthRedirects(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodGet, "/api/auth/google?share_token=abc&share_type=page", "", "")
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "https://accounts.example.com/auth?state="))

	resp, _ = s.do(t, http.MethodGet, "/api/auth/callback", "", "")
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "https://app.example.com/login?error=oauth_failed", resp.Header.Get("Location"))

	resp, _ = s.do(t, http.MethodGet, "/api/auth/callback?code=x&share_token=abc&share_type=note", "", "")
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "https://app.example.com/setup?share_token=abc&share_type=note", resp.Header.Get("Location"))

	resp, _ = s.do(t, http.MethodGet, "/api/auth/github", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_WildcardOriginsStart(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	resp, err := s.srv.GetApp().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestCorsOrigins(t *testing.T) {
	tests := []struct {
		configured  string
		origins     string
		credentials bool
	}{
		{"*", "*", false},
		{"https://app.example.com, *", "*", false},
		{"", "*", false},
		{"https://app.example.com", "https://app.example.com", true},
		{"https://a.example.com,https://b.example.com", "https://a.example.com,https://b.example.com", true},
	}
	for _, tt := range tests {
		origins, credentials := corsOrigins(tt.configured)
		assert.Equal(t, tt.origins, origins, tt.configured)
		assert.Equal(t, tt.credentials, credentials, tt.configured)
	}
}

func TestServer_ForkWriteFailure(t *testing.T) {
	s := newTestServer(t)
	owner, _ := s.user(t, "owner@example.com")
	_, receiverToken := s.user(t, "receiver@example.com")
	now := time.Now().UTC()

	notebook := &entity.Notebook{Id: uuid.New(), Name: "N", UserId: owner.Id, CreatedAt: now}
	page := &entity.Page{Id: uuid.New(), NotebookId: notebook.Id, UserId: owner.Id, Title: "P", YoutubeVideoId: "dQw4w9WgXcQ", CreatedAt: now}
	note := &entity.Note{Id: uuid.New(), PageId: page.Id, UserId: owner.Id, Content: "n", TimestampSeconds: 3, CreatedAt: now}
	uow := s.factory.NewUnitOfWork(context.Background())
	require.NoError(t, uow.NotebookRepository().Create(context.Background(), notebook))
	require.NoError(t, uow.PageRepository().Create(context.Background(), page))
	require.NoError(t, uow.NoteRepository().Create(context.Background(), note))
	require.NoError(t, s.db.Create(&model.PageShare{
		Id:        uuid.New(),
		PageId:    page.Id,
		Token:     "page-token",
		CreatedBy: owner.Id,
		CreatedAt: now,
	}).Error)

	// Reads keep working, note inserts fail
	require.NoError(t, s.db.Exec(`CREATE TRIGGER block_note_inserts BEFORE INSERT ON notes
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`).Error)

	resp, env := s.do(t, http.MethodPost, "/api/share/fork",
		`{"share_token":"page-token","share_type":"page"}`, receiverToken)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "failed to copy note", env.Message)
}
