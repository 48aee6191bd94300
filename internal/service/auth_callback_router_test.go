package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/pkg/oauthstate"
	"vidnotes-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientURL = "https://app.example.com"

// fakeProvider accepts any code listed in identities.
type fakeProvider struct {
	identities map[string]*entity.ExternalIdentity
}

func (p *fakeProvider) Name() string { return "google" }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*entity.ExternalIdentity, error) {
	identity, ok := p.identities[code]
	if !ok {
		return nil, errors.New("invalid_grant")
	}
	return identity, nil
}

type callbackFixture struct {
	*forkFixture
	oauth    IOAuthService
	profiles IProfileService
	router   IAuthCallbackRouter
	signer   *serverutils.TokenSigner
}

func newCallbackFixture(t *testing.T) *callbackFixture {
	f := newForkFixture(t)
	log := logger.NewNopLogger()

	provider := &fakeProvider{identities: map[string]*entity.ExternalIdentity{
		"receiver-code": {Provider: "google", ProviderUserId: "g-1", Email: f.receiver.Email, FullName: "Receiver"},
		"newbie-code":   {Provider: "google", ProviderUserId: "g-2", Email: "newbie@example.com", FullName: "Newbie"},
	}}

	signer := serverutils.NewTokenSigner("test-secret", time.Hour)
	oauth := NewOAuthService(f.factory, oauthstate.NewMemoryStore(time.Minute), signer, log, provider)
	profiles := NewProfileService(f.factory)

	return &callbackFixture{
		forkFixture: f,
		oauth:       oauth,
		profiles:    profiles,
		router:      NewAuthCallbackRouter(oauth, profiles, f.forks, testClientURL, nil, log),
		signer:      signer,
	}
}

// login runs the first half of the flow and returns the state the provider echoes back.
func (f *callbackFixture) login(t *testing.T, shareCtx *entity.ShareContext) string {
	loginURL, err := f.oauth.GetLoginURL(context.Background(), "google", shareCtx)
	require.NoError(t, err)
	u, err := url.Parse(loginURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func (f *callbackFixture) onboard(t *testing.T) {
	_, err := f.profiles.Setup(context.Background(), f.receiver.Id, &dto.SetupProfileRequest{DisplayName: "Receiver"})
	require.NoError(t, err)
}

func parseRedirect(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "app.example.com", u.Host)
	return u
}

func TestAuthCallbackRouter_ExchangeFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing code without share context", func(t *testing.T) {
		f := newCallbackFixture(t)
		out := f.router.Route(ctx, CallbackInput{State: f.login(t, nil)})

		assert.Equal(t, CallbackExchangeFailed, out.State)
		u := parseRedirect(t, out.RedirectURL)
		assert.Equal(t, "/login", u.Path)
		assert.Equal(t, "oauth_failed", u.Query().Get("error"))
	})

	t.Run("rejected code keeps the share context", func(t *testing.T) {
		f := newCallbackFixture(t)
		state := f.login(t, &entity.ShareContext{Token: "tok-1", Kind: entity.ShareKindPage})
		out := f.router.Route(ctx, CallbackInput{Code: "bogus", State: state})

		assert.Equal(t, CallbackExchangeFailed, out.State)
		u := parseRedirect(t, out.RedirectURL)
		assert.Equal(t, "/setup", u.Path)
		assert.Equal(t, "tok-1", u.Query().Get("share_token"))
		assert.Equal(t, "page", u.Query().Get("share_type"))
		assert.Empty(t, u.Query().Get("token"))
	})
}

func TestAuthCallbackRouter_PlainLogin(t *testing.T) {
	f := newCallbackFixture(t)
	out := f.router.Route(context.Background(), CallbackInput{Code: "receiver-code", State: f.login(t, nil)})

	assert.Equal(t, CallbackLanding, out.State)
	u := parseRedirect(t, out.RedirectURL)
	assert.Equal(t, "/notebooks", u.Path)

	userId, err := f.signer.Parse(u.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, f.receiver.Id, userId)
}

func TestAuthCallbackRouter_NewUserGoesToSetup(t *testing.T) {
	f := newCallbackFixture(t)
	token := f.share(t, entity.ShareKindPage, f.ownerPage.Id)
	state := f.login(t, &entity.ShareContext{Token: token, Kind: entity.ShareKindPage})

	out := f.router.Route(context.Background(), CallbackInput{Code: "newbie-code", State: state})

	assert.Equal(t, CallbackNeedsOnboarding, out.State)
	u := parseRedirect(t, out.RedirectURL)
	assert.Equal(t, "/setup", u.Path)
	assert.Equal(t, token, u.Query().Get("share_token"))
	assert.Equal(t, "page", u.Query().Get("share_type"))
	assert.NotEmpty(t, u.Query().Get("token"))

	// No fork happens before onboarding
	assert.Empty(t, f.audit.payloads)
}

func TestAuthCallbackRouter_ReturningUserForks(t *testing.T) {
	f := newCallbackFixture(t)
	f.onboard(t)
	token := f.share(t, entity.ShareKindPage, f.ownerPage.Id)
	state := f.login(t, &entity.ShareContext{Token: token, Kind: entity.ShareKindPage})

	out := f.router.Route(context.Background(), CallbackInput{Code: "receiver-code", State: state})
	require.Equal(t, CallbackForked, out.State)
	require.Len(t, f.audit.payloads, 1)

	u := parseRedirect(t, out.RedirectURL)
	assert.Regexp(t, `^/notebooks/[0-9a-f-]{36}/pages/[0-9a-f-]{36}$`, u.Path)
	assert.NotEmpty(t, u.Query().Get("token"))
}

func TestAuthCallbackRouter_ForkFailureStillSignsIn(t *testing.T) {
	f := newCallbackFixture(t)
	f.onboard(t)
	state := f.login(t, &entity.ShareContext{Token: "gone", Kind: entity.ShareKindNote})

	out := f.router.Route(context.Background(), CallbackInput{Code: "receiver-code", State: state})

	assert.Equal(t, CallbackForkFailed, out.State)
	u := parseRedirect(t, out.RedirectURL)
	assert.Equal(t, "/notebooks", u.Path)
	assert.NotEmpty(t, u.Query().Get("token"))
}

func TestAuthCallbackRouter_QueryOverridesState(t *testing.T) {
	f := newCallbackFixture(t)
	state := f.login(t, &entity.ShareContext{Token: "from-state", Kind: entity.ShareKindPage})

	out := f.router.Route(context.Background(), CallbackInput{
		Code:       "newbie-code",
		State:      state,
		ShareToken: "from-query",
		ShareType:  "note",
	})

	assert.Equal(t, CallbackNeedsOnboarding, out.State)
	u := parseRedirect(t, out.RedirectURL)
	assert.Equal(t, "from-query", u.Query().Get("share_token"))
	assert.Equal(t, "note", u.Query().Get("share_type"))
}

func TestAuthCallbackRouter_StateIsSingleUse(t *testing.T) {
	f := newCallbackFixture(t)
	state := f.login(t, &entity.ShareContext{Token: "tok", Kind: entity.ShareKindPage})

	_, found := f.oauth.TakeLogin(context.Background(), state)
	require.True(t, found)

	out := f.router.Route(context.Background(), CallbackInput{Code: "receiver-code", State: state})
	assert.Equal(t, CallbackExchangeFailed, out.State)
	u := parseRedirect(t, out.RedirectURL)
	assert.Equal(t, "/login", u.Path)
	assert.Empty(t, u.Query().Get("token"))
}

func TestAuthCallbackRouter_RejectsUnknownState(t *testing.T) {
	ctx := context.Background()

	t.Run("missing state", func(t *testing.T) {
		f := newCallbackFixture(t)
		out := f.router.Route(ctx, CallbackInput{Code: "receiver-code"})

		assert.Equal(t, CallbackExchangeFailed, out.State)
		u := parseRedirect(t, out.RedirectURL)
		assert.Equal(t, "/login", u.Path)
		assert.Empty(t, u.Query().Get("token"))
	})

	t.Run("forged state keeps the share context", func(t *testing.T) {
		f := newCallbackFixture(t)
		out := f.router.Route(ctx, CallbackInput{
			Code:       "receiver-code",
			State:      "forged",
			ShareToken: "tok-2",
			ShareType:  "note",
		})

		assert.Equal(t, CallbackExchangeFailed, out.State)
		u := parseRedirect(t, out.RedirectURL)
		assert.Equal(t, "/setup", u.Path)
		assert.Equal(t, "tok-2", u.Query().Get("share_token"))
		assert.Empty(t, u.Query().Get("token"))
		assert.Empty(t, f.audit.payloads)
	})
}
