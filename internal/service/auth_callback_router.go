package service

import (
	"context"
	"net/url"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/pkg/metrics"
)

// CallbackState is the terminal state a callback ends in.
type CallbackState string

const (
	CallbackExchangeFailed  CallbackState = "exchange_failed"
	CallbackNeedsOnboarding CallbackState = "needs_onboarding"
	CallbackForked          CallbackState = "forked"
	CallbackForkFailed      CallbackState = "fork_failed"
	CallbackLanding         CallbackState = "landing"
)

type CallbackInput struct {
	Code       string
	State      string
	ShareToken string
	ShareType  string
}

type CallbackOutcome struct {
	State       CallbackState
	RedirectURL string
}

// IAuthCallbackRouter decides where the browser goes after the provider redirects back.
// Every outcome is a redirect; no error leaves Route.
type IAuthCallbackRouter interface {
	Route(ctx context.Context, in CallbackInput) CallbackOutcome
}

type authCallbackRouter struct {
	oauthService   IOAuthService
	profileService IProfileService
	forkService    IForkService
	clientURL      string
	metrics        *metrics.Metrics
	logger         logger.ILogger
}

func NewAuthCallbackRouter(
	oauthService IOAuthService,
	profileService IProfileService,
	forkService IForkService,
	clientURL string,
	m *metrics.Metrics,
	log logger.ILogger,
) IAuthCallbackRouter {
	return &authCallbackRouter{
		oauthService:   oauthService,
		profileService: profileService,
		forkService:    forkService,
		clientURL:      clientURL,
		metrics:        m,
		logger:         log,
	}
}

func (r *authCallbackRouter) Route(ctx context.Context, in CallbackInput) CallbackOutcome {
	out := r.route(ctx, in)
	r.metrics.CallbackRouted(string(out.State))
	return out
}

func (r *authCallbackRouter) route(ctx context.Context, in CallbackInput) CallbackOutcome {
	login, found := r.oauthService.TakeLogin(ctx, in.State)

	// Share parameters on the callback URL win over the ones remembered with the state.
	shareCtx := login.Share
	if in.ShareToken != "" || in.ShareType != "" {
		shareCtx = entity.NewShareContext(in.ShareToken, in.ShareType)
	}

	// A state we never issued, or one already consumed, must not sign anyone in.
	if !found {
		r.logger.Warn("AUTH_CALLBACK", "Callback with unknown or replayed state", nil)
		return r.exchangeFailed(shareCtx)
	}

	if in.Code == "" {
		r.logger.Warn("AUTH_CALLBACK", "Callback without authorization code", nil)
		return r.exchangeFailed(shareCtx)
	}

	session, err := r.oauthService.HandleCallback(ctx, login.Provider, in.Code)
	if err != nil {
		r.logger.Error("AUTH_CALLBACK", "Code exchange failed", map[string]interface{}{"error": err})
		return r.exchangeFailed(shareCtx)
	}

	token := session.AccessToken
	if shareCtx == nil {
		return r.landing(CallbackLanding, token)
	}

	hasProfile, err := r.profileService.Exists(ctx, session.User.Id)
	if err != nil {
		r.logger.Error("AUTH_CALLBACK", "Profile lookup failed", map[string]interface{}{
			"error":   err,
			"user_id": session.User.Id.String(),
		})
		return r.landing(CallbackLanding, token)
	}

	if !hasProfile {
		return CallbackOutcome{
			State: CallbackNeedsOnboarding,
			RedirectURL: r.url("/setup", url.Values{
				"token":       {token},
				"share_token": {shareCtx.Token},
				"share_type":  {shareCtx.Kind.String()},
			}),
		}
	}

	res, err := r.forkService.Fork(ctx, session.User.Id, shareCtx.Kind, shareCtx.Token)
	if err != nil {
		r.logger.Warn("AUTH_CALLBACK", "Fork after login failed, sending user to notebooks", map[string]interface{}{
			"error":      err.Error(),
			"user_id":    session.User.Id.String(),
			"share_type": shareCtx.Kind.String(),
		})
		return r.landing(CallbackForkFailed, token)
	}

	return CallbackOutcome{
		State: CallbackForked,
		RedirectURL: r.url(
			"/notebooks/"+res.NotebookId.String()+"/pages/"+res.PageId.String(),
			url.Values{"token": {token}},
		),
	}
}

func (r *authCallbackRouter) exchangeFailed(shareCtx *entity.ShareContext) CallbackOutcome {
	if shareCtx != nil {
		return CallbackOutcome{
			State: CallbackExchangeFailed,
			RedirectURL: r.url("/setup", url.Values{
				"share_token": {shareCtx.Token},
				"share_type":  {shareCtx.Kind.String()},
			}),
		}
	}
	return CallbackOutcome{
		State:       CallbackExchangeFailed,
		RedirectURL: r.url("/login", url.Values{"error": {"oauth_failed"}}),
	}
}

func (r *authCallbackRouter) landing(state CallbackState, token string) CallbackOutcome {
	return CallbackOutcome{
		State:       state,
		RedirectURL: r.url("/notebooks", url.Values{"token": {token}}),
	}
}

func (r *authCallbackRouter) url(path string, query url.Values) string {
	return r.clientURL + path + "?" + query.Encode()
}
