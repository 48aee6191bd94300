package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"vidnotes-be/internal/entity"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// IdentityProvider performs the code exchange with an external OAuth provider.
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*entity.ExternalIdentity, error)
}

type googleProvider struct {
	conf *oauth2.Config
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) IdentityProvider {
	return &googleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (p *googleProvider) Name() string {
	return "google"
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*entity.ExternalIdentity, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.conf.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request returned %d", resp.StatusCode)
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	if googleUser.Email == "" || !googleUser.VerifiedEmail {
		return nil, fmt.Errorf("google account has no verified email")
	}

	return &entity.ExternalIdentity{
		Provider:       p.Name(),
		ProviderUserId: googleUser.ID,
		Email:          googleUser.Email,
		FullName:       googleUser.Name,
		AvatarURL:      googleUser.Picture,
	}, nil
}
