package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go-tasktracker/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"
)

// OAuthIdentity is what a provider tells us about the signed in account.
type OAuthIdentity struct {
	Email string
	Name  string
}

//go:generate mockgen -source=auth_oauth.go -destination=mock/auth_oauth_mock.go -package=mock
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (OAuthIdentity, error)
}

// NewOAuthProviders builds the providers that have credentials configured.
func NewOAuthProviders(github, google config.OAuthProvider) map[string]OAuthProvider {
	providers := make(map[string]OAuthProvider, 2)
	if github.Enabled() {
		providers[ProviderGitHub] = &githubProvider{cfg: &oauth2.Config{
			ClientID:     github.ClientID,
			ClientSecret: github.ClientSecret,
			RedirectURL:  github.CallbackURL,
			Endpoint:     endpoints.GitHub,
			Scopes:       []string{"user:email"},
		}}
	}
	if google.Enabled() {
		providers[ProviderGoogle] = &googleProvider{cfg: &oauth2.Config{
			ClientID:     google.ClientID,
			ClientSecret: google.ClientSecret,
			RedirectURL:  google.CallbackURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"profile", "email"},
		}}
	}
	return providers
}

type githubProvider struct {
	cfg *oauth2.Config
}

func (p *githubProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *githubProvider) Exchange(ctx context.Context, code string) (OAuthIdentity, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return OAuthIdentity{}, fmt.Errorf("github exchange: %w", err)
	}
	client := p.cfg.Client(ctx, tok)

	var profile struct {
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, client, "https://api.github.com/user", &profile); err != nil {
		return OAuthIdentity{}, err
	}

	email := profile.Email
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
			return OAuthIdentity{}, err
		}
		for _, e := range emails {
			if e.Verified && (e.Primary || email == "") {
				email = e.Email
			}
		}
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	return OAuthIdentity{Email: email, Name: name}, nil
}

type googleProvider struct {
	cfg *oauth2.Config
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (OAuthIdentity, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return OAuthIdentity{}, fmt.Errorf("google exchange: %w", err)
	}

	var profile struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := getJSON(ctx, p.cfg.Client(ctx, tok), "https://www.googleapis.com/oauth2/v2/userinfo", &profile); err != nil {
		return OAuthIdentity{}, err
	}
	return OAuthIdentity{Email: profile.Email, Name: profile.Name}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, strings.ToLower(res.Status))
	}
	return json.NewDecoder(res.Body).Decode(out)
}
