package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/logger"
	"github.com/johanforsgren/upmsetup/internal/registry/common"
)

const (
	RegistryHost = "npm.pkg.github.com"
	packageScope = "read:packages"
)

// IsGitHubRegistry reports whether registryURL points at GitHub Packages.
// That registry has no adduser endpoint; users paste a personal access
// token instead.
func IsGitHubRegistry(registryURL string) bool {
	u, err := url.Parse(registryURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), RegistryHost)
}

type Verifier struct {
	httpClient *http.Client
	baseURL    *url.URL
}

func NewVerifier(httpClient *http.Client) *Verifier {
	if httpClient == nil {
		httpClient = common.NewHTTPClient(0)
	}
	return &Verifier{httpClient: httpClient}
}

// WithBaseURL points the verifier at another API root, such as a GitHub
// Enterprise server.
func (v *Verifier) WithBaseURL(baseURL string) (*Verifier, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	v.baseURL = u
	return v, nil
}

// WhoAmI returns the login the token belongs to. registryURL is only used
// for logging.
func (v *Verifier) WhoAmI(ctx context.Context, registryURL, token string) (string, error) {
	login, err := v.Login(ctx, token)
	if err != nil {
		return "", err
	}
	logger.Log("GitHub: token for %s belongs to %s", registryURL, login)
	return login, nil
}

func (v *Verifier) Login(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: token is empty", domain.ErrValidation)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if v.baseURL != nil {
		client.BaseURL = v.baseURL
	}

	user, resp, err := client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("%w: failed to get user: %v", domain.ErrProtocol, err)
	}

	if scopes := resp.Header.Get("X-OAuth-Scopes"); scopes != "" && !strings.Contains(scopes, packageScope) {
		logger.Warn("GitHub: token scopes %q do not include %s", scopes, packageScope)
	}

	login := user.GetLogin()
	if login == "" {
		return "", fmt.Errorf("%w: no login in user response", domain.ErrParse)
	}
	return login, nil
}
