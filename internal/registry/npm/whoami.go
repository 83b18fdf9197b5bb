package npm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/logger"
	"github.com/johanforsgren/upmsetup/internal/registry/common"
)

// Verifier resolves the user behind a registry token with the whoami
// endpoint.
type Verifier struct {
	client *http.Client
}

func NewVerifier(client *http.Client) *Verifier {
	if client == nil {
		client = common.NewHTTPClient(0)
	}
	return &Verifier{client: client}
}

func (v *Verifier) WhoAmI(ctx context.Context, registryURL, token string) (string, error) {
	if registryURL == "" {
		return "", fmt.Errorf("%w: registry url is empty", domain.ErrValidation)
	}
	if token == "" {
		return "", fmt.Errorf("%w: token is empty", domain.ErrValidation)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.client)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	target := strings.TrimRight(registryURL, "/") + "/-/whoami"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whoami request failed: %w", err)
	}

	body, err := common.ReadBody(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", unhandled(Response{StatusCode: resp.StatusCode, Body: body})
	}

	username := gjson.Get(body, "username").String()
	if username == "" {
		return "", fmt.Errorf("%w: no username in whoami response", domain.ErrParse)
	}

	logger.Log("npm whoami: token belongs to %s", username)
	return username, nil
}
