package npm

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/logger"
	"github.com/johanforsgren/upmsetup/internal/registry/common"
)

// Authenticator obtains access tokens from an npm compatible registry with
// the adduser handshake. Only one login may run at a time.
type Authenticator struct {
	client *http.Client
	now    func() time.Time
	active atomic.Bool
}

var _ domain.Authenticator = (*Authenticator)(nil)

func NewAuthenticator(client *http.Client) *Authenticator {
	if client == nil {
		client = common.NewHTTPClient(0)
	}
	return &Authenticator{
		client: client,
		now:    time.Now,
	}
}

// Busy reports whether a login is in flight.
func (a *Authenticator) Busy() bool {
	return a.active.Load()
}

// Authenticate runs the handshake and blocks until it finishes. The outcome
// is also delivered through callbacks.
func (a *Authenticator) Authenticate(ctx context.Context, creds domain.Credentials, callbacks domain.AuthCallbacks) (string, error) {
	if err := a.acquire(); err != nil {
		callbacks.Error(err)
		return "", err
	}
	return a.run(ctx, creds, callbacks)
}

// Start runs the handshake in the background. The returned channel yields
// exactly one result and is then closed.
func (a *Authenticator) Start(ctx context.Context, creds domain.Credentials, callbacks domain.AuthCallbacks) <-chan domain.AuthResult {
	results := make(chan domain.AuthResult, 1)

	if err := a.acquire(); err != nil {
		callbacks.Error(err)
		results <- domain.AuthResult{Err: err}
		close(results)
		return results
	}

	go func() {
		defer close(results)
		token, err := a.run(ctx, creds, callbacks)
		results <- domain.AuthResult{Token: token, Err: err}
	}()

	return results
}

func (a *Authenticator) acquire() error {
	if !a.active.CompareAndSwap(false, true) {
		logger.Warn("npm login: rejected, another login is running")
		return domain.ErrBusy
	}
	return nil
}

func (a *Authenticator) run(ctx context.Context, creds domain.Credentials, callbacks domain.AuthCallbacks) (string, error) {
	session := NewSession(creds)
	logger.Log("npm login %s: user %s on %s", session.ID, creds.Username, creds.RegistryURL)

	action := session.Start()
	for !action.Terminal() {
		callbacks.Info(action.Info)
		resp := a.send(ctx, session, action.Request)
		action = session.Next(resp)
		logger.Log("npm login %s: status %d, now %s", session.ID, resp.StatusCode, session.Step)
	}

	session.clear()
	a.active.Store(false)

	if action.Err != nil {
		logger.LogError("NPM_LOGIN", session.ID, action.Err)
		callbacks.Error(action.Err)
		return "", action.Err
	}

	logger.Log("npm login %s: token received", session.ID)
	callbacks.Info(action.Info)
	callbacks.Success(action.Token)
	return action.Token, nil
}

func (a *Authenticator) send(ctx context.Context, session *Session, kind RequestKind) Response {
	req, err := session.newRequest(ctx, kind, a.now())
	if err != nil {
		return Response{Err: err}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return Response{Err: err}
	}

	body, err := common.ReadBody(resp)
	if err != nil {
		return Response{StatusCode: resp.StatusCode, Err: err}
	}

	return Response{StatusCode: resp.StatusCode, Body: body}
}
