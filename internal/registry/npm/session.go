package npm

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/johanforsgren/upmsetup/internal/domain"
)

const (
	registrationDisabledMarker = "user registration disabled"
	authenticatedMarker        = "you are authenticated as"
	maxRetries                 = 1
)

type Step int

const (
	StepInitial Step = iota
	StepAwaitingDisabledAck
	StepAwaitingChallenge
	StepAwaitingToken
	StepDone
	StepFailed
)

func (s Step) String() string {
	switch s {
	case StepInitial:
		return "initial"
	case StepAwaitingDisabledAck:
		return "awaiting-disabled-ack"
	case StepAwaitingChallenge:
		return "awaiting-challenge"
	case StepAwaitingToken:
		return "awaiting-token"
	case StepDone:
		return "done"
	case StepFailed:
		return "failed"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// RequestKind names the handshake request the driver has to send next.
type RequestKind int

const (
	NoRequest RequestKind = iota
	CreateUser
	ReadUser
	ConfirmUser
)

// Response is the outcome of one round trip. Err is set when no HTTP
// response was received at all.
type Response struct {
	StatusCode int
	Body       string
	Err        error
}

// Action tells the driver what to do after a transition. Request is
// NoRequest once the session is finished; Token or Err then carries the
// outcome.
type Action struct {
	Request RequestKind
	Info    string
	Token   string
	Err     error
}

func (a Action) Terminal() bool {
	return a.Request == NoRequest
}

// Session is the state of one login handshake. It performs no I/O: the
// driver sends the requested call and feeds the response to Next.
type Session struct {
	ID          string
	Credentials domain.Credentials
	Step        Step
	RetryCount  int
}

func NewSession(creds domain.Credentials) *Session {
	return &Session{
		ID:          uuid.NewString(),
		Credentials: creds,
		Step:        StepInitial,
	}
}

// Start validates the credentials and asks for the first request.
func (s *Session) Start() Action {
	if s.Step != StepInitial {
		return s.fail(fmt.Errorf("%w: session already started", domain.ErrProtocol))
	}

	if err := validateCredentials(s.Credentials); err != nil {
		return s.fail(err)
	}

	s.Step = StepAwaitingDisabledAck
	return Action{Request: CreateUser, Info: "Step 1/3: first request..."}
}

// Next applies the response to the request asked for by the previous
// action.
func (s *Session) Next(resp Response) Action {
	switch s.Step {
	case StepAwaitingDisabledAck:
		if registrationDisabled(resp) {
			return s.retry()
		}
		return s.fail(unhandled(resp))

	case StepAwaitingChallenge:
		if registrationDisabled(resp) {
			return s.retry()
		}
		if resp.Err == nil && resp.StatusCode == 200 && strings.Contains(resp.Body, authenticatedMarker) {
			s.Step = StepAwaitingToken
			return Action{Request: ConfirmUser, Info: "Step 3/3: authorisation request..."}
		}
		return s.fail(unhandled(resp))

	case StepAwaitingToken:
		if resp.Err == nil && resp.StatusCode == 201 && strings.Contains(resp.Body, authenticatedMarker) {
			token := gjson.Get(resp.Body, "token").String()
			if !gjson.Valid(resp.Body) || token == "" {
				return s.fail(fmt.Errorf("%w: can not read token from response %q", domain.ErrParse, resp.Body))
			}
			s.Step = StepDone
			return Action{Token: token, Info: "Done. Authorisation successful."}
		}
		return s.fail(unhandled(resp))

	default:
		return s.fail(fmt.Errorf("%w: no request pending in step %s", domain.ErrProtocol, s.Step))
	}
}

func (s *Session) retry() Action {
	s.RetryCount++
	if s.RetryCount > maxRetries {
		return s.fail(fmt.Errorf("%w: cannot find user with this name/password", domain.ErrProtocol))
	}

	s.Step = StepAwaitingChallenge
	return Action{Request: ReadUser, Info: "Step 2/3: info request..."}
}

func (s *Session) fail(err error) Action {
	s.Step = StepFailed
	return Action{Err: err}
}

// clear drops the credentials once the session is over.
func (s *Session) clear() {
	s.Credentials = domain.Credentials{}
}

func registrationDisabled(resp Response) bool {
	return resp.Err == nil && resp.StatusCode == 409 && strings.Contains(resp.Body, registrationDisabledMarker)
}

func unhandled(resp Response) error {
	message := resp.Body
	if resp.Err != nil {
		message = resp.Err.Error()
	}
	if message == "" {
		message = "empty"
	}
	return fmt.Errorf("%w: unhandled response: status=%d, message=%s", domain.ErrProtocol, resp.StatusCode, message)
}
