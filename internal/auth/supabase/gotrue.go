package supabase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learner-portal/internal/auth"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("learner-portal/auth/supabase")

// GoTrue adapts the gotrue-go client to API.
type GoTrue struct {
	client gotrue.Client
}

// NewGoTrue points a client at <projectURL>/auth/v1.
func NewGoTrue(projectURL, anonKey string) *GoTrue {
	authURL := strings.TrimRight(projectURL, "/") + "/auth/v1"
	return &GoTrue{
		client: gotrue.New("", anonKey).WithCustomGoTrueURL(authURL),
	}
}

// classify maps GoTrue rejections to errInvalidToken and leaves transport
// failures as they are. gotrue-go reports HTTP failures only as text.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, code := range []string{"400", "401", "403", "422"} {
		if strings.Contains(msg, "status code "+code) {
			return fmt.Errorf("%w: %s", errInvalidToken, msg)
		}
	}
	return err
}

func span(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

func end(s trace.Span, err error) {
	if err != nil {
		s.RecordError(err)
		s.SetStatus(codes.Error, err.Error())
	}
	s.End()
}

func (g *GoTrue) User(ctx context.Context, accessToken string) (user *auth.User, err error) {
	_, s := span(ctx, "gotrue.GetUser")
	defer func() { end(s, err) }()

	resp, err := g.client.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, classify(err)
	}
	return &auth.User{ID: resp.ID.String(), Email: resp.Email}, nil
}

func (g *GoTrue) SignIn(ctx context.Context, email, password string) (token string, expiresIn time.Duration, err error) {
	_, s := span(ctx, "gotrue.SignInWithEmailPassword")
	defer func() { end(s, err) }()

	resp, err := g.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return "", 0, classify(err)
	}
	return resp.AccessToken, time.Duration(resp.ExpiresIn) * time.Second, nil
}

func (g *GoTrue) SignUp(ctx context.Context, email, password string) (err error) {
	_, s := span(ctx, "gotrue.Signup")
	defer func() { end(s, err) }()

	_, err = g.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	return classify(err)
}

func (g *GoTrue) SignOut(ctx context.Context, accessToken string) (err error) {
	_, s := span(ctx, "gotrue.Logout")
	defer func() { end(s, err) }()

	return classify(g.client.WithToken(accessToken).Logout())
}
