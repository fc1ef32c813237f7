package controller

import (
	"context"
	"errors"

	"github.com/jrsteele09/library-session/authclient"
	"github.com/jrsteele09/library-session/session"
)

// SignIn exchanges credentials with the authentication service and starts
// a session with the result. Authentication failures are returned as the
// service reported them and leave any existing session untouched.
func (c *Controller) SignIn(ctx context.Context, auth authclient.Authenticator, email, password string, rememberMe bool) (session.Session, error) {
	if auth == nil {
		return session.Session{}, errors.New("[SignIn] authenticator is required")
	}

	res, err := auth.Authenticate(ctx, authclient.Credentials{Email: email, Password: password})
	if err != nil {
		return session.Session{}, err
	}
	return c.Login(ctx, res.Token, res.Identity, rememberMe)
}
