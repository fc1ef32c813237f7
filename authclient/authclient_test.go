package authclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/library-session/authclient"
	"github.com/jrsteele09/library-session/authclient/fakeauth"
	apperrors "github.com/jrsteele09/library-session/internal/errors"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) (*httptest.Server, *fakeauth.Service) {
	t.Helper()
	svc, err := fakeauth.New("test-secret")
	require.NoError(t, err)
	_, err = svc.AddUser("grace@example.com", "Password123", "Grace Hopper", "Admin")
	require.NoError(t, err)

	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)
	return srv, svc
}

func TestHTTPClient_Authenticate(t *testing.T) {
	srv, svc := setupServer(t)

	client, err := authclient.NewHTTPClient(srv.URL + "/")
	require.NoError(t, err)

	res, err := client.Authenticate(context.Background(), authclient.Credentials{Email: "grace@example.com", Password: "Password123"})
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", res.Identity.Email)
	require.Equal(t, "Grace Hopper", res.Identity.DisplayName)
	require.Equal(t, "Admin", string(res.Identity.Role))

	_, err = svc.Verify(res.Token)
	require.NoError(t, err)
}

func TestHTTPClient_InvalidCredentials(t *testing.T) {
	srv, _ := setupServer(t)
	client, err := authclient.NewHTTPClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Authenticate(context.Background(), authclient.Credentials{Email: "grace@example.com", Password: "nope"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestHTTPClient_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"maintenance"}`))
	}))
	defer srv.Close()

	client, err := authclient.NewHTTPClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Authenticate(context.Background(), authclient.Credentials{Email: "a", Password: "b"})
	var svcErr *authclient.ServiceError
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, http.StatusServiceUnavailable, svcErr.StatusCode)
	require.Equal(t, "maintenance", svcErr.Message)
}

func TestHTTPClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":""}`))
	}))
	defer srv.Close()

	client, err := authclient.NewHTTPClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Authenticate(context.Background(), authclient.Credentials{Email: "a", Password: "b"})
	require.Error(t, err)
}

func TestHTTPClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := authclient.NewHTTPClient(url)
	require.NoError(t, err)

	_, err = client.Authenticate(context.Background(), authclient.Credentials{Email: "a", Password: "b"})
	require.ErrorIs(t, err, apperrors.ErrAuthServiceUnavailable)
}

func TestNewHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := authclient.NewHTTPClient("")
	require.Error(t, err)
}
