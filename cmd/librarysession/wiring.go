package main

import (
	"fmt"

	"github.com/jrsteele09/library-session/authclient"
	"github.com/jrsteele09/library-session/authclient/fakeauth"
	"github.com/jrsteele09/library-session/credstore"
	"github.com/jrsteele09/library-session/credstore/memkv"
	"github.com/jrsteele09/library-session/credstore/rediskv"
	"github.com/jrsteele09/library-session/credstore/sqlitekv"
	"github.com/jrsteele09/library-session/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// openStore builds the credential store selected by STORE_BACKEND.
func openStore(c config.Config, logger zerolog.Logger) (credstore.Store, func(), error) {
	backend := c.GetStoreBackend()
	logger.Debug().Str("store", backend).Msg("opening credential store")

	switch backend {
	case config.StoreBackendMemory:
		return credstore.New(memkv.New()), func() {}, nil
	case config.StoreBackendSQLite:
		kv, err := sqlitekv.Open(c.GetSQLitePath(), c.GetStoreScope())
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return credstore.New(kv), func() { kv.Close() }, nil
	case config.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
			DB:       c.GetRedisDB(),
		})
		kv := rediskv.NewWithPrefix(client, c.GetStoreScope()+":")
		return credstore.New(kv), func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", backend)
}

// newAuthenticator returns the HTTP client for the library API, or a
// seeded in-process service when no API URL is configured.
func newAuthenticator(c config.Config, logger zerolog.Logger) (authclient.Authenticator, error) {
	if url := c.GetAuthServiceURL(); url != "" {
		client, err := authclient.NewHTTPClient(url, authclient.WithTimeout(c.GetAuthTimeout()))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	logger.Warn().Msg("AUTH_SERVICE_URL not set, using development authenticator")
	svc, err := fakeauth.New(c.GetDevSigningSecret())
	if err != nil {
		return nil, err
	}
	for _, u := range []struct{ email, name, role string }{
		{"admin@library.local", "Console Admin", "admin"},
		{"librarian@library.local", "Desk Librarian", "librarian"},
		{"member@library.local", "Library Member", "member"},
	} {
		if _, err := svc.AddUser(u.email, config.GetEnv("DEV_PASSWORD", "Password123"), u.name, u.role); err != nil {
			return nil, fmt.Errorf("seed %s: %w", u.email, err)
		}
	}
	return svc, nil
}
