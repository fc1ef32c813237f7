package fakeauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/library-session/authclient"
	"github.com/jrsteele09/library-session/identity"
	apperrors "github.com/jrsteele09/library-session/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

var _ authclient.Authenticator = (*Service)(nil)

const issuer = "library-session-dev"

type account struct {
	identity     identity.Identity
	passwordHash string
}

// Service is an in-memory stand-in for the library API's login endpoint.
// Tokens are HS256 JWTs so the demo can show what was issued; the session
// controller itself never looks inside them.
type Service struct {
	secret   []byte
	tokenTTL time.Duration
	nowTime  func() time.Time

	accounts map[string]*account // email -> account
	lock     sync.RWMutex
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithTokenTTL sets the lifetime written into issued tokens.
func WithTokenTTL(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.tokenTTL = d
	}
}

func New(secret string, options ...ServiceOption) (*Service, error) {
	if secret == "" {
		return nil, errors.New("[fakeauth.New] secret is required")
	}
	s := &Service{
		secret:   []byte(secret),
		tokenTTL: 72 * time.Hour,
		nowTime:  time.Now,
		accounts: make(map[string]*account),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// AddUser registers an account and returns its generated identity.
func (s *Service) AddUser(email, password, displayName, role string) (identity.Identity, error) {
	if email == "" || password == "" {
		return identity.Identity{}, errors.New("[AddUser] email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("[AddUser] hash password: %w", err)
	}

	id := identity.Identity{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
		Role:        identity.Role(role), // as the server would send it, not normalized
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.accounts[strings.ToLower(email)] = &account{identity: id, passwordHash: string(hash)}
	return id, nil
}

func (s *Service) Authenticate(ctx context.Context, creds authclient.Credentials) (authclient.Result, error) {
	if err := ctx.Err(); err != nil {
		return authclient.Result{}, err
	}

	s.lock.RLock()
	acct, ok := s.accounts[strings.ToLower(creds.Email)]
	s.lock.RUnlock()
	if !ok {
		return authclient.Result{}, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(creds.Password)); err != nil {
		return authclient.Result{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.issue(acct.identity)
	if err != nil {
		return authclient.Result{}, err
	}
	return authclient.Result{Token: token, Identity: acct.identity}, nil
}

func (s *Service) issue(id identity.Identity) (string, error) {
	now := s.nowTime()
	claims := jwtlib.MapClaims{
		"iss":   issuer,
		"sub":   id.ID,
		"email": id.Email,
		"role":  string(id.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
		"jti":   uuid.New().String(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks a token issued by this service and returns its claims.
func (s *Service) Verify(token string) (jwtlib.MapClaims, error) {
	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwtlib.WithIssuer(issuer),
		jwtlib.WithTimeFunc(s.nowTime),
	)
	if err != nil {
		return nil, fmt.Errorf("[Verify] %w", err)
	}
	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[Verify] unexpected claims type")
	}
	return claims, nil
}

// Handler serves POST authclient.LoginPath with the library API wire format.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+authclient.LoginPath, s.handleLogin)
	return mux
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds authclient.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, authclient.ErrorResponse{Message: "invalid request body"})
		return
	}

	res, err := s.Authenticate(r.Context(), creds)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, authclient.ErrorResponse{Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, authclient.ErrorResponse{Message: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, authclient.LoginResponse{
		Token:       res.Token,
		UserID:      res.Identity.ID,
		Email:       res.Identity.Email,
		DisplayName: res.Identity.DisplayName,
		Role:        string(res.Identity.Role),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
