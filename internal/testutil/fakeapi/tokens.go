package fakeapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/isokodocs/isoko/internal/client/models"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"

	refreshTTL = 7 * 24 * time.Hour
	ctxUser    = "user"
)

type claims struct {
	jwt.RegisteredClaims
	Type string `json:"token_type"`
}

// IssueCredential mints a token pair for the named user whose access half
// expires after ttl; a negative ttl yields an already expired token.
func (s *Server) IssueCredential(username string, ttl time.Duration) models.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.userByName(username)
	if rec == nil {
		panic("fakeapi: unknown user " + username)
	}
	return s.issue(rec.user.ID, ttl)
}

// Revoke makes the given access token unacceptable from now on.
func (s *Server) Revoke(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[access] = true
}

// RevokeAll refuses every token issued to the named user.
func (s *Server) RevokeAll(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.userByName(username); rec != nil {
		s.revoked["sub:"+strconv.FormatInt(rec.user.ID, 10)] = true
	}
}

func (s *Server) issue(userID int64, ttl time.Duration) models.Credential {
	return models.Credential{
		Access:  s.sign(userID, tokenAccess, ttl),
		Refresh: s.sign(userID, tokenRefresh, refreshTTL),
	}
}

func (s *Server) sign(userID int64, typ string, ttl time.Duration) string {
	now := s.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Type: typ,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

var errTokenInvalid = errors.New("token invalid")

// verify must be called with s.mu held.
func (s *Server) verify(token, typ string) (*userRecord, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, errTokenInvalid
	}
	if c.Type != typ || s.revoked[token] || s.revoked["sub:"+c.Subject] {
		return nil, errTokenInvalid
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, errTokenInvalid
	}
	rec, ok := s.users[id]
	if !ok {
		return nil, errTokenInvalid
	}
	return rec, nil
}

// authenticate resolves a bearer token like the backend does: no header
// means anonymous, a bad token is refused even on public endpoints.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return next(c)
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		}

		s.mu.Lock()
		rec, err := s.verify(token, tokenAccess)
		s.mu.Unlock()
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
		}
		c.Set(ctxUser, rec.user.ID)
		return next(c)
	}
}

func requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get(ctxUser).(int64); !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		}
		return next(c)
	}
}

func (s *Server) requireModerator(next echo.HandlerFunc) echo.HandlerFunc {
	return requireUser(func(c echo.Context) error {
		s.mu.Lock()
		rec := s.users[c.Get(ctxUser).(int64)]
		moderator := rec != nil && rec.user.IsModerator
		s.mu.Unlock()
		if !moderator {
			return c.JSON(http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
		}
		return next(c)
	})
}
