package fakeapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/isokodocs/isoko/internal/client/models"
)

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func fieldErrors(c echo.Context, fields map[string][]string) error {
	return c.JSON(http.StatusBadRequest, fields)
}

func (s *Server) currentUser(c echo.Context) *userRecord {
	id, ok := c.Get(ctxUser).(int64)
	if !ok {
		return nil
	}
	return s.users[id]
}

func (s *Server) profile(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.currentUser(c).user)
}

type authResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    models.User `json:"user"`
}

func (s *Server) login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Malformed request.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.userByName(req.Username)
	if rec == nil || rec.password != req.Password {
		return detail(c, http.StatusUnauthorized, "Invalid credentials")
	}
	cred := s.issue(rec.user.ID, s.AccessTTL)
	return c.JSON(http.StatusOK, authResponse{Access: cred.Access, Refresh: cred.Refresh, User: rec.user})
}

func (s *Server) register(c echo.Context) error {
	var req models.Registration
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "Malformed request.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	errs := map[string][]string{}
	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = append(errs["username"], "This field is required.")
	} else if s.userByName(req.Username) != nil {
		errs["username"] = append(errs["username"], "A user with that username already exists.")
	}
	if strings.TrimSpace(req.Email) == "" {
		errs["email"] = append(errs["email"], "This field is required.")
	}
	for _, rec := range s.users {
		if req.Email != "" && rec.user.Email == req.Email {
			errs["email"] = append(errs["email"], "A user with this email already exists.")
		}
	}
	if len(req.Password) < models.MinPasswordLength {
		errs["password"] = append(errs["password"], "This password is too short. It must contain at least 8 characters.")
	} else if req.Password != req.Password2 {
		errs["password"] = append(errs["password"], "Password fields didn't match.")
	}
	if len(errs) > 0 {
		return fieldErrors(c, errs)
	}

	u := models.User{
		ID:         s.id(),
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		DateJoined: s.now().UTC().Truncate(time.Second),
	}
	s.users[u.ID] = &userRecord{user: u, password: req.Password}

	cred := s.issue(u.ID, s.AccessTTL)
	return c.JSON(http.StatusCreated, authResponse{Access: cred.Access, Refresh: cred.Refresh, User: u})
}

func (s *Server) refresh(c echo.Context) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.Bind(&req); err != nil || req.Refresh == "" {
		return fieldErrors(c, map[string][]string{"refresh": {"This field is required."}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.verify(req.Refresh, tokenRefresh)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
	}
	return c.JSON(http.StatusOK, map[string]string{"access": s.sign(rec.user.ID, tokenAccess, s.AccessTTL)})
}

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for _, rec := range s.users {
		users = append(users, rec.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return c.JSON(http.StatusOK, users)
}

func (s *Server) banUser(c echo.Context) error {
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&req)
	if strings.TrimSpace(req.Reason) == "" {
		return fieldErrors(c, map[string][]string{"reason": {"This field is required."}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.targetUser(c)
	if rec == nil {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	if rec.user.IsModerator {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Cannot ban moderators."})
	}
	rec.user.IsBanned = true
	return c.JSON(http.StatusOK, map[string]string{"message": "User " + rec.user.Username + " has been banned."})
}

func (s *Server) unbanUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.targetUser(c)
	if rec == nil {
		return detail(c, http.StatusNotFound, "Not found.")
	}
	rec.user.IsBanned = false
	return c.JSON(http.StatusOK, map[string]string{"message": "User " + rec.user.Username + " has been unbanned."})
}

// targetUser must be called with s.mu held.
func (s *Server) targetUser(c echo.Context) *userRecord {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil
	}
	return s.users[id]
}
