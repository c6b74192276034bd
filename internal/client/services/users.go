package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/models"
)

const usersPath = "/api/accounts/users/"

// UserService is the moderator's view of accounts.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Ban(ctx context.Context, id int64, reason string) (string, error)
	Unban(ctx context.Context, id int64) (string, error)
}

type userService struct {
	doer Doer
}

func NewUserService(d Doer) UserService {
	return &userService{doer: d}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	var page models.Page[models.User]
	if err := s.doer.Do(ctx, &api.Request{Path: usersPath}, &page); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return page.Results, nil
}

func (s *userService) Ban(ctx context.Context, id int64, reason string) (string, error) {
	if err := models.Required("reason", reason); err != nil {
		return "", err
	}
	return s.post(ctx, id, "ban", map[string]string{"reason": reason})
}

func (s *userService) Unban(ctx context.Context, id int64) (string, error) {
	return s.post(ctx, id, "unban", nil)
}

func (s *userService) post(ctx context.Context, id int64, action string, body any) (string, error) {
	var resp message
	req := &api.Request{
		Method: http.MethodPost,
		Path:   usersPath + strconv.FormatInt(id, 10) + "/" + action + "/",
		JSON:   body,
	}
	if err := s.doer.Do(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("%s user %d: %w", action, id, err)
	}
	return resp.Message, nil
}
