package services

import (
	"context"
	"fmt"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/models"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
}

type categoryService struct {
	doer Doer
}

func NewCategoryService(d Doer) CategoryService {
	return &categoryService{doer: d}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	var page models.Page[models.Category]
	if err := s.doer.Do(ctx, &api.Request{Path: "/api/categories/"}, &page); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return page.Results, nil
}
