package services

import (
	"context"

	"github.com/isokodocs/isoko/internal/client/api"
)

// Doer sends a request on behalf of the current session. *auth.Gateway
// implements it.
type Doer interface {
	Do(ctx context.Context, req *api.Request, out any) error
}

// Services bundles the resource services built over one Doer.
type Services struct {
	Documents  DocumentService
	Categories CategoryService
	Reports    ReportService
	Users      UserService
}

func New(d Doer) *Services {
	return &Services{
		Documents:  NewDocumentService(d),
		Categories: NewCategoryService(d),
		Reports:    NewReportService(d),
		Users:      NewUserService(d),
	}
}

// message is the {"message": ...} acknowledgement several endpoints return.
type message struct {
	Message string `json:"message"`
}
