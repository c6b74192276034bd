package pages

import (
	"errors"
	"io"

	"github.com/fatih/color"

	"github.com/isokodocs/isoko/internal/client/api"
	"github.com/isokodocs/isoko/internal/client/auth"
	"github.com/isokodocs/isoko/internal/client/models"
)

const (
	MsgLoginRequired = "Please log in to continue."
	MsgForbidden     = "You do not have permission to perform this action."
	MsgNotFound      = "Not found."
)

var (
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	noticeColor  = color.New(color.FgYellow)
	titleColor   = color.New(color.FgCyan, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// Message turns err into the line shown to the user.
func Message(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if errors.Is(err, api.ErrUnavailable) {
		return auth.MsgNetworkError
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	if msg := auth.FlattenFields(apiErr.Fields()); msg != "" {
		return msg
	}
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return MsgLoginRequired
	case errors.Is(err, api.ErrForbidden):
		return MsgForbidden
	case errors.Is(err, api.ErrNotFound):
		return MsgNotFound
	}
	return apiErr.Error()
}

// Fail prints err as an inline error line.
func Fail(w io.Writer, err error) {
	errorColor.Fprintln(w, "error: "+Message(err))
}

func Notice(w io.Writer, format string, args ...any) {
	noticeColor.Fprintf(w, format+"\n", args...)
}

func succeed(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, format+"\n", args...)
}
