package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/walican/walican/internal/calculator"
	"github.com/walican/walican/internal/storage"
)

// toConnectError maps engine and storage errors to Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var (
		validationErr *calculator.ValidationError
		mismatchErr   *calculator.SplitMismatchError
		invalidErr    *calculator.InvalidInputError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &mismatchErr), errors.As(err, &invalidErr):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
