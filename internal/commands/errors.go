package commands

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-firmsite/internal/gateway"
)

// Text codes attached to categorised command failures.
const (
	CodeInvalidMessage  = "FIRMSITE_MESSAGE_INVALID"
	CodeInvalidEntity   = "FIRMSITE_ENTITY_INVALID"
	CodeEntityNotFound  = "FIRMSITE_ENTITY_NOT_FOUND"
	CodeDuplicateEntity = "FIRMSITE_ENTITY_DUPLICATE"
	CodeMissingEntityID = "FIRMSITE_ENTITY_ID_MISSING"
	CodeStateClosed     = "FIRMSITE_STATE_CLOSED"
	CodeCanceled        = "FIRMSITE_COMMAND_CANCELED"
	CodeTimeout         = "FIRMSITE_COMMAND_TIMEOUT"
	CodeFailed          = "FIRMSITE_COMMAND_FAILED"
)

// gateway sentinels keep their identity through the wrap so callers can
// still match them with errors.Is.
var stateFailures = []struct {
	target  error
	code    string
	message string
}{
	{gateway.ErrNotFound, CodeEntityNotFound, "site entity not found"},
	{gateway.ErrDuplicateID, CodeDuplicateEntity, "site entity already exists"},
	{gateway.ErrMissingID, CodeMissingEntityID, "site entity has no id"},
	{gateway.ErrClosed, CodeStateClosed, "site state is closed"},
}

func invalidMessage(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
		WithTextCode(CodeInvalidMessage)
}

func interrupted(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").
			WithTextCode(CodeTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command interrupted").
		WithTextCode(CodeCanceled)
}

// classify tags an execution failure. Entity validation failures surfaced by
// the state layer are reported as validation errors, gateway sentinels get
// their own codes, and everything else is a generic command failure.
func classify(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "site entity is invalid").
			WithTextCode(CodeInvalidEntity)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return interrupted(err)
	}
	for _, failure := range stateFailures {
		if errors.Is(err, failure.target) {
			return goerrors.Wrap(err, goerrors.CategoryCommand, failure.message).
				WithTextCode(failure.code)
		}
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
		WithTextCode(CodeFailed)
}
