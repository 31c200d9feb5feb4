package repository

import apperrors "github.com/ticketflow/ticketflow/pkg/util/errorutil"

// Lookup failures. Compare with errors.Is.
var (
	ErrTicketNotFound = apperrors.NewNotFound("ticket", nil)
	ErrUserNotFound   = apperrors.NewNotFound("user", nil)
)
