package apperrors

import "errors"

// ErrNotFound indicates that a requested record or path could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks before
// any write was attempted.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates an attempt to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the viewer lacks the role or authorship required
// for the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrTransport indicates the remote store could not complete a read or
// write. Surfaced once; callers retry manually.
var ErrTransport = errors.New("remote store unavailable")

// ErrOverdraftConfirmation indicates a leave debit would push an annual or
// casual counter below zero and the caller has not confirmed the overdraft.
var ErrOverdraftConfirmation = errors.New("overdraft requires confirmation")
