package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Business error codes shared by the lifecycle store, the use cases and the handlers.
const (
	CodeNotFound           = "booking_not_found"
	CodeInvalidState       = "invalid_state"
	CodeDepositPaid        = "deposit_paid"
	CodeInvalidAmount      = "invalid_amount"
	CodeInvalidRequest     = "invalid_request"
	CodeUnknownServiceType = "unknown_service_type"
	CodeForbidden          = "forbidden"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code carried by err, or "" for any other error.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsUniqueViolation reports a postgres unique_violation (23505).
func IsUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// IsExclusionConflict reports a postgres exclusion_violation (23P01).
func IsExclusionConflict(err error) bool {
	return pgCode(err) == "23P01"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
