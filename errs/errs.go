// Package errs defines the sentinel error taxonomy shared by the
// field/scalar/point primitives, the ring-signature and range-proof
// packages, the CARROT scanner, and the transaction builder.
//
// Low-level crypto primitives never panic on attacker-controlled input;
// they return one of these sentinels (or wrap one) so callers can
// errors.Is/errors.As instead of string-matching, the same idiom the
// RandomX package uses for InvalidBlockSizeError.
package errs

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidLength is returned when a byte slice does not match the
	// fixed size expected for a key, scalar, or point.
	ErrInvalidLength = errors.New("invalid input length")

	// ErrNonCanonical is returned when a scalar is >= L, a field element
	// is >= p, or a point is outside the prime-order subgroup. Scanning
	// and verification treat this as a negative outcome, not a fatal
	// error: the caller sees "not owned" or "signature invalid".
	ErrNonCanonical = errors.New("non-canonical encoding")

	// ErrDecompressionFailed is returned when a serialized point does
	// not satisfy the curve equation.
	ErrDecompressionFailed = errors.New("point decompression failed")

	// ErrIntegrityViolation is returned when a check that binds data
	// together does not hold: a view tag, amount commitment or spend-key
	// lookup that fails to confirm ownership of a scanned output, or wire
	// data that ends before a field is complete. It never comes with a
	// partial result.
	ErrIntegrityViolation = errors.New("integrity check failed")

	// ErrInsufficientFunds is returned by the transaction builder when
	// selected inputs cannot cover targets plus the estimated fee.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOracleUnavailable is returned when a CONVERT transaction needs
	// a pricing record that could not be fetched.
	ErrOracleUnavailable = errors.New("pricing oracle unavailable")

	// ErrPricingRecordExpired is returned when a CONVERT transaction's
	// pricing record is stale relative to the current chain height.
	ErrPricingRecordExpired = errors.New("pricing record expired")

	// ErrCancelled is returned by any long-running operation (cache
	// init, dataset expansion, bulk scan, mining loop) whose context
	// was cancelled before completion.
	ErrCancelled = errors.New("operation cancelled")

	// ErrFatalConfiguration marks a class of errors that must not be
	// retried: mismatched dataset size, unsupported rct_type, an
	// operation requested on a view-only wallet that needs a spend key.
	ErrFatalConfiguration = errors.New("fatal configuration error")
)

// InvalidLengthError wraps ErrInvalidLength with the expected and actual
// sizes, for callers that want to report specifics without losing
// errors.Is(err, ErrInvalidLength) compatibility.
type InvalidLengthError struct {
	What     string
	Expected int
	Actual   int
}

func (e *InvalidLengthError) Error() string {
	return e.What + ": expected " + strconv.Itoa(e.Expected) + " bytes, got " + strconv.Itoa(e.Actual)
}

func (e *InvalidLengthError) Unwrap() error {
	return ErrInvalidLength
}

// InsufficientFundsError wraps ErrInsufficientFunds with the amount the
// transaction builder needed versus what the selected UTXOs actually
// covered.
type InsufficientFundsError struct {
	Needed    uint64
	Available uint64
}

func (e *InsufficientFundsError) Error() string {
	return "insufficient funds: needed " + strconv.FormatUint(e.Needed, 10) +
		", available " + strconv.FormatUint(e.Available, 10)
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
