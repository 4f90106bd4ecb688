package consensus

import (
	"errors"
	"fmt"
)

var (
	// ErrHeightOutOfRange is wrapped by every HeightConversionError.
	ErrHeightOutOfRange = errors.New("block height out of range")

	// ErrHeightUnderflow is returned by CheckedSub when the result would be negative.
	ErrHeightUnderflow = errors.New("block height underflow")

	// ErrHeightOverflow is returned by CheckedAdd when the result exceeds 2^32-1.
	ErrHeightOverflow = errors.New("block height overflow")

	// ErrUnknownBranchID is wrapped when a wire value matches no defined epoch.
	ErrUnknownBranchID = errors.New("unknown consensus branch id")
)

// HeightConversionError reports an integer that does not fit the unsigned
// 32-bit height domain.
type HeightConversionError struct {
	From  string // source integer type, e.g. "int64"
	Value string
}

func (e *HeightConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s %s to block height: %v", e.From, e.Value, ErrHeightOutOfRange)
}

func (e *HeightConversionError) Unwrap() error {
	return ErrHeightOutOfRange
}
