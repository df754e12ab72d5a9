package mspi

import "github.com/grailbio/base/errors"

// Failures are reported with grailbio/base/errors kinds:
//
//   errors.Precondition  missing or malformed input, unsorted input, bad options
//   errors.NotExist      reference sequence missing from the genome or size table
//   errors.Invalid       reference lookup outside the sequence
//   errors.Integrity     sequence, quality and XM lengths disagree
//
// All of them abort the run; nothing is written to the output path.

// IsPrecondition reports whether err was raised before processing started
// because an input or option was unusable.
func IsPrecondition(err error) bool {
	return errors.Is(errors.Precondition, err)
}

// IsLookupFailure reports whether err is a failed reference lookup.
func IsLookupFailure(err error) bool {
	return errors.Is(errors.NotExist, err) || errors.Is(errors.Invalid, err)
}

// IsShapeViolation reports whether err is a sequence/quality/XM length
// mismatch.
func IsShapeViolation(err error) bool {
	return errors.Is(errors.Integrity, err)
}
