package sdls

import (
	"errors"
	"fmt"
)

// Status is one of the library's enumerated outcome codes.
type Status int

const (
	Success Status = iota
	NoConfig
	NoInit
	NullBuffer
	ManagedParametersForGVCIDNotFound
	InvalidCCFlag
	InvalidFECF
	AbmTooShortForAAD
	BadAntiReplayWindow
	AuthenticationError
	MacRetrievalError
	MacValidationError
	DecryptError
	LibgcryptError
	Err
)

func (s Status) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case NoConfig:
		return "NO_CONFIG"
	case NoInit:
		return "NO_INIT"
	case NullBuffer:
		return "NULL_BUFFER"
	case ManagedParametersForGVCIDNotFound:
		return "MANAGED_PARAMETERS_FOR_GVCID_NOT_FOUND"
	case InvalidCCFlag:
		return "INVALID_CC_FLAG"
	case InvalidFECF:
		return "INVALID_FECF"
	case AbmTooShortForAAD:
		return "ABM_TOO_SHORT_FOR_AAD"
	case BadAntiReplayWindow:
		return "BAD_ANTIREPLAY_WINDOW"
	case AuthenticationError:
		return "AUTHENTICATION_ERROR"
	case MacRetrievalError:
		return "MAC_RETRIEVAL_ERROR"
	case MacValidationError:
		return "MAC_VALIDATION_ERROR"
	case DecryptError:
		return "DECRYPT_ERROR"
	case LibgcryptError:
		return "LIBGCRYPT_ERROR"
	case Err:
		return "ERR"
	default:
		return fmt.Sprintf("UNKNOWN_STATUS(%d)", int(s))
	}
}

// Error wraps a Status with an optional underlying cause. All pipeline
// failures are returned as *Error so callers can switch on Status while
// still reaching the original cause via errors.Unwrap/errors.As.
type Error struct {
	Status Status
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sdls: %s: %v", e.Status, e.Cause)
	}
	return fmt.Sprintf("sdls: %s", e.Status)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(s Status, cause error) *Error {
	return &Error{Status: s, Cause: cause}
}

// StatusOf extracts the Status carried by err, returning Success for a nil
// error and Err for any error that did not originate from this package.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Status
	}
	return Err
}
