package exitcodes

import (
	"errors"
	"os"
)

// Standard exit codes for tesseract-setup
const (
	// Success indicates normal completion, including a declined confirmation
	Success = 0
	// GeneralError indicates a general/unknown error
	GeneralError = 1
	// InvalidArgs indicates invalid command-line arguments or flags
	InvalidArgs = 2
	// PreconditionFailed indicates a precondition was not met
	// (e.g., config file unreadable, no interactive terminal)
	PreconditionFailed = 3
	// AccountError indicates the service account could not be created
	// (e.g., insufficient privilege, name conflict)
	AccountError = 4
	// FileError indicates the unit file could not be read or written
	// (e.g., missing file, permission denied)
	FileError = 5
)

// Exit terminates the program with the given code
func Exit(code int) {
	os.Exit(code)
}

// CodeForError returns the appropriate exit code for an error.
// The outermost ErrorWithCode in the chain decides; anything else is a
// GeneralError.
func CodeForError(err error) int {
	if err == nil {
		return Success
	}

	var ec *ErrorWithCode
	if errors.As(err, &ec) {
		return ec.Code
	}

	return GeneralError
}
