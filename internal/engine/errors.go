package engine

import "fmt"

// Code is a machine-readable error code. Every failure the interpreter
// can produce maps to exactly one code so hosts and rule authors can
// tell an illegal move from a broken document.
type Code string

const (
	// CodeNotFound: referenced action or ability id absent from the document.
	CodeNotFound Code = "NOT_FOUND"

	// CodePhaseNotAllowed: the current phase is outside the rule's allowedPhases.
	CodePhaseNotAllowed Code = "PHASE_NOT_ALLOWED"

	// CodeActionNotAllowed: an action's condition gate failed.
	CodeActionNotAllowed Code = "ACTION_NOT_ALLOWED"

	// CodeConditionNotSatisfied: an ability's condition gate failed.
	CodeConditionNotSatisfied Code = "CONDITION_NOT_SATISFIED"

	// CodeUnsupportedOperation: an effect op with no registered handler.
	CodeUnsupportedOperation Code = "UNSUPPORTED_OPERATION"

	// CodeUnsupportedReference: a pile reference the resolver does not recognize.
	CodeUnsupportedReference Code = "UNSUPPORTED_REFERENCE"

	// CodeUnsupportedTarget: a flag target the resolver does not recognize.
	CodeUnsupportedTarget Code = "UNSUPPORTED_TARGET"

	// CodeMissingParameter: a required invocation parameter was absent.
	CodeMissingParameter Code = "MISSING_PARAMETER"

	// CodeInvalidIndex: a hand index was absent or out of bounds.
	CodeInvalidIndex Code = "INVALID_INDEX"

	// CodePlayerNotFound: a player reference matched no player.
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"

	// CodeBadCondition: a condition expression failed to compile or did
	// not evaluate to a boolean.
	CodeBadCondition Code = "BAD_CONDITION"
)

// Error is a structured interpreter error carrying enough context for a
// rule author to locate the offending part of the document.
type Error struct {
	Code    Code
	Op      string // effect op or engine operation that failed
	RuleID  string // action/ability id, when known
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RuleID != "" {
		msg += fmt.Sprintf(" (rule %q)", e.RuleID)
	}
	if e.Op != "" {
		msg += fmt.Sprintf(" (op %q)", e.Op)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// HasCode reports whether err is an interpreter Error with the given code.
func HasCode(err error, code Code) bool {
	var ie *Error
	for err != nil {
		if ie, _ = err.(*Error); ie != nil {
			return ie.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// withRule attaches a rule id to an interpreter error bubbling out of an
// effect list, leaving other error types alone.
func withRule(err error, ruleID string) error {
	if err == nil {
		return nil
	}
	if ie, ok := err.(*Error); ok && ie.RuleID == "" {
		ie.RuleID = ruleID
	}
	return err
}
