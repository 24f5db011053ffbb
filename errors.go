package spinglass

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the failures of encoding and simulating a spin glass.
type Kind int

const (
	// InvalidGraph means the input is not a structurally valid undirected graph.
	InvalidGraph Kind = iota + 1
	// InvalidSet means the input set contains duplicates or is empty.
	InvalidSet
	// InvalidProblem means the problem is not supported for the input kind.
	InvalidProblem
	// MissingHamiltonian means an operation needs a Hamiltonian that is absent.
	MissingHamiltonian
	// NotExecuted means results were requested before a successful execution.
	NotExecuted
	// InvalidSteps means the number of annealing steps is less than two.
	InvalidSteps
)

func (k Kind) String() string {
	switch k {
	case InvalidGraph:
		return "invalid graph"
	case InvalidSet:
		return "invalid set"
	case InvalidProblem:
		return "invalid problem"
	case MissingHamiltonian:
		return "missing hamiltonian"
	case NotExecuted:
		return "not executed"
	case InvalidSteps:
		return "invalid steps"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is an error of a particular Kind.
// Errors match each other with errors.Is when their kinds are equal.
type Error struct {
	Kind Kind
	Msg  string
}

var (
	ErrInvalidGraph       = &Error{Kind: InvalidGraph}
	ErrInvalidSet         = &Error{Kind: InvalidSet}
	ErrInvalidProblem     = &Error{Kind: InvalidProblem}
	ErrMissingHamiltonian = &Error{Kind: MissingHamiltonian}
	ErrNotExecuted        = &Error{Kind: NotExecuted}
	ErrInvalidSteps       = &Error{Kind: InvalidSteps}
)

// NewError returns an Error of kind k with a stack trace attached.
func NewError(k Kind, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: k, Msg: fmt.Sprintf(format, args...)})
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or zero if err is not an Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
