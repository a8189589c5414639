package forge

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// SyntaxError is raised for malformed input or a type-check failure
// (spec section 7). It is fatal: the file currently being parsed fails,
// and there is no recovery.
type SyntaxError struct {
	Message string
	Span    Span
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s @ %s", e.Message, e.Span)
}

// newSyntaxError is the single constructor every type-check predicate in
// this module should go through, so messages stay consistently shaped:
// "<problem>: <construct>", with both type display names embedded when
// applicable.
func newSyntaxError(span Span, format string, args ...any) error {
	return SyntaxError{Message: fmt.Sprintf(format, args...), Span: span}
}

// InternalError is raised when an invariant is violated — an unexpected
// node kind reached a switch's default arm. Most switches over a tagged
// union in this module raise one from their default arm; emitStmt,
// exprToC, AST.merge, cnative's declTypeKind and the String methods do
// not, and return a placeholder or zero value instead. Reaching such an
// arm is a bug in this compiler, not in the input program.
type InternalError struct {
	Message string
}

func (e InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

func newInternalError(format string, args ...any) error {
	return InternalError{Message: fmt.Sprintf(format, args...)}
}

// WarningKind classifies a non-fatal Warning so callers can filter or
// count them (WarningSink.CountKind) without parsing message text. Mirrors the warning-code enum in carbonsteel's misc/error.h.
type WarningKind int

const (
	WarningNativeReimport WarningKind = iota
	WarningPrecisionLoss
	WarningUnsupportedSpecifier
)

func (k WarningKind) String() string {
	switch k {
	case WarningNativeReimport:
		return "native-reimport"
	case WarningPrecisionLoss:
		return "precision-loss"
	case WarningUnsupportedSpecifier:
		return "unsupported-specifier"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal diagnostic (spec section 7): a repeated
// native/non-native import of the same path, precision loss while
// translating a C `long double`, or an unsupported C specifier.
type Warning struct {
	Kind    WarningKind
	Message string
	Span    Span
}

func (w Warning) Error() string {
	return fmt.Sprintf("warning(%s): %s @ %s", w.Kind, w.Message, w.Span)
}

// WarningSink accumulates warnings across one `parse` call. Multiple
// unrelated warnings can occur within a single import pass (a repeated
// native import here, an unsupported specifier there) and all of them
// must surface, so this wraps hashicorp/go-multierror rather than
// keeping only the first.
type WarningSink struct {
	errs *multierror.Error
}

func NewWarningSink() *WarningSink {
	return &WarningSink{errs: &multierror.Error{
		ErrorFormat: func(errs []error) string {
			s := fmt.Sprintf("%d warning(s):", len(errs))
			for _, e := range errs {
				s += "\n  * " + e.Error()
			}
			return s
		},
	}}
}

func (s *WarningSink) Add(w Warning) {
	s.errs = multierror.Append(s.errs, w)
}

// All returns every accumulated warning in emission order.
func (s *WarningSink) All() []Warning {
	out := make([]Warning, 0, len(s.errs.Errors))
	for _, e := range s.errs.Errors {
		if w, ok := e.(Warning); ok {
			out = append(out, w)
		}
	}
	return out
}

func (s *WarningSink) CountKind(k WarningKind) int {
	n := 0
	for _, w := range s.All() {
		if w.Kind == k {
			n++
		}
	}
	return n
}

func (s *WarningSink) Empty() bool {
	return len(s.errs.Errors) == 0
}
