package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseHeader      Phase = "header"      // stream header validation
	PhaseIndex       Phase = "index"       // record indexing pass
	PhaseMaterialize Phase = "materialize" // per-record decoding
	PhaseLoad        Phase = "load"        // whole load orchestration
	PhaseSymtab      Phase = "symtab"      // symbol registration
	PhaseOutput      Phase = "output"      // CLI rendering
)

// Kind categorizes the error
type Kind string

const (
	KindTruncated            Kind = "truncated"
	KindBadVersion           Kind = "bad_version"
	KindCorrupt              Kind = "corrupt"
	KindUnknownTag           Kind = "unknown_tag"
	KindUnresolvedUnderlying Kind = "unresolved_underlying_type"
	KindUnresolvedFieldList  Kind = "unresolved_field_list"
	KindMalformedName        Kind = "malformed_name"
	KindUnavailable          Kind = "unavailable"
	KindInvalidInput         Kind = "invalid_input"
	KindConflict             Kind = "conflict"
	KindContinuationCycle    Kind = "continuation_cycle"
	KindContinuationTooDeep  Kind = "continuation_too_deep"
	KindUnsupported          Kind = "unsupported"
)

// Error is the structured error type used throughout the decoder
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Fatal reports whether the error aborts a whole load rather than a single
// record. Short reads and bad lengths are fatal only while the header is
// validated or records are indexed.
func (e *Error) Fatal() bool {
	switch e.Kind {
	case KindBadVersion, KindUnavailable:
		return true
	case KindTruncated, KindCorrupt:
		return e.Phase == PhaseHeader || e.Phase == PhaseIndex
	}
	return false
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the record path, e.g. "0x1004", "0x1003"
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Truncated creates a short-read error
func Truncated(phase Phase, offset int64, want int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncated,
		Detail: fmt.Sprintf("need %d bytes at offset %d", want, offset),
		Value:  offset,
		Cause:  cause,
	}
}

// BadVersion creates an unsupported stream version error
func BadVersion(got, want uint32) *Error {
	return &Error{
		Phase:  PhaseHeader,
		Kind:   KindBadVersion,
		Detail: fmt.Sprintf("version %d not supported (want %d)", got, want),
		Value:  got,
	}
}

// Corrupt creates an invalid record length error
func Corrupt(phase Phase, typeID uint32, offset int64, length uint16) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCorrupt,
		Path:   []string{TypePath(typeID)},
		Detail: fmt.Sprintf("record length %d at offset %d is below the kind tag size", length, offset),
		Value:  length,
	}
}

// UnknownTag creates an unrecognized leaf tag error
func UnknownTag(phase Phase, path []string, tag uint16) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownTag,
		Path:   path,
		Detail: fmt.Sprintf("unknown leaf tag 0x%04x", tag),
		Value:  tag,
	}
}

// UnresolvedUnderlying creates an unknown enum storage type error
func UnresolvedUnderlying(typeID, underlying uint32) *Error {
	return &Error{
		Phase:  PhaseMaterialize,
		Kind:   KindUnresolvedUnderlying,
		Path:   []string{TypePath(typeID)},
		Detail: fmt.Sprintf("underlying type 0x%04x is not a builtin integer", underlying),
		Value:  underlying,
	}
}

// UnresolvedFieldList creates a bad field list reference error
func UnresolvedFieldList(path []string, target uint32, reason string) *Error {
	return &Error{
		Phase:  PhaseMaterialize,
		Kind:   KindUnresolvedFieldList,
		Path:   path,
		Detail: fmt.Sprintf("field list 0x%04x %s", target, reason),
		Value:  target,
	}
}

// MalformedName creates an unterminated name error
func MalformedName(path []string, offset int) *Error {
	return &Error{
		Phase:  PhaseMaterialize,
		Kind:   KindMalformedName,
		Path:   path,
		Detail: fmt.Sprintf("name at record offset %d has no terminator", offset),
		Value:  offset,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unavailable creates the whole-load failure error
func Unavailable(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindUnavailable,
		Detail: "types unavailable",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// TypePath renders a type id the way record paths are printed.
func TypePath(id uint32) string {
	return fmt.Sprintf("0x%04x", id)
}
