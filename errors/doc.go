// Package errors provides structured error types for the PDB type decoder.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the record path (type ids, outermost first), the offending
// value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMaterialize, errors.KindUnknownTag).
//		Path("0x1004", "0x1003").
//		Value(uint16(0x150d)).
//		Detail("stopped field list").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(errors.PhaseIndex, 4096, 2, io.ErrUnexpectedEOF)
//	err := errors.BadVersion(19990903, 20040203)
//
// Errors split into two recovery tiers. Error.Fatal reports the ones that abort a
// whole load; everything else is recovered locally by skipping or truncating the
// affected record.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
