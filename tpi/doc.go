// Package tpi decodes enum types from the Type Information stream of a PDB
// debug-info container.
//
// The stream is a header followed by variable-length records, one per type
// id, ids ascending from the header's first id. Every record starts with a
// 16-bit length and a 16-bit leaf kind. Load reads it in two passes:
//
//	index        one forward pass recording the offset and kind of each id
//	materialize  each LF_ENUM record is decoded, its LF_FIELDLIST walked
//	             (following LF_INDEX continuations) and the result emitted
//
// Indexing must finish first because a continuation may name any id in the
// stream, before or after the enum that uses it.
//
// # Loading
//
//	f, _ := os.Open("types.tpi")
//	st, _ := f.Stat()
//	stats, err := tpi.Load(io.NewSectionReader(f, 0, st.Size()), sink, tpi.DefaultOptions())
//	if errors.Is(err, tpi.ErrTypesUnavailable) {
//	    // continue without type information
//	}
//
// # Errors
//
// A bad header version, a short read while indexing, or a record declaring a
// length below 2 abort the load: nothing is emitted and the error matches
// ErrTypesUnavailable. Everything else is handled per record. An unknown
// sub-record tag or a malformed enumerator ends that field list but keeps
// the enumerators decoded so far; a bad continuation or an unknown
// underlying type is logged and ignored; forward references are skipped.
//
// Continuations that loop back into a field list already being decoded are
// not followed, and chains are cut at Options.MaxContinuationDepth.
package tpi
