// Package pdbtypes reads enum types out of the Type Information (TPI) stream
// of a PDB debug-info container and registers them as symbols.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	pdbtypes/            Root package: Load, stream to symbol table in one call
//	├── tpi/             Stream header, record index and enum materialization
//	│   └── tpitest/     Builder for synthetic streams in tests and examples
//	├── symtab/          Symbol table sink with duplicate and conflict detection
//	├── errors/          Structured error types for debugging
//	└── cmd/pdbenum/     Command line dumper and interactive browser
//
// # Quick Start
//
// Load a dumped stream and look up an enum:
//
//	data, err := os.ReadFile("types.tpi")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tab, stats, err := pdbtypes.Load(bytes.NewReader(data), tpi.DefaultOptions())
//	if errors.Is(err, tpi.ErrTypesUnavailable) {
//	    // the stream is unusable; carry on without types
//	}
//
//	if s, ok := tab.Lookup("Color"); ok {
//	    for _, f := range s.Type.Fields {
//	        fmt.Println(f.Name, f.Value)
//	    }
//	}
//
// # Failure Tiers
//
// Anything wrong with the header or with a record's length framing makes the
// whole stream unusable and nothing is registered. Anything wrong inside a
// single record is logged through zap, counted in tpi.Stats.Warnings and
// decoding moves on; the affected enum is either skipped or kept with the
// enumerators that could be read.
//
// # Thread Safety
//
// A load is single-threaded and owns its stream for its duration. Separate
// loads over separate streams may run concurrently. Table is not safe for
// concurrent use.
package pdbtypes
