// Package symtab is a symbol table for decoded enum types.
//
// Table implements tpi.Sink. Every enum is registered as a typedef in the
// struct domain under its name. Emitting the same definition twice is a
// duplicate and is dropped silently; a different definition under a name
// that is already taken is a conflict. Conflicts keep the first definition
// visible through Lookup and are reported through Conflicts.
//
// Definitions are compared by Fingerprint, a SipHash-2-4 digest over the
// enum's name, storage and enumerators. Type ids are not part of the
// fingerprint, so the same enum emitted by two streams compares equal.
//
//	t := symtab.New()
//	if _, err := tpi.Load(stream, t, tpi.DefaultOptions()); err != nil {
//	    // handle err
//	}
//	if s, ok := t.Lookup("Color"); ok {
//	    fmt.Println(s.Type.Fields)
//	}
package symtab
