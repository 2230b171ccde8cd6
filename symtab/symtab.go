package symtab

import (
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
	"go.uber.org/zap"

	"github.com/wippyai/pdbtypes/errors"
	"github.com/wippyai/pdbtypes/tpi"
)

// Domain is the namespace a symbol lives in.
type Domain uint8

const (
	UndefDomain Domain = iota
	VarDomain
	StructDomain
)

func (d Domain) String() string {
	switch d {
	case VarDomain:
		return "var"
	case StructDomain:
		return "struct"
	default:
		return "undef"
	}
}

func (d Domain) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Class is the address class of a symbol.
type Class uint8

const (
	Undef Class = iota
	Typedef
)

func (c Class) String() string {
	if c == Typedef {
		return "typedef"
	}
	return "undef"
}

func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Symbol is one registered type name.
type Symbol struct {
	Type        *tpi.Enum `json:"type"`
	Name        string    `json:"name"`
	Domain      Domain    `json:"domain"`
	Class       Class     `json:"class"`
	Fingerprint uint64    `json:"fingerprint"`
}

// Conflict records a definition rejected because its name was taken by a
// different one.
type Conflict struct {
	Kept     *Symbol   `json:"kept"`
	Rejected *tpi.Enum `json:"rejected"`
}

// Err returns the conflict as a structured error.
func (c Conflict) Err() error {
	return errors.New(errors.PhaseSymtab, errors.KindConflict).
		Path(c.Kept.Name).
		Value(c.Rejected.ID).
		Detail("%s redefines %s with a different definition", c.Rejected.ID, c.Kept.Type.ID).
		Build()
}

// Table collects enums into symbols. It is not safe for concurrent use.
type Table struct {
	log        *zap.Logger
	byName     map[string]*Symbol
	symbols    []*Symbol
	conflicts  []Conflict
	duplicates int
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger conflicts are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.log = l
		}
	}
}

// New returns an empty table.
func New(opts ...Option) *Table {
	t := &Table{
		log:    zap.NewNop(),
		byName: make(map[string]*Symbol),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// EmitEnum registers e. It implements tpi.Sink.
func (t *Table) EmitEnum(e *tpi.Enum) {
	if e == nil {
		return
	}
	fp := Fingerprint(e)

	if prev, ok := t.byName[e.Name]; ok {
		if prev.Fingerprint == fp {
			t.duplicates++
			return
		}
		c := Conflict{Kept: prev, Rejected: e}
		t.conflicts = append(t.conflicts, c)
		t.log.Warn("conflicting enum definition",
			zap.String("name", e.Name),
			zap.Stringer("kept", prev.Type.ID),
			zap.Stringer("rejected", e.ID),
			zap.Error(c.Err()))
		return
	}

	s := &Symbol{
		Name:        e.Name,
		Domain:      StructDomain,
		Class:       Typedef,
		Type:        e,
		Fingerprint: fp,
	}
	t.byName[e.Name] = s
	t.symbols = append(t.symbols, s)
}

// Lookup returns the symbol registered under name.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Symbols returns the registered symbols in registration order.
func (t *Table) Symbols() []*Symbol {
	return t.symbols
}

// Len returns the number of registered symbols.
func (t *Table) Len() int { return len(t.symbols) }

// Conflicts returns the rejected conflicting definitions in emission order.
func (t *Table) Conflicts() []Conflict {
	return t.conflicts
}

// Duplicates returns how many identical redefinitions were dropped.
func (t *Table) Duplicates() int { return t.duplicates }

// fingerprint keys are fixed so fingerprints are stable across runs.
const (
	k0 = 0x7064627479706573 // "pdbtypes"
	k1 = 0x656e756d73796d73 // "enumsyms"
)

// Fingerprint digests the parts of e that define it as a type: name,
// storage size and signedness, and each enumerator in order. Names are
// length-prefixed so adjacent fields cannot run together.
func Fingerprint(e *tpi.Enum) uint64 {
	buf := make([]byte, 0, 64+len(e.Name)+16*len(e.Fields))
	buf = appendString(buf, e.Name)
	buf = binary.LittleEndian.AppendUint32(buf, e.Underlying.Size)
	buf = append(buf, byte(e.Underlying.Sign))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(e.Fields)))
	for _, f := range e.Fields {
		buf = appendString(buf, f.Name)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(f.Value))
	}
	return siphash.Hash(k0, k1, buf)
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s %s (%s)", s.Class, s.Domain, s.Name, s.Type.ID)
}
