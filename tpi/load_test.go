package tpi_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	pdberrors "github.com/wippyai/pdbtypes/errors"
	"github.com/wippyai/pdbtypes/tpi"
	"github.com/wippyai/pdbtypes/tpi/tpitest"
)

type collector struct {
	enums []*tpi.Enum
}

func (c *collector) EmitEnum(e *tpi.Enum) { c.enums = append(c.enums, e) }

func observed() (tpi.Options, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	opts := tpi.DefaultOptions()
	opts.Logger = zap.New(core)
	return opts, logs
}

func load(t *testing.T, b *tpitest.Builder, opts tpi.Options) (*collector, tpi.Stats, error) {
	t.Helper()
	c := &collector{}
	stats, err := tpi.Load(b.Reader(), c, opts)
	return c, stats, err
}

func TestLoadEmitsEnumsInOrder(t *testing.T) {
	b := tpitest.New()
	colors := b.FieldList(tpitest.Enumerate("RED", 0), tpitest.Enumerate("BLUE", 1))
	b.ForwardEnum("Color")
	b.Enum("Color", uint32(tpi.TInt4), colors)
	flags := b.FieldList(tpitest.Enumerate("F_NONE", 0), tpitest.Enumerate("F_ALL", 0xff))
	b.Enum("Flags", uint32(tpi.TUChar), flags)
	b.Enum("Big", uint32(tpi.TUInt8), flags)

	opts, logs := observed()
	c, stats, err := load(t, b, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(c.enums) != 3 {
		t.Fatalf("emitted %d enums, want 3", len(c.enums))
	}
	tests := []struct {
		name   string
		size   uint32
		sign   tpi.Signedness
		fields []tpi.Enumerator
	}{
		{"Color", 4, tpi.SignSigned, []tpi.Enumerator{{Name: "RED", Value: 0}, {Name: "BLUE", Value: 1}}},
		{"Flags", 1, tpi.SignUnsigned, []tpi.Enumerator{{Name: "F_NONE", Value: 0}, {Name: "F_ALL", Value: 0xff}}},
		{"Big", 8, tpi.SignUnsigned, []tpi.Enumerator{{Name: "F_NONE", Value: 0}, {Name: "F_ALL", Value: 0xff}}},
	}
	for i, tt := range tests {
		e := c.enums[i]
		if e.Name != tt.name {
			t.Errorf("enum %d name = %q, want %q", i, e.Name, tt.name)
		}
		if e.Size() != tt.size || e.Underlying.Sign != tt.sign {
			t.Errorf("%s storage = %d/%s, want %d/%s", e.Name, e.Size(), e.Underlying.Sign, tt.size, tt.sign)
		}
		if !reflect.DeepEqual(e.Fields, tt.fields) {
			t.Errorf("%s fields = %v, want %v", e.Name, e.Fields, tt.fields)
		}
		if i > 0 && e.ID <= c.enums[i-1].ID {
			t.Errorf("%s emitted out of order", e.Name)
		}
	}

	if stats.Types != 6 || stats.Enums != 4 || stats.Emitted != 3 || stats.ForwardRefs != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Header == nil || stats.Header.Version != tpi.VersionV80 {
		t.Errorf("stats.Header = %+v", stats.Header)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", logs.All())
	}
}

func TestLoadUnavailable(t *testing.T) {
	corrupt := tpitest.New()
	corrupt.Enum("A", uint32(tpi.TInt4), 0)
	corrupt.RawBytes([]byte{0x01, 0x00, 0x07})
	corrupt.Enum("B", uint32(tpi.TInt4), 0)

	truncated := tpitest.New()
	truncated.Enum("A", uint32(tpi.TInt4), 0)
	truncated.RawBytes([]byte{0x40, 0x00, 0x07, 0x15})

	missing := tpitest.New()
	missing.Enum("A", uint32(tpi.TInt4), 0)
	missing.Enum("B", uint32(tpi.TInt4), 0)
	missing.End(tpitest.FirstID + 5)

	badVersion := tpitest.New().Version(19990903)
	badVersion.Enum("A", uint32(tpi.TInt4), 0)
	badVersion.Enum("B", uint32(tpi.TInt4), 0)

	tests := []struct {
		name  string
		input []byte
		phase pdberrors.Phase
		kind  pdberrors.Kind
	}{
		{"record length below two", corrupt.Bytes(), pdberrors.PhaseIndex, pdberrors.KindCorrupt},
		{"record past end of stream", truncated.Bytes(), pdberrors.PhaseIndex, pdberrors.KindTruncated},
		{"fewer records than ids", missing.Bytes(), pdberrors.PhaseIndex, pdberrors.KindTruncated},
		{"bad version", badVersion.Bytes(), pdberrors.PhaseHeader, pdberrors.KindBadVersion},
		{"short header", badVersion.Bytes()[:20], pdberrors.PhaseHeader, pdberrors.KindTruncated},
		{"empty", nil, pdberrors.PhaseHeader, pdberrors.KindTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, logs := observed()
			c := &collector{}
			_, err := tpi.Load(bytes.NewReader(tt.input), c, opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tpi.ErrTypesUnavailable) {
				t.Errorf("error %v does not match ErrTypesUnavailable", err)
			}
			cause := &pdberrors.Error{Phase: tt.phase, Kind: tt.kind}
			if !errors.Is(err, cause) {
				t.Errorf("error %v does not wrap %s/%s", err, tt.phase, tt.kind)
			}
			if len(c.enums) != 0 {
				t.Errorf("emitted %d enums before failing", len(c.enums))
			}
			if logs.FilterMessage("types unavailable").Len() != 1 {
				t.Errorf("missing unavailable warning: %v", logs.All())
			}
		})
	}
}

func TestLoadEmptyRange(t *testing.T) {
	tests := []struct {
		name  string
		build func() *tpitest.Builder
	}{
		{"no records", func() *tpitest.Builder { return tpitest.New() }},
		{"single record", func() *tpitest.Builder {
			b := tpitest.New()
			fl := b.Next()
			b.Enum("Lonely", uint32(tpi.TInt4), fl)
			return b
		}},
		{"end before first", func() *tpitest.Builder {
			return tpitest.New().End(tpitest.FirstID - 1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, stats, err := load(t, tt.build(), tpi.DefaultOptions())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(c.enums) != 0 || stats.Types != 0 {
				t.Errorf("emitted %d enums, indexed %d types", len(c.enums), stats.Types)
			}
		})
	}
}

func TestLoadPartialFieldList(t *testing.T) {
	b := tpitest.New()
	fl := b.FieldList(
		tpitest.Enumerate("ONE", 1),
		[]byte{0x0d, 0x15, 0x00, 0x00},
		tpitest.Enumerate("TWO", 2),
	)
	b.Enum("Partial", uint32(tpi.TInt4), fl)

	opts, logs := observed()
	c, stats, err := load(t, b, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.enums) != 1 {
		t.Fatalf("emitted %d enums, want 1", len(c.enums))
	}
	if got := c.enums[0].Fields; len(got) != 1 || got[0].Name != "ONE" {
		t.Errorf("fields = %v, want only ONE", got)
	}
	if stats.Warnings[pdberrors.KindUnknownTag] != 1 {
		t.Errorf("warnings = %v", stats.Warnings)
	}
	if logs.FilterMessage("unknown field list entry").Len() != 1 {
		t.Errorf("logs = %v", logs.All())
	}
}

func TestLoadUnresolvedUnderlying(t *testing.T) {
	b := tpitest.New()
	fl := b.FieldList(tpitest.Enumerate("X", 1))
	id := b.Enum("Odd", 0x0040, fl) // T_REAL32

	opts, logs := observed()
	c, stats, err := load(t, b, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.enums) != 1 {
		t.Fatalf("emitted %d enums, want 1", len(c.enums))
	}
	e := c.enums[0]
	if e.Size() != 0 || e.Underlying.Known() || e.UnderlyingID != 0x0040 {
		t.Errorf("underlying = %+v", e.Underlying)
	}
	if len(e.Fields) != 1 {
		t.Errorf("fields = %v", e.Fields)
	}
	if stats.Warnings[pdberrors.KindUnresolvedUnderlying] != 1 {
		t.Errorf("warnings = %v", stats.Warnings)
	}

	entries := logs.FilterMessage("unresolved underlying type").All()
	if len(entries) != 1 {
		t.Fatalf("logs = %v", logs.All())
	}
	if got := entries[0].ContextMap()["type_id"]; got != tpi.TypeID(id).String() {
		t.Errorf("type_id = %v, want %s", got, tpi.TypeID(id))
	}
}

func TestLoadCustomResolver(t *testing.T) {
	b := tpitest.New()
	fl := b.FieldList(tpitest.Enumerate("X", 1))
	b.Enum("Wchar", 0x0071, fl)

	opts := tpi.DefaultOptions()
	opts.Resolver = func(id tpi.TypeID) tpi.Underlying {
		if id == 0x0071 {
			return tpi.Underlying{Name: "wchar_t", Code: id, Sign: tpi.SignUnsigned, Size: 2}
		}
		return tpi.ResolveBuiltin(id)
	}
	c, stats, err := load(t, b, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.enums) != 1 || c.enums[0].Size() != 2 {
		t.Fatalf("enums = %+v", c.enums)
	}
	if len(stats.Warnings) != 0 {
		t.Errorf("warnings = %v", stats.Warnings)
	}
}

func TestLoadNames(t *testing.T) {
	b := tpitest.New()
	fl := b.FieldList(tpitest.Enumerate("A", 1))
	b.EnumProps("ns::Kind", uint32(tpi.TInt4), fl, tpi.PropHasUniqueName, 1)
	raw := b.Raw(uint16(tpi.LeafEnum), append(
		[]byte{0x01, 0x00, 0x00, 0x00, 0x74, 0x00, 0x00, 0x00, byte(fl), byte(fl >> 8), 0x00, 0x00},
		"Bare"...))

	c, _, err := load(t, b, tpi.DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.enums) != 2 {
		t.Fatalf("emitted %d enums, want 2", len(c.enums))
	}
	if c.enums[0].Name != "ns::Kind" || c.enums[0].Count != 1 {
		t.Errorf("first enum = %+v", c.enums[0])
	}
	if c.enums[1].ID != tpi.TypeID(raw) || c.enums[1].Name != "Bare" {
		t.Errorf("unterminated name = %q", c.enums[1].Name)
	}
}

func TestLoadUniqueName(t *testing.T) {
	b := tpitest.New()
	fl := b.FieldList(tpitest.Enumerate("A", 1))
	b.Raw(uint16(tpi.LeafEnum), append(
		[]byte{0x01, 0x00, 0x00, 0x02, 0x74, 0x00, 0x00, 0x00, byte(fl), byte(fl >> 8), 0x00, 0x00},
		"Kind\x00.?AW4Kind@@\x00"...))

	c, _, err := load(t, b, tpi.DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.enums) != 1 {
		t.Fatalf("emitted %d enums, want 1", len(c.enums))
	}
	if e := c.enums[0]; e.Name != "Kind" || e.UniqueName != ".?AW4Kind@@" {
		t.Errorf("names = %q, %q", e.Name, e.UniqueName)
	}
}

func TestLoadShortEnumSkipped(t *testing.T) {
	b := tpitest.New()
	fl := b.FieldList(tpitest.Enumerate("A", 1))
	// header only, no name
	b.Raw(uint16(tpi.LeafEnum), []byte{0x01, 0x00, 0x00, 0x00, 0x74, 0x00, 0x00, 0x00, byte(fl), byte(fl >> 8), 0x00, 0x00})
	b.Enum("Kept", uint32(tpi.TInt4), fl)

	c, stats, err := load(t, b, tpi.DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.enums) != 1 || c.enums[0].Name != "Kept" {
		t.Errorf("enums = %+v", c.enums)
	}
	if stats.Enums != 2 || stats.Emitted != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestLoadIdempotent(t *testing.T) {
	b := tpitest.New()
	tail := b.FieldList(tpitest.Enumerate("C", 3))
	head := b.FieldList(tpitest.Enumerate("A", 1), tpitest.Enumerate("B", -2), tpitest.Index(tail))
	b.Enum("One", uint32(tpi.TInt4), head)
	b.Enum("Two", uint32(tpi.TShort), tail)
	data := b.Bytes()

	run := func() []*tpi.Enum {
		c := &collector{}
		if _, err := tpi.Load(bytes.NewReader(data), c, tpi.DefaultOptions()); err != nil {
			t.Fatalf("Load: %v", err)
		}
		return c.enums
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("loads differ:\n%+v\n%+v", first, second)
	}
}

func TestLoadNilSink(t *testing.T) {
	_, err := tpi.Load(tpitest.New().Reader(), nil, tpi.DefaultOptions())
	if pdberrors.KindOf(err) != pdberrors.KindInvalidInput {
		t.Errorf("err = %v, want invalid input", err)
	}
	if errors.Is(err, tpi.ErrTypesUnavailable) {
		t.Error("nil sink reported as unavailable types")
	}
}

func TestLoadSinkFunc(t *testing.T) {
	b := tpitest.New()
	fl := b.FieldList(tpitest.Enumerate("A", 1))
	b.Enum("E", uint32(tpi.TInt4), fl)

	var names []string
	_, err := tpi.Load(b.Reader(), tpi.SinkFunc(func(e *tpi.Enum) {
		names = append(names, e.Name)
	}), tpi.DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"E"}) {
		t.Errorf("names = %v", names)
	}
}
