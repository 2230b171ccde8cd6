package pdbtypes_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/pdbtypes"
	"github.com/wippyai/pdbtypes/tpi"
	"github.com/wippyai/pdbtypes/tpi/tpitest"
)

func TestLoad(t *testing.T) {
	b := tpitest.New()
	fl := b.FieldList(tpitest.Enumerate("A", 1), tpitest.Enumerate("B", 2))
	b.Enum("Letters", uint32(tpi.TInt4), fl)
	other := b.FieldList(tpitest.Enumerate("A", 9))
	b.Enum("Letters", uint32(tpi.TInt4), other)

	core, logs := observer.New(zapcore.WarnLevel)
	opts := tpi.DefaultOptions()
	opts.Logger = zap.New(core)

	tab, stats, err := pdbtypes.Load(b.Reader(), opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.Emitted != 2 || tab.Len() != 1 || len(tab.Conflicts()) != 1 {
		t.Errorf("emitted=%d symbols=%d conflicts=%d", stats.Emitted, tab.Len(), len(tab.Conflicts()))
	}
	if logs.FilterMessage("conflicting enum definition").Len() != 1 {
		t.Errorf("conflict not logged: %v", logs.All())
	}
}

func TestLoadUnavailable(t *testing.T) {
	b := tpitest.New().Version(1)
	b.Enum("A", uint32(tpi.TInt4), 0)
	b.Enum("B", uint32(tpi.TInt4), 0)

	tab, _, err := pdbtypes.Load(b.Reader(), tpi.DefaultOptions())
	if !errors.Is(err, tpi.ErrTypesUnavailable) {
		t.Fatalf("err = %v, want ErrTypesUnavailable", err)
	}
	if tab.Len() != 0 {
		t.Errorf("registered %d symbols", tab.Len())
	}
}
