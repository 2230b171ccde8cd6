package tpi_test

import (
	"bytes"
	"errors"
	"testing"

	pdberrors "github.com/wippyai/pdbtypes/errors"
	"github.com/wippyai/pdbtypes/tpi"
	"github.com/wippyai/pdbtypes/tpi/tpitest"
)

func TestReadHeader(t *testing.T) {
	b := tpitest.New()
	b.FieldList(tpitest.Enumerate("A", 1))
	b.Enum("E", uint32(tpi.TInt4), tpitest.FirstID)

	h, err := tpi.ReadHeader(b.Reader())
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Version != tpi.VersionV80 {
		t.Errorf("Version = %d", h.Version)
	}
	if h.HeaderSize != 56 {
		t.Errorf("HeaderSize = %d", h.HeaderSize)
	}
	if h.TypeIndexBegin != 0x1000 || h.TypeIndexEnd != 0x1002 {
		t.Errorf("range = [%s, %s)", h.TypeIndexBegin, h.TypeIndexEnd)
	}
	if int(h.TypeRecordBytes) != len(b.Bytes())-56 {
		t.Errorf("TypeRecordBytes = %d", h.TypeRecordBytes)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad version", tpitest.New().Version(19990903).Bytes(), &pdberrors.Error{Phase: pdberrors.PhaseHeader, Kind: pdberrors.KindBadVersion}},
		{"short header", tpitest.New().Bytes()[:20], &pdberrors.Error{Phase: pdberrors.PhaseHeader, Kind: pdberrors.KindTruncated}},
		{"empty stream", nil, &pdberrors.Error{Phase: pdberrors.PhaseHeader, Kind: pdberrors.KindTruncated}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tpi.ReadHeader(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHeaderRange(t *testing.T) {
	tests := []struct {
		name        string
		begin, end  tpi.TypeID
		first, last tpi.TypeID
		ok          bool
	}{
		{"two types", 0x1000, 0x1002, 0x1000, 0x1001, true},
		{"many types", 0x1000, 0x2000, 0x1000, 0x1fff, true},
		{"no types", 0x1000, 0x1000, 0x1000, 0x1000, false},
		{"end before begin", 0x1000, 0x0010, 0x1000, 0x1000, false},
		{"end zero", 0x1000, 0, 0x1000, 0x1000, false},
		{"single type is empty", 0x1000, 0x1001, 0x1000, 0x1000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &tpi.Header{TypeIndexBegin: tt.begin, TypeIndexEnd: tt.end}
			first, last, ok := h.Range()
			if first != tt.first || last != tt.last || ok != tt.ok {
				t.Errorf("Range() = (%s, %s, %v), want (%s, %s, %v)", first, last, ok, tt.first, tt.last, tt.ok)
			}
		})
	}
}
