package tpi

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/wippyai/pdbtypes/errors"
	"github.com/wippyai/pdbtypes/tpi/internal/binary"
)

// enumHeaderLen covers kind, count, properties, underlying type and field
// list. A record must be longer than this to carry a name.
const enumHeaderLen = 14

// Enumerator is one named constant of an enum.
type Enumerator struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Enum is a decoded LF_ENUM record together with its enumerators.
type Enum struct {
	Name         string       `json:"name"`
	UniqueName   string       `json:"unique_name,omitempty"`
	Underlying   Underlying   `json:"underlying"`
	Fields       []Enumerator `json:"fields"`
	ID           TypeID       `json:"id"`
	UnderlyingID TypeID       `json:"underlying_id"`
	FieldList    TypeID       `json:"field_list"`
	Properties   uint16       `json:"properties"`
	Count        uint16       `json:"count"`
}

// Size returns the storage size in bytes, 0 if unknown.
func (e *Enum) Size() uint32 { return e.Underlying.Size }

// NameOf returns the first enumerator with the given value.
func (e *Enum) NameOf(v int64) (string, bool) {
	for _, f := range e.Fields {
		if f.Value == v {
			return f.Name, true
		}
	}
	return "", false
}

// decodeEnum materializes the LF_ENUM record id. It returns false when the
// record is skipped: too short, a forward reference or unreadable.
func (d *decoder) decodeEnum(id TypeID) (*Enum, bool) {
	d.current = id

	entry, _ := d.index.Lookup(id)
	body, err := d.recordBody(entry)
	if err != nil {
		d.warn("enum record unreadable", errors.Truncated(errors.PhaseMaterialize, entry.Offset, 0, err), id)
		return nil, false
	}
	if len(body) <= enumHeaderLen {
		d.log.Debug("enum record too short", zap.Stringer("type_id", id), zap.Int("length", len(body)))
		return nil, false
	}

	c := binary.NewCursor(body)
	_, _ = c.ReadU16() // kind
	count, _ := c.ReadU16()
	props, _ := c.ReadU16()
	utype, _ := c.ReadU32()
	flist, _ := c.ReadU32()

	if props&PropForwardRef != 0 {
		d.stats.ForwardRefs++
		d.log.Debug("skipping forward reference", zap.Stringer("type_id", id))
		return nil, false
	}

	e := &Enum{
		ID:           id,
		Count:        count,
		Properties:   props,
		UnderlyingID: TypeID(utype),
		FieldList:    TypeID(flist),
	}
	e.Name, e.UniqueName = enumNames(c.Rest(), props)

	e.Underlying = d.opts.Resolver(e.UnderlyingID)
	if !e.Underlying.Known() {
		d.warn("unresolved underlying type", errors.UnresolvedUnderlying(uint32(id), utype), id)
	}

	e.Fields = d.enumFieldList(e.FieldList)
	return e, true
}

// enumNames splits the trailing name bytes. The name ends at the first zero
// byte, or at the end of the record if there is none. With
// PropHasUniqueName a second zero-terminated decorated name may follow.
func enumNames(b []byte, props uint16) (name, unique string) {
	n := bytes.IndexByte(b, 0)
	if n < 0 {
		return string(b), ""
	}
	name = string(b[:n])

	if props&PropHasUniqueName != 0 {
		rest := b[n+1:]
		if m := bytes.IndexByte(rest, 0); m >= 0 {
			unique = string(rest[:m])
		}
	}
	return name, unique
}
