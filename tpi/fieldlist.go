package tpi

import (
	"slices"

	"github.com/wippyai/pdbtypes/errors"
	"github.com/wippyai/pdbtypes/tpi/internal/binary"
)

// enumFieldList decodes the enumerators of field list id, following
// LF_INDEX continuations. A missing or garbled list yields no enumerators.
// The result is owned by the caller.
func (d *decoder) enumFieldList(id TypeID) []Enumerator {
	fields, _ := d.fieldList(id, nil)
	return slices.Clone(fields)
}

// fieldList decodes one field list record. path holds the field lists that
// led here through continuations. The second result reports whether a
// continuation was cut off because of path, in which case the result is
// only valid for this path and is not cached.
func (d *decoder) fieldList(id TypeID, path []TypeID) ([]Enumerator, bool) {
	entry, ok := d.index.Lookup(id)
	switch {
	case !ok:
		d.warn("field list reference ignored", errors.UnresolvedFieldList(d.path(path), uint32(id), "out of range"), id)
		return nil, false
	case entry.Kind != LeafFieldList:
		d.warn("field list reference ignored",
			errors.UnresolvedFieldList(d.path(path), uint32(id), "is "+entry.Kind.String()), id)
		return nil, false
	case slices.Contains(path, id):
		d.warn("continuation cycle", errors.New(errors.PhaseMaterialize, errors.KindContinuationCycle).
			Path(d.path(path)...).
			Value(uint32(id)).
			Detail("field list %s continues into itself", id).
			Build(), id)
		return nil, true
	case len(path) >= d.opts.MaxContinuationDepth:
		d.warn("continuation chain too deep", errors.New(errors.PhaseMaterialize, errors.KindContinuationTooDeep).
			Path(d.path(path)...).
			Value(len(path)).
			Detail("more than %d continuations", d.opts.MaxContinuationDepth).
			Build(), id)
		return nil, true
	}

	if d.cache != nil {
		if cached, ok := d.cache.Get(id); ok {
			d.stats.CacheHits++
			return cached, false
		}
	}

	body, err := d.recordBody(entry)
	if err != nil {
		d.warn("field list unreadable", errors.Truncated(errors.PhaseMaterialize, entry.Offset, 0, err), id)
		return nil, false
	}

	path = append(path[:len(path):len(path)], id)
	fields, pathDependent := d.walkFieldList(body, path)
	if !pathDependent && d.cache != nil {
		d.cache.Add(id, fields)
	}
	return fields, pathDependent
}

// walkFieldList decodes the sub-records of one field list body. body starts
// at the record's kind tag. Decoding stops at the first sub-record that is
// unknown or does not fit, keeping what was decoded before it.
func (d *decoder) walkFieldList(body []byte, path []TypeID) ([]Enumerator, bool) {
	var (
		fields        []Enumerator
		pathDependent bool
	)

	c := binary.NewCursor(body)
	_ = c.Skip(2) // LF_FIELDLIST

	for c.Remaining() >= 2 {
		start := c.Offset()
		tag, _ := c.ReadU16()

		switch LeafKind(tag) {
		case LeafEnumerate:
			f, ok := d.enumerate(c, start, path)
			if !ok {
				return fields, pathDependent
			}
			if f.Name != "" {
				fields = append(fields, f)
			}

		case LeafIndex:
			if c.Remaining() < 6 {
				d.warn("truncated continuation", d.truncated(path, c, 6), path[len(path)-1])
				return fields, pathDependent
			}
			_ = c.Skip(2) // padding
			target, _ := c.ReadU32()
			sub, dep := d.fieldList(TypeID(target), path)
			fields = append(fields, sub...)
			pathDependent = pathDependent || dep

		default:
			d.warn("unknown field list entry", errors.UnknownTag(errors.PhaseMaterialize, d.path(path), tag), path[len(path)-1])
			return fields, pathDependent
		}
	}
	return fields, pathDependent
}

// enumerate decodes one LF_ENUMERATE sub-record whose tag started at start.
// On success the cursor is left on the next 4-byte boundary from start.
func (d *decoder) enumerate(c *binary.Cursor, start int, path []TypeID) (Enumerator, bool) {
	id := path[len(path)-1]

	if c.Remaining() < 4 {
		d.warn("truncated enumerator", d.truncated(path, c, 4), id)
		return Enumerator{}, false
	}
	_, _ = c.ReadU16() // attributes
	raw, _ := c.ReadU16()

	value := int64(raw)
	if raw >= extendedMin {
		v, n, err := DecodeExtended(raw, c.Rest())
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Path = d.path(path)
			}
			d.warn("bad enumerator value", err, id)
			return Enumerator{}, false
		}
		_ = c.Skip(n)
		value = v
	}

	name, err := c.CString()
	if err != nil {
		d.warn("bad enumerator name", errors.MalformedName(d.path(path), c.Offset()), id)
		return Enumerator{}, false
	}
	f := Enumerator{Name: string(name), Value: value}

	if err := c.AlignFrom(start, 4); err != nil {
		// no room left for padding, so nothing can follow
		_ = c.Skip(c.Remaining())
	}
	return f, true
}

func (d *decoder) truncated(path []TypeID, c *binary.Cursor, want int) *errors.Error {
	e := errors.Truncated(errors.PhaseMaterialize, int64(c.Offset()), want, binary.ErrTruncated)
	e.Path = d.path(path)
	return e
}

// path renders the enum being decoded followed by the continuation chain.
func (d *decoder) path(chain []TypeID) []string {
	p := make([]string, 0, len(chain)+1)
	p = append(p, d.current.String())
	for _, id := range chain {
		p = append(p, id.String())
	}
	return p
}
