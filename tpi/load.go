package tpi

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/wippyai/pdbtypes/errors"
	"github.com/wippyai/pdbtypes/tpi/internal/binary"
)

// ErrTypesUnavailable matches, via errors.Is, every error returned by Load
// when no type could be published. Callers should carry on without type
// information.
var ErrTypesUnavailable = &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindUnavailable}

// Sink receives decoded enums. It takes ownership of each Enum and is
// responsible for duplicate handling.
type Sink interface {
	EmitEnum(e *Enum)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e *Enum)

func (f SinkFunc) EmitEnum(e *Enum) { f(e) }

// Options configures a load.
type Options struct {
	// Logger receives per-record warnings. Nil means the package Logger().
	Logger *zap.Logger

	// Resolver maps underlying type ids to storage. Nil means ResolveBuiltin.
	Resolver UnderlyingResolver

	// MaxContinuationDepth bounds LF_INDEX chains. 0 means the default.
	MaxContinuationDepth int

	// FieldListCacheSize is the number of decoded field lists kept for reuse
	// during one load. 0 disables the cache.
	FieldListCacheSize int
}

const defaultMaxContinuationDepth = 64

// DefaultOptions returns the default load configuration.
func DefaultOptions() Options {
	return Options{
		Resolver:             ResolveBuiltin,
		MaxContinuationDepth: defaultMaxContinuationDepth,
		FieldListCacheSize:   256,
	}
}

// Stats summarizes a load.
type Stats struct {
	Warnings    map[errors.Kind]int `json:"warnings,omitempty"`
	Header      *Header             `json:"header,omitempty"`
	Types       int                 `json:"types"`
	Enums       int                 `json:"enums"`
	Emitted     int                 `json:"emitted"`
	ForwardRefs int                 `json:"forward_refs"`
	CacheHits   int                 `json:"cache_hits"`
}

// Load decodes every LF_ENUM record of s and hands the results to sink in
// ascending id order. Header and indexing failures abort the load before
// anything is emitted and return an error matching ErrTypesUnavailable;
// anomalies inside single records are logged, counted in Stats.Warnings and
// skipped.
//
// Load owns s's read position for its whole duration.
func Load(s Stream, sink Sink, opts Options) (Stats, error) {
	stats := Stats{Warnings: make(map[errors.Kind]int)}
	if sink == nil {
		return stats, errors.InvalidInput(errors.PhaseLoad, "nil sink")
	}
	opts = opts.withDefaults()
	log := opts.Logger

	r := binary.NewReader(s)
	h, err := readHeader(r)
	if err != nil {
		return stats, unavailable(log, err)
	}
	stats.Header = h

	first, last, ok := h.Range()
	if !ok {
		log.Debug("empty type stream", zap.Stringer("first", first), zap.Stringer("end", h.TypeIndexEnd))
		return stats, nil
	}

	index, err := indexRecords(r, first, last)
	if err != nil {
		return stats, unavailable(log, err)
	}
	stats.Types = index.Len()

	d, err := newDecoder(r, index, opts, &stats)
	if err != nil {
		return stats, err
	}

	for id, e := range index.All() {
		if e.Kind != LeafEnum {
			continue
		}
		stats.Enums++
		if en, ok := d.decodeEnum(id); ok {
			sink.EmitEnum(en)
			stats.Emitted++
		}
	}

	log.Debug("type stream loaded",
		zap.Int("types", stats.Types),
		zap.Int("enums", stats.Enums),
		zap.Int("emitted", stats.Emitted))
	return stats, nil
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = Logger()
	}
	if o.Resolver == nil {
		o.Resolver = ResolveBuiltin
	}
	if o.MaxContinuationDepth <= 0 {
		o.MaxContinuationDepth = defaultMaxContinuationDepth
	}
	return o
}

func unavailable(log *zap.Logger, cause error) error {
	log.Warn("types unavailable", zap.Error(cause))
	return errors.Unavailable(cause)
}

// decoder holds the state of one load's materialization pass. It is never
// shared between loads.
type decoder struct {
	r       *binary.Reader
	index   *Index
	cache   *lru.Cache[TypeID, []Enumerator]
	log     *zap.Logger
	stats   *Stats
	opts    Options
	current TypeID
}

func newDecoder(r *binary.Reader, index *Index, opts Options, stats *Stats) (*decoder, error) {
	d := &decoder{
		r:     r,
		index: index,
		log:   opts.Logger,
		stats: stats,
		opts:  opts,
	}
	if opts.FieldListCacheSize > 0 {
		cache, err := lru.New[TypeID, []Enumerator](opts.FieldListCacheSize)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "field list cache")
		}
		d.cache = cache
	}
	return d, nil
}

// recordBody reads the record at e, returning the declared length's worth
// of bytes starting at the kind tag.
func (d *decoder) recordBody(e Entry) ([]byte, error) {
	if err := d.r.Seek(e.Offset); err != nil {
		return nil, err
	}
	length, err := d.r.ReadU16()
	if err != nil {
		return nil, err
	}
	return d.r.ReadBytes(int(length))
}

// warn reports a per-record anomaly. Decoding continues.
func (d *decoder) warn(msg string, err error, id TypeID) {
	d.stats.Warnings[errors.KindOf(err)]++
	d.log.Warn(msg,
		zap.Stringer("type_id", id),
		zap.Stringer("enum_id", d.current),
		zap.Error(err))
}
