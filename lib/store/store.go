package store

import (
	"fmt"
	"io"

	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("store")

// Options configures a SectionStore
type Options struct {
	// Name is used as the store label of all metrics
	Name string
	// Edge is the edge length of every cuboid in the store
	Edge int
	// DataVersion is used to pack the sections on Save
	DataVersion int
}

// DefaultOptions returns options for a store of 16^3 block sections
func DefaultOptions() *Options {
	return &Options{
		Name:        "default",
		Edge:        16,
		DataVersion: cuboid.LatestDataVersion,
	}
}

// section is one cuboid with its lock. Readers that do not mutate the cuboid
// take the read lock, everything else (including clone and compaction) the
// write lock.
type section[E value.Value[E]] struct {
	mu *xsync.RBMutex
	c  *cuboid.Cuboid[E]
}

// SectionStore holds the cuboids of many sections and provides the locking
// a single cuboid lacks. All methods are safe for concurrent use, except
// Load which must not run concurrently with anything else.
type SectionStore[E value.Value[E]] struct {
	opts     Options
	sections *xsync.MapOf[SectionKey, *section[E]]
	metrics  *storeMetrics
}

// NewSectionStore creates an empty store. A nil opts uses DefaultOptions.
func NewSectionStore[E value.Value[E]](opts *Options) (*SectionStore[E], error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := cuboid.ValidateEdge(opts.Edge); err != nil {
		return nil, wrapError(RetCInvalidOperation, "invalid edge length", err)
	}
	s := &SectionStore[E]{
		opts:     *opts,
		sections: xsync.NewMapOf[SectionKey, *section[E]](),
	}
	s.metrics = newStoreMetrics(opts.Name, func() int { return s.sections.Size() })
	Logger.Infof("created section store %q (edge %d, data version %d)", opts.Name, opts.Edge, opts.DataVersion)
	return s, nil
}

// Options returns a copy of the options of the store
func (s *SectionStore[E]) Options() Options {
	return s.opts
}

// --------------------------------------------------------------------------
// Section Operations
// --------------------------------------------------------------------------

// Put stores c at key, replacing any previous section. The store takes
// ownership of c, the caller must not use it afterwards.
func (s *SectionStore[E]) Put(key SectionKey, c *cuboid.Cuboid[E]) error {
	if c == nil {
		return NewError(RetCInvalidOperation, "cannot put a nil cuboid")
	}
	if c.EdgeLength() != s.opts.Edge {
		return NewError(RetCInvalidOperation, fmt.Sprintf("edge length %d does not match store edge %d", c.EdgeLength(), s.opts.Edge))
	}
	s.sections.Store(key, &section[E]{mu: xsync.NewRBMutex(), c: c})
	s.metrics.puts.Inc()
	s.metrics.paletteLen.Update(float64(c.PaletteLen()))
	return nil
}

// Get returns an independent copy of the section at key. The boolean
// indicates whether the section exists.
func (s *SectionStore[E]) Get(key SectionKey) (*cuboid.Cuboid[E], bool, error) {
	sec, ok := s.sections.Load(key)
	if !ok {
		return nil, false, nil
	}

	// clone compacts the source and therefore needs the write lock
	sec.mu.Lock()
	defer sec.mu.Unlock()
	c, err := sec.c.Clone()
	if err != nil {
		return nil, true, wrapError(RetCInternalError, fmt.Sprintf("clone section %v", key), err)
	}
	return c, true, nil
}

// Has returns whether a section exists at key
func (s *SectionStore[E]) Has(key SectionKey) bool {
	_, ok := s.sections.Load(key)
	return ok
}

// View runs fn with the section at key under its read lock. fn must only
// call non-mutating methods (Get, GetXYZ, CountIf, ToSlice, iterators
// without Set, ...).
func (s *SectionStore[E]) View(key SectionKey, fn func(c *cuboid.Cuboid[E]) error) error {
	sec, ok := s.sections.Load(key)
	if !ok {
		return NewError(RetCNotFound, fmt.Sprintf("no section at %v", key))
	}
	t := sec.mu.RLock()
	defer sec.mu.RUnlock(t)
	return fn(sec.c)
}

// Update runs fn with the section at key under its write lock.
func (s *SectionStore[E]) Update(key SectionKey, fn func(c *cuboid.Cuboid[E]) error) error {
	sec, ok := s.sections.Load(key)
	if !ok {
		return NewError(RetCNotFound, fmt.Sprintf("no section at %v", key))
	}
	return s.update(sec, fn)
}

// UpdateOrCreate runs fn with the section at key under its write lock,
// creating a section filled with fill first if none exists.
func (s *SectionStore[E]) UpdateOrCreate(key SectionKey, fill E, fn func(c *cuboid.Cuboid[E]) error) error {
	sec, _ := s.sections.LoadOrCompute(key, func() *section[E] {
		// cannot fail, the edge was validated by NewSectionStore
		c, _ := cuboid.New(s.opts.Edge, fill)
		return &section[E]{mu: xsync.NewRBMutex(), c: c}
	})
	return s.update(sec, fn)
}

func (s *SectionStore[E]) update(sec *section[E], fn func(c *cuboid.Cuboid[E]) error) error {
	sec.mu.Lock()
	defer sec.mu.Unlock()
	s.metrics.updates.Inc()
	return fn(sec.c)
}

// Delete removes the section at key and reports whether it existed
func (s *SectionStore[E]) Delete(key SectionKey) bool {
	_, ok := s.sections.LoadAndDelete(key)
	return ok
}

// Len returns the number of sections
func (s *SectionStore[E]) Len() int {
	return s.sections.Size()
}

// Range calls fn for every section under its read lock until fn returns
// false. The same restrictions as for View apply to fn.
func (s *SectionStore[E]) Range(fn func(key SectionKey, c *cuboid.Cuboid[E]) bool) {
	s.sections.Range(func(key SectionKey, sec *section[E]) bool {
		t := sec.mu.RLock()
		defer sec.mu.RUnlock(t)
		return fn(key, sec.c)
	})
}

// Compact optimizes the palette of every section and returns how many
// sections changed.
func (s *SectionStore[E]) Compact() (int, error) {
	changed := 0
	var err error
	s.sections.Range(func(key SectionKey, sec *section[E]) bool {
		sec.mu.Lock()
		defer sec.mu.Unlock()
		ok, cerr := sec.c.OptimizePalette()
		if cerr != nil {
			err = wrapError(RetCInternalError, fmt.Sprintf("compact section %v", key), cerr)
			return false
		}
		if ok {
			changed++
		}
		return true
	})
	s.metrics.compactions.Add(changed)
	Logger.Debugf("compacted %d of %d sections", changed, s.Len())
	return changed, err
}

// Clear removes all sections
func (s *SectionStore[E]) Clear() {
	s.sections.Clear()
}

// WritePrometheus writes the metrics of the store in the prometheus text format
func (s *SectionStore[E]) WritePrometheus(w io.Writer) {
	s.metrics.set.WritePrometheus(w)
}
