package store

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/klauspost/compress/zstd"
	"github.com/puzpuzpuz/xsync/v3"
)

const (
	magicNum     = "PALCUBE\x00" // File format identifier
	storeVersion = 1             // File format version
)

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Save writes every section to w as a single zstd frame. The layout of the
// uncompressed stream is (little endian):
//
//	magic "PALCUBE\x00" | version u8 | data version u32 | edge u32 | count u64
//	count x ( x i32 | y i32 | z i32 | length u32 | NBT payload )
//
// Every section is packed with the data version of the store. Sections are
// snapshotted one at a time, concurrent updates are allowed.
func (s *SectionStore[E]) Save(w io.Writer) error {
	type entry struct {
		key     SectionKey
		payload []byte
	}
	var entries []entry
	var err error

	s.sections.Range(func(key SectionKey, sec *section[E]) bool {
		var buf bytes.Buffer
		sec.mu.Lock()
		werr := sec.c.WriteNBT(&buf, "", s.opts.DataVersion)
		sec.mu.Unlock()
		if werr != nil {
			err = wrapError(RetCInternalError, fmt.Sprintf("encode section %v", key), werr)
			return false
		}
		entries = append(entries, entry{key: key, payload: buf.Bytes()})
		return true
	})
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return wrapError(RetCInternalError, "create zstd writer", err)
	}
	bw := bufio.NewWriterSize(enc, 1024*1024) // 1 MB buffer

	write := func(v any) {
		if err == nil {
			err = binary.Write(bw, binary.LittleEndian, v)
		}
	}

	// Write file header
	if _, err = bw.WriteString(magicNum); err != nil {
		_ = enc.Close()
		return err
	}
	write(uint8(storeVersion))
	write(uint32(s.opts.DataVersion))
	write(uint32(s.opts.Edge))
	write(uint64(len(entries)))

	// Write sections
	for _, e := range entries {
		write(e.key.X)
		write(e.key.Y)
		write(e.key.Z)
		write(uint32(len(e.payload)))
		if err == nil {
			_, err = bw.Write(e.payload)
		}
	}

	if err == nil {
		err = bw.Flush()
	}
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return wrapError(RetCInternalError, "write snapshot", err)
	}

	s.metrics.saves.Inc()
	Logger.Infof("saved %d sections", len(entries))
	return nil
}

// Load replaces the content of the store with a snapshot written by Save.
// The edge length of the snapshot must match the store. The sections are
// decoded with the data version recorded in the snapshot.
//
// Thread-safety: This function is not thread-safe and should not be called concurrently
func (s *SectionStore[E]) Load(r io.Reader) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return wrapError(RetCInternalError, "create zstd reader", err)
	}
	defer dec.Close()
	br := bufio.NewReaderSize(dec, 1024*1024) // 1 MB buffer

	read := func(v any) {
		if err == nil {
			err = binary.Read(br, binary.LittleEndian, v)
		}
	}

	// Read and verify magic number
	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return wrapError(RetCInvalidOperation, "read snapshot header", err)
	}
	if string(magicBytes) != magicNum {
		return NewError(RetCInvalidOperation, "invalid file format: magic number mismatch")
	}

	var version uint8
	var dataVersion, edge uint32
	var count uint64
	read(&version)
	read(&dataVersion)
	read(&edge)
	read(&count)
	if err != nil {
		return wrapError(RetCInvalidOperation, "read snapshot header", err)
	}
	if version != storeVersion {
		return NewError(RetCInvalidOperation, fmt.Sprintf("unsupported version: %d (expected %d)", version, storeVersion))
	}
	if int(edge) != s.opts.Edge {
		return NewError(RetCInvalidOperation, fmt.Sprintf("snapshot edge %d does not match store edge %d", edge, s.opts.Edge))
	}

	// decode into a fresh map so a broken snapshot leaves the store untouched
	sections := xsync.NewMapOf[SectionKey, *section[E]]()
	for i := uint64(0); i < count; i++ {
		var key SectionKey
		var length uint32
		read(&key.X)
		read(&key.Y)
		read(&key.Z)
		read(&length)
		if err != nil {
			return wrapError(RetCInvalidOperation, fmt.Sprintf("read section %d of %d", i, count), err)
		}

		payload := make([]byte, length)
		if _, err := io.ReadFull(br, payload); err != nil {
			return wrapError(RetCInvalidOperation, fmt.Sprintf("read section %v", key), err)
		}

		c, _, derr := cuboid.ReadNBT[E](bytes.NewReader(payload), s.opts.Edge, int(dataVersion))
		if derr != nil {
			return wrapError(RetCInvalidOperation, fmt.Sprintf("decode section %v", key), derr)
		}
		sections.Store(key, &section[E]{mu: xsync.NewRBMutex(), c: c})
	}

	s.sections.Clear()
	sections.Range(func(key SectionKey, sec *section[E]) bool {
		s.sections.Store(key, sec)
		return true
	})

	s.metrics.loads.Inc()
	Logger.Infof("loaded %d sections (data version %d)", count, dataVersion)
	return nil
}
