package store

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/util"
)

// Info describes the content of a store. Palettes are compacted while
// collecting, so the palette statistics are exact.
type Info struct {
	Sections int
	// PaletteLen are the statistics of the palette length over all sections
	PaletteLen util.Stats
	// BitsPerValue maps the packed bits per value to the number of sections
	// using it, 0 for single value sections
	BitsPerValue map[int]int
	// PackedSize is the distribution of the packed data size in bytes
	PackedSize *util.SizeHistogram
}

// Info collects statistics about all sections.
func (s *SectionStore[E]) Info() (Info, error) {
	info := Info{
		BitsPerValue: make(map[int]int),
		PackedSize:   util.NewSizeHistogram(),
	}
	var lens []float64
	var err error

	s.sections.Range(func(key SectionKey, sec *section[E]) bool {
		sec.mu.Lock()
		defer sec.mu.Unlock()

		p, perr := sec.c.Pack(s.opts.DataVersion)
		if perr != nil {
			err = wrapError(RetCInternalError, fmt.Sprintf("pack section %v", key), perr)
			return false
		}
		info.Sections++
		lens = append(lens, float64(len(p.Palette)))
		info.BitsPerValue[cuboid.BitsPerValue(len(p.Palette))]++
		info.PackedSize.Add(len(p.Data) * 8)
		return true
	})
	if err != nil {
		return Info{}, err
	}
	info.PaletteLen = util.NewStats(lens)
	return info, nil
}

func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sections:        %d\n", i.Sections)
	fmt.Fprintf(&sb, "Palette length:  mean %.2f, median %.1f, min %.0f, max %.0f, stddev %.2f\n",
		i.PaletteLen.Mean, i.PaletteLen.Median, i.PaletteLen.Min, i.PaletteLen.Max, i.PaletteLen.StdDeviation)
	fmt.Fprintf(&sb, "Packed size:     avg %d bytes, p90 <= %d bytes\n",
		i.PackedSize.Mean(), i.PackedSize.Percentile(90))
	sb.WriteString("Bits per value:\n")
	for b := 0; b <= 32; b++ {
		if n, ok := i.BitsPerValue[b]; ok {
			fmt.Fprintf(&sb, "  %2d bits: %d\n", b, n)
		}
	}
	return sb.String()
}
