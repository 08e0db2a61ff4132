package serializer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("serializer")

// ErrUnknownFormat is returned for unknown format or compression names
var ErrUnknownFormat = errors.New("serializer: unknown format")

// Format names accepted by New
const (
	FormatNBT  = "nbt"
	FormatJSON = "json"
	FormatGOB  = "gob"
)

// Formats returns the names of all formats, sorted
func Formats() []string {
	names := []string{FormatNBT, FormatJSON, FormatGOB}
	sort.Strings(names)
	return names
}

// New creates the serializer with the given format name. The compression only
// applies to nbt.
func New[E value.Value[E]](format string, edge, dataVersion int, compression Compression) (ISerializer[E], error) {
	var s ISerializer[E]
	switch format {
	case FormatNBT:
		s = NewNBTSerializer[E](edge, dataVersion, compression)
	case FormatJSON:
		s = NewJSONSerializer[E](edge, dataVersion)
	case FormatGOB:
		s = NewGOBSerializer[E](edge, dataVersion)
	default:
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownFormat, format, Formats())
	}
	if compression != CompressionNone && format != FormatNBT {
		Logger.Warningf("compression %s ignored for format %s", compression, format)
	}
	Logger.Debugf("using serializer %s (edge %d, data version %d)", s.Name(), edge, dataVersion)
	return s, nil
}
