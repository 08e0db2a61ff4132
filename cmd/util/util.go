package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/palcube/lib/common"
	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/serializer"
	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cmd")

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// Value kinds selectable with --kind
const (
	KindBlock = "block"
	KindBiome = "biome"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupCuboidFlags adds the flags describing the cuboid format to a command
func SetupCuboidFlags(cmd *cobra.Command) {
	key := "kind"
	cmd.PersistentFlags().String(key, KindBlock, WrapString("Value type of the palette: block (block states, 16^3 sections) or biome (4^3 biome grids)"))

	key = "edge"
	cmd.PersistentFlags().Int(key, 0, WrapString("Edge length of the cuboid, a power of two. 0 uses 16 for blocks and 4 for biomes"))

	key = "data-version"
	cmd.PersistentFlags().Int(key, cuboid.LatestDataVersion, WrapString(fmt.Sprintf("Data version used for packing, must be >= %d", cuboid.DataVersion1_16_20w17a)))

	key = "serializer"
	cmd.PersistentFlags().String(key, serializer.FormatNBT, WrapString(fmt.Sprintf("Serializer to use (%s)", strings.Join(serializer.Formats(), ", "))))

	key = "compression"
	cmd.PersistentFlags().String(key, "", WrapString("Compression of nbt output (none, gzip, zlib). Empty uses gzip for nbt and none for the other serializers"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("palcube")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetKind returns the configured value kind
func GetKind() (string, error) {
	switch kind := viper.GetString("kind"); kind {
	case KindBlock, KindBiome:
		return kind, nil
	default:
		return "", fmt.Errorf("invalid kind %s (valid: %s, %s)", kind, KindBlock, KindBiome)
	}
}

// GetToolConfig reads the tool configuration from viper
func GetToolConfig() *common.ToolConfig {
	conf := &common.ToolConfig{
		Edge:        viper.GetInt("edge"),
		DataVersion: viper.GetInt("data-version"),
		Serializer:  viper.GetString("serializer"),
		Compression: viper.GetString("compression"),
		LogLevel:    viper.GetString("log-level"),
	}
	if conf.Edge == 0 {
		conf.Edge = 16
		if viper.GetString("kind") == KindBiome {
			conf.Edge = 4
		}
	}
	if conf.Compression == "" {
		conf.Compression = string(serializer.CompressionNone)
		if conf.Serializer == serializer.FormatNBT {
			conf.Compression = string(serializer.CompressionGZip)
		}
	}
	return conf
}

// GetSerializer creates a serializer based on configuration
func GetSerializer[E value.Value[E]](conf *common.ToolConfig) (serializer.ISerializer[E], error) {
	compression, err := serializer.ParseCompression(conf.Compression)
	if err != nil {
		return nil, err
	}
	return serializer.New[E](conf.Serializer, conf.Edge, conf.DataVersion, compression)
}
