package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ToolConfig holds the configuration shared by the palcube commands
type ToolConfig struct {
	// Cuboid parameters
	Edge        int
	DataVersion int

	// Encoding
	Serializer  string
	Compression string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ToolConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Cuboid")
	addField("Edge Length", strconv.Itoa(c.Edge))
	addField("Cells", strconv.Itoa(c.Edge*c.Edge*c.Edge))
	addField("Data Version", strconv.Itoa(c.DataVersion))

	addSection("Encoding")
	addField("Serializer", c.Serializer)
	addField("Compression", c.Compression)

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
