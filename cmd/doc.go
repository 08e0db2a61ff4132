// Package cmd implements the command-line interface of palcube. It provides a
// small command tree around the cuboid library:
//
//   - gen: Write random cuboids or store snapshots
//   - inspect: Decode a cuboid or snapshot and print palette and packing details
//   - perf: Benchmark construction, mutation, compaction and encoding
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set with an environment variable PALCUBE_<FLAG>
// (e.g. PALCUBE_DATA_VERSION=3700), .env and .env.local are loaded.
//
// See palcube -help for a list of all commands.
package cmd
