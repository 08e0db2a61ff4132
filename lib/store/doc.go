// Package store provides SectionStore, a concurrency-safe registry of
// cuboids keyed by section position. A single cuboid.Cuboid is not safe for
// concurrent use; the store adds the locking on top.
//
// The package focuses on:
//   - Per-section locking, so independent sections can be modified in parallel
//   - Persisting all sections into one compressed snapshot
//   - Metrics and statistics about the palettes of the stored sections
//
// Key Components:
//
//   - SectionStore: A map from SectionKey to cuboid backed by xsync.MapOf.
//     Every section carries its own xsync.RBMutex. View and Range take the
//     read lock, Update, Get (which clones, and cloning compacts) and Compact
//     take the write lock.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     and descriptive messages. Errors from the cuboid package are wrapped and
//     can be tested with errors.Is.
//
//   - Persistence: Save writes a zstd compressed snapshot with a magic number,
//     a format version, the data version and the edge length, followed by the
//     sections as NBT. Load verifies the header and decodes into a fresh map
//     before replacing the content, so a broken snapshot leaves the store as is.
//
//   - Metrics: every store owns a VictoriaMetrics set with section count,
//     put/update/compaction/save/load counters and a palette length histogram,
//     labeled with the store name. WritePrometheus exports them.
//
// Usage Example:
//
//	s, _ := store.NewSectionStore[value.BlockState](store.DefaultOptions())
//	err := s.UpdateOrCreate(store.SectionKey{Y: -4}, air, func(c *cuboid.Cuboid[value.BlockState]) error {
//		return c.SetRange(cuboid.Point{}, bedrock, cuboid.Point{X: 15, Z: 15})
//	})
package store
