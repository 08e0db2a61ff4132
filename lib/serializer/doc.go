// Package serializer encodes cuboids into bytes and back.
//
// Key Components:
//
//   - ISerializer: Core interface that all serializer implementations must satisfy.
//
//   - nbtSerializerImpl: the packed palette/data compound as NBT, the format
//     used inside world files. Can be wrapped in gzip or zlib (klauspost/compress).
//
//   - jsonSerializerImpl: a self describing json document, useful for debugging.
//
//   - gobSerializerImpl: the same document using Go's gob encoding.
//
// All formats store the compacted palette and the bit-packed indices, so the
// output size mostly depends on the palette size. Serializers are stateless
// and safe for concurrent use, the cuboids they encode are not.
//
// Usage:
//
//	s, err := serializer.New[value.Biome]("nbt", 4, cuboid.LatestDataVersion, serializer.CompressionGZip)
//	data, err := s.Serialize(biomes)
//	// ...
//	biomes, err = s.Deserialize(data)
package serializer
