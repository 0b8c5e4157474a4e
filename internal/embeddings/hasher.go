package embeddings

import (
	"encoding/binary"
	"hash/fnv"
)

// FeatureHasher implements the hashing trick: it maps an arbitrary integer
// feature id, combined with a hash "slot" number, to a signed weight and a
// dense index in [0, dims). Calling it several times (Embed uses numHashes
// probes, hashNum = 0..numHashes-1) for the same feature and summing (sign, contribution) pairs into a zeroed
// vector produces a reproducible dense embedding for that feature without
// ever materializing a dims x numFeatures weight matrix.
type FeatureHasher struct {
	dims int
}

// NewFeatureHasher creates a hasher projecting into a dims-dimensional
// space. dims must be positive.
func NewFeatureHasher(dims int) FeatureHasher {
	return FeatureHasher{dims: dims}
}

// Hash returns the (+1/-1) sign and the target dimension index for
// (feature, hashNum).
func (h FeatureHasher) Hash(feature uint64, hashNum int) (sign int8, idx int) {
	hv := h.hash64(feature, hashNum)
	sign = int8(2*(hv&1) - 1)
	idx = int(hv>>1) % h.dims
	return sign, idx
}

func (h FeatureHasher) hash64(feature uint64, hashNum int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], feature)
	binary.LittleEndian.PutUint64(buf[8:], uint64(hashNum))
	f := fnv.New64a()
	f.Write(buf[:])
	return f.Sum64()
}

// Embed produces a dense dims-length vector for a bag of weighted features
// (feature id -> weight): every feature is hashed through numHashes
// independent probes (hashNum 0..numHashes-1), each probe adding a signed,
// weighted contribution to one dimension. Using more than one probe per
// feature reduces the odds that two unrelated features collide in every
// dimension they're hashed into. This is the deterministic fixture
// generator used in place of a trained embedding model: the same
// (features, dims, numHashes) input always yields the same vector.
func (h FeatureHasher) Embed(features map[uint64]float32, numHashes int) []float32 {
	out := make([]float32, h.dims)
	for feature, weight := range features {
		for n := 0; n < numHashes; n++ {
			sign, idx := h.Hash(feature, n)
			out[idx] += float32(sign) * weight
		}
	}
	return out
}
