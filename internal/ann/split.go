package ann

import (
	"math/rand"

	"github.com/ludo-technologies/annforest/domain"
)

// candidate pairs a node id with the scratch bit used while partitioning a
// slice of candidates around a hyperplane: true means "above", false means
// "below".
type candidate struct {
	id    NodeID
	above bool
}

// sortBinary partitions cands in place so every "below" entry (above ==
// false) comes before every "above" entry, in a single linear pass. It
// mirrors a Dutch-flag partition rather than a general sort, since the only
// ordering that matters is the above/below boundary.
func sortBinary(cands []candidate) {
	low := 0
	for cur := 0; cur < len(cands); cur++ {
		if !cands[cur].above {
			cands[cur], cands[low] = cands[low], cands[cur]
			low++
		}
	}
}

func chooseEntity(es domain.EmbeddingStore, cands []candidate, rng *rand.Rand) NodeID {
	return cands[rng.Intn(len(cands))].id
}

// computeWVecFromPoints picks two distinct candidates at random and returns
// their difference vector along with both endpoints, the seed hyperplane
// direction used by both split heuristics below.
func computeWVecFromPoints(cands []candidate, es domain.EmbeddingStore, rng *rand.Rand) ([]float32, Vector, Vector) {
	idx1 := chooseEntity(es, cands, rng)
	idx2 := idx1
	for idx2 == idx1 {
		idx2 = chooseEntity(es, cands, rng)
	}
	pa := es.Embedding(idx1)
	pb := es.Embedding(idx2)
	delta := make([]float32, len(pa))
	for i := range pa {
		delta[i] = pa[i] - pb[i]
	}
	return delta, pa, pb
}

func updatePoint(centroid []float32, point Vector, count int) {
	r := float32(count-1) / float32(count)
	for i := range centroid {
		centroid[i] = r*centroid[i] + (1-r)*point[i]
	}
}

// pseudoKmeansWVecFromPoints runs a cheap, single-pass approximation of
// 2-means: it seeds two running centroids from two random points, then folds
// `iterations` further random samples into whichever centroid is currently
// closer, weighted by how many points have already been folded into it. The
// result is a split direction that tends to separate dense sub-clusters
// better than a plain two-point difference when the candidate set is large.
func pseudoKmeansWVecFromPoints(cands []candidate, es domain.EmbeddingStore, iterations int, rng *rand.Rand) ([]float32, []float32, []float32) {
	idx1 := chooseEntity(es, cands, rng)
	idx2 := idx1
	for idx2 == idx1 {
		idx2 = chooseEntity(es, cands, rng)
	}

	pa := append([]float32(nil), es.Embedding(idx1)...)
	pb := append([]float32(nil), es.Embedding(idx2)...)

	d := es.Distance()
	ac, bc := 1, 1
	for i := 0; i < iterations; i++ {
		idx := chooseEntity(es, cands, rng)
		emb := es.Embedding(idx)
		da := float32(ac) * d.Compute(pa, emb)
		db := float32(bc) * d.Compute(pb, emb)
		if da > db {
			bc++
			updatePoint(pb, emb, bc)
		} else {
			ac++
			updatePoint(pa, emb, ac)
		}
	}

	delta := make([]float32, len(pa))
	for i := range pa {
		delta[i] = pa[i] - pb[i]
	}
	return delta, pa, pb
}

// computeSimpleSplits generates testHPPerSplit candidate hyperplanes with
// pseudoKmeansWVecFromPoints and keeps the one whose random-sample above/below
// count is most balanced: best-of-N pseudo-k-means splitting.
func computeSimpleSplits(cands []candidate, es domain.EmbeddingStore, testHPPerSplit, numSampledNodes int, rng *rand.Rand) hyperplane {
	n := numSampledNodes
	if n > len(cands) {
		n = len(cands)
	}

	var best hyperplane
	bestScore := -1
	haveBest := false

	for i := 0; i < testHPPerSplit; i++ {
		diff, pa, pb := pseudoKmeansWVecFromPoints(cands, es, numSampledNodes, rng)

		var bias float32
		for j := range diff {
			bias += diff[j] * (pa[j] + pb[j]) / 2
		}

		hp := newHyperplane(diff, bias)
		s := 0
		for j := 0; j < n; j++ {
			idx := chooseEntity(es, cands, rng)
			emb := es.Embedding(idx)
			if hp.pointIsAbove(emb) {
				s++
			}
		}

		delta := n - s
		score := s - delta
		if score < 0 {
			score = -score
		}
		if !haveBest || score < bestScore {
			best = hp
			bestScore = score
			haveBest = true
		}
	}
	return best
}

// median returns the median of deltas, which must be non-empty and already
// sorted in ascending order. It does not modify deltas.
func median(deltas []float32) float32 {
	half := len(deltas) / 2
	if len(deltas)%2 == 1 {
		return deltas[half]
	}
	return (deltas[half-1] + deltas[half]) / 2
}

// computeNormalRP builds a random-projection split: a random direction
// derived from two sampled points, with the bias set so the projected
// median of a random sample lands on the plane. Cheaper than
// computeSimpleSplits (a single direction, no retries) at the cost of
// ignoring local density.
func computeNormalRP(cands []candidate, es domain.EmbeddingStore, numSampledNodes int, rng *rand.Rand) hyperplane {
	randomVec, _, _ := computeWVecFromPoints(cands, es, rng)

	n := numSampledNodes
	if n > len(cands) {
		n = len(cands)
	}
	rps := make([]float32, n)
	for i := range rps {
		idx := chooseEntity(es, cands, rng)
		emb := es.Embedding(idx)
		rps[i] = dot(emb, randomVec)
	}
	sortFloat32s(rps)
	bias := -median(rps)
	return newHyperplane(randomVec, bias)
}

func sortFloat32s(xs []float32) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && floatLess(xs[j], xs[j-1]); j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}
