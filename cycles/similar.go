package cycles

import "github.com/viant/stackgraph/stats"

// Comparison is the three-way result of comparing two similar paths: Less
// means the new path is strictly better (the old one should be discarded),
// Greater or Equal mean the new path is no better (it is dropped), and
// Incomparable means neither dominates the other (both are kept).
type Comparison int

const (
	Less Comparison = iota
	Equal
	Greater
	Incomparable
)

// Comparator decides whether a newly discovered path should replace,
// coexist with, or lose to an already-known similar path. What makes a
// path "better" (shorter, higher edge precedence, fewer pushes) is a
// decision the stitcher makes, not this package.
type Comparator[P any] func(candidate, existing P) Comparison

// SimilarPathDetector buckets paths by PathKey and keeps only the
// non-dominated ones per bucket, bounding how many structurally similar
// paths a stitching run will explore.
type SimilarPathDetector[P HasPathKey] struct {
	buckets      map[PathKey][]P
	counts       map[PathKey][]int
	collectStats bool
}

// NewSimilarPathDetector creates an empty detector.
func NewSimilarPathDetector[P HasPathKey]() *SimilarPathDetector[P] {
	return &SimilarPathDetector[P]{buckets: make(map[PathKey][]P)}
}

// SetCollectStats enables or disables per-bucket statistics collection.
func (d *SimilarPathDetector[P]) SetCollectStats(collect bool) {
	d.collectStats = collect
	if !collect {
		d.counts = nil
	} else if d.counts == nil {
		d.counts = make(map[PathKey][]int)
	}
}

// AddPath records path, pruning any existing bucket entries that cmp says
// path dominates. It returns true if path should be discarded (an existing
// entry was as good or better), false if path should be kept and processed
// further by the caller.
func (d *SimilarPathDetector[P]) AddPath(path P, cmp Comparator[P]) bool {
	key := KeyOf(path)
	bucket := d.buckets[key]
	var countBucket []int
	if d.collectStats {
		countBucket = d.counts[key]
	}

	carried := 0
	idx := 0
	for idx < len(bucket) {
		switch cmp(path, bucket[idx]) {
		case Less:
			bucket = append(bucket[:idx], bucket[idx+1:]...)
			if d.collectStats {
				carried += countBucket[idx]
				countBucket = append(countBucket[:idx], countBucket[idx+1:]...)
			}
			// idx now indexes the next element; don't advance.
		case Incomparable:
			idx++
		default: // Equal or Greater: the new path is no better
			if d.collectStats {
				countBucket[idx]++
				d.counts[key] = countBucket
			}
			d.buckets[key] = bucket
			return true
		}
	}

	bucket = append(bucket, path)
	d.buckets[key] = bucket
	if d.collectStats {
		countBucket = append(countBucket, carried)
		d.counts[key] = countBucket
	}
	return false
}

// SimilarPathStats summarizes how aggressively the detector has pruned.
type SimilarPathStats struct {
	SimilarPathCount      stats.FrequencyDistribution[int]
	SimilarPathBucketSize stats.FrequencyDistribution[int]
}

// Stats returns the current bucket-size and similar-path-count
// distributions. Empty unless SetCollectStats(true) was called.
func (d *SimilarPathDetector[P]) Stats() SimilarPathStats {
	var out SimilarPathStats
	for _, bucket := range d.counts {
		out.SimilarPathBucketSize.Record(len(bucket))
		for _, count := range bucket {
			out.SimilarPathCount.Record(count)
		}
	}
	return out
}
