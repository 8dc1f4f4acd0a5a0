package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequencyDistribution_RecordCountUnique(t *testing.T) {
	var dist FrequencyDistribution[string]
	dist.Record("apple")
	dist.Record("banana")
	dist.Record("apple")
	dist.Record("cherry")
	dist.Record("apple")

	assert.Equal(t, 5, dist.Count())
	assert.Equal(t, 3, dist.Unique())
}

func TestFrequencyDistribution_Frequencies(t *testing.T) {
	var dist FrequencyDistribution[string]
	dist.Record("a")
	dist.Record("b")
	dist.Record("b")
	dist.Record("c")
	dist.Record("c")
	dist.Record("d")
	dist.Record("d")
	dist.Record("d")

	freq := dist.Frequencies()
	assert.Equal(t, 4, freq.Count())
	assert.Equal(t, 3, freq.Unique())
}

func TestQuantiles_Quartiles(t *testing.T) {
	var dist FrequencyDistribution[int]
	for i := 1; i <= 100; i++ {
		dist.Record(i)
	}

	quartiles := Quantiles(&dist, 4, func(a, b int) bool { return a < b })
	assert.Len(t, quartiles, 5)
	assert.Equal(t, 1, quartiles[0])
	assert.Equal(t, 50, quartiles[2])
	assert.Equal(t, 100, quartiles[4])
}

func TestFrequencyDistribution_Merge(t *testing.T) {
	var d1, d2 FrequencyDistribution[string]
	d1.Record("a")
	d1.Record("b")
	d2.Record("b")
	d2.Record("c")

	d1.Merge(&d2)
	assert.Equal(t, 4, d1.Count())
	assert.Equal(t, 3, d1.Unique())
	assert.Equal(t, 2, d2.Count())
}
