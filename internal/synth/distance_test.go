package synth

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqgeo/argplace/internal/model"
)

func TestBuildDistanceMatrix(t *testing.T) {
	samples := []model.Sample{"a", "b", "c"}
	dist := func(a, b model.Sample) (float64, error) {
		if a == "a" && b == "b" || a == "b" && b == "a" {
			return 2.0, nil
		}
		return 6.0, nil
	}

	d, err := BuildDistanceMatrix(samples, dist, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, d.SymmetricDim())
	assert.Equal(t, 2.0, d.At(0, 1))
	assert.Equal(t, 6.0, d.At(0, 2))
	assert.Equal(t, 6.0, d.At(1, 2))
	for i := 0; i < 3; i++ {
		assert.Zero(t, d.At(i, i))
	}
}

func TestBuildDistanceMatrixSymmetrizesAsymmetricOracle(t *testing.T) {
	samples := []model.Sample{"a", "b"}
	dist := func(a, b model.Sample) (float64, error) {
		if a == "a" {
			return 4.0, nil
		}
		return 6.0, nil
	}

	d, err := BuildDistanceMatrix(samples, dist, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d.At(0, 1))
	assert.Equal(t, 5.0, d.At(1, 0))
}

func TestBuildDistanceMatrixOracleErrorUsesFallback(t *testing.T) {
	samples := []model.Sample{"a", "b", "c"}
	dist := func(a, b model.Sample) (float64, error) {
		if a == "c" || b == "c" {
			return 0, eris.New("no mrca")
		}
		return 1.0, nil
	}

	d, err := BuildDistanceMatrix(samples, dist, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.At(0, 1))
	assert.Equal(t, DefaultDistanceFallback, d.At(0, 2))
	assert.Equal(t, DefaultDistanceFallback, d.At(1, 2))
}

func TestBuildDistanceMatrixInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		samples []model.Sample
		dist    DistanceFunc
	}{
		{
			name:    "too few samples",
			samples: []model.Sample{"a"},
			dist:    func(a, b model.Sample) (float64, error) { return 1, nil },
		},
		{
			name:    "nil oracle",
			samples: []model.Sample{"a", "b"},
			dist:    nil,
		},
		{
			name:    "negative distance",
			samples: []model.Sample{"a", "b"},
			dist:    func(a, b model.Sample) (float64, error) { return -1, nil },
		},
		{
			name:    "NaN distance",
			samples: []model.Sample{"a", "b"},
			dist:    func(a, b model.Sample) (float64, error) { return math.NaN(), nil },
		},
		{
			name:    "infinite distance",
			samples: []model.Sample{"a", "b"},
			dist:    func(a, b model.Sample) (float64, error) { return math.Inf(1), nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildDistanceMatrix(tt.samples, tt.dist, 0)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidInput))
		})
	}
}
