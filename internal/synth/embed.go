package synth

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Embedder maps a symmetric distance matrix to 2D points. Implementations
// must be deterministic for a given seed.
type Embedder interface {
	Fit(d *mat.SymDense, seed int64) ([][2]float64, error)
}

// SMACOF embedding defaults.
const (
	DefaultMDSMaxIterations = 1000
	DefaultMDSRestarts      = 4
	defaultMDSEpsilon       = 1e-9
)

// SMACOFEmbedder performs metric multidimensional scaling by stress
// majorization. The first restart is seeded from the classical (Torgerson)
// solution and the remaining restarts from random configurations; the
// lowest-stress result wins.
type SMACOFEmbedder struct {
	MaxIterations int
	Restarts      int
	Epsilon       float64
}

// NewSMACOFEmbedder returns an embedder with the default iteration budget.
func NewSMACOFEmbedder() *SMACOFEmbedder {
	return &SMACOFEmbedder{
		MaxIterations: DefaultMDSMaxIterations,
		Restarts:      DefaultMDSRestarts,
		Epsilon:       defaultMDSEpsilon,
	}
}

// Fit embeds the n×n distance matrix into 2D. It returns an error when the
// matrix is too small or every restart diverged to a non-finite
// configuration; callers are expected to fall back to a random layout.
func (e *SMACOFEmbedder) Fit(d *mat.SymDense, seed int64) ([][2]float64, error) {
	n := d.SymmetricDim()
	if n < 2 {
		return nil, eris.Errorf("embed: matrix too small (%d)", n)
	}

	maxIter := e.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMDSMaxIterations
	}
	restarts := e.Restarts
	if restarts <= 0 {
		restarts = DefaultMDSRestarts
	}
	eps := e.Epsilon
	if eps <= 0 {
		eps = defaultMDSEpsilon
	}

	log := zap.L().With(zap.String("component", "synth.embed"))

	scale := matrixScale(d)
	best := make([][2]float64, 0, n)
	bestStress := math.Inf(1)

	for r := 0; r < restarts; r++ {
		rng := rand.New(rand.NewPCG(uint64(seed), uint64(r)))

		var x [][2]float64
		if r == 0 {
			x = classicalMDS(d)
		}
		if x == nil {
			x = randomConfiguration(n, scale, rng)
		}

		x, stress := majorize(d, x, maxIter, eps)
		if !finiteConfiguration(x) || math.IsNaN(stress) {
			log.Debug("embedding restart diverged", zap.Int("restart", r))
			continue
		}
		if stress < bestStress {
			bestStress = stress
			best = x
		}
	}

	if len(best) == 0 {
		return nil, eris.Errorf("embed: all %d restarts diverged", restarts)
	}
	log.Debug("embedding converged",
		zap.Int("samples", n),
		zap.Float64("stress", bestStress),
	)
	return best, nil
}

// majorize runs Guttman transform iterations until the stress improvement
// drops below eps or the iteration budget runs out.
func majorize(d *mat.SymDense, x [][2]float64, maxIter int, eps float64) ([][2]float64, float64) {
	n := len(x)
	prev := normalizedStress(d, x)
	next := make([][2]float64, n)

	for it := 0; it < maxIter; it++ {
		// Unit-weight Guttman transform:
		// x_i' = (1/n) sum_{j!=i} (d_ij/dist_ij)(x_i - x_j).
		for i := 0; i < n; i++ {
			var sx, sy float64
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				dij := d.At(i, j)
				dx := x[i][0] - x[j][0]
				dy := x[i][1] - x[j][1]
				dist := math.Hypot(dx, dy)
				if dist < 1e-12 {
					// Coincident points contribute no direction; leave
					// separation to the other terms.
					continue
				}
				ratio := dij / dist
				sx += ratio * dx
				sy += ratio * dy
			}
			next[i][0] = sx / float64(n)
			next[i][1] = sy / float64(n)
		}
		center(next)
		x, next = next, x

		stress := normalizedStress(d, x)
		if math.IsNaN(stress) {
			return x, math.NaN()
		}
		if math.Abs(prev-stress) < eps {
			return x, stress
		}
		prev = stress
	}
	return x, prev
}

// center translates the configuration so its centroid sits at the origin.
// The transform preserves centering exactly only when no coincident-point
// terms were skipped, so re-center every iterate.
func center(x [][2]float64) {
	n := float64(len(x))
	var mx, my float64
	for _, p := range x {
		mx += p[0]
		my += p[1]
	}
	mx /= n
	my /= n
	for i := range x {
		x[i][0] -= mx
		x[i][1] -= my
	}
}

// normalizedStress is raw stress divided by the sum of squared target
// distances, making restarts comparable across matrix scales.
func normalizedStress(d *mat.SymDense, x [][2]float64) float64 {
	n := len(x)
	var raw, total float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dij := d.At(i, j)
			dist := math.Hypot(x[i][0]-x[j][0], x[i][1]-x[j][1])
			diff := dij - dist
			raw += diff * diff
			total += dij * dij
		}
	}
	if total == 0 {
		return 0
	}
	return raw / total
}

// classicalMDS computes the Torgerson solution: double-center the squared
// distances and project onto the top two eigenpairs. Returns nil when the
// eigendecomposition fails or yields no positive eigenvalues.
func classicalMDS(d *mat.SymDense) [][2]float64 {
	n := d.SymmetricDim()

	// B = -1/2 * J * D^2 * J with J = I - 1/n.
	b := mat.NewSymDense(n, nil)
	rowMean := make([]float64, n)
	var grandMean float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sq := d.At(i, j) * d.At(i, j)
			rowMean[i] += sq
			grandMean += sq
		}
		rowMean[i] /= float64(n)
	}
	grandMean /= float64(n * n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sq := d.At(i, j) * d.At(i, j)
			b.SetSym(i, j, -0.5*(sq-rowMean[i]-rowMean[j]+grandMean))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(b, true) {
		return nil
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return vals[order[a]] > vals[order[b]] })

	if vals[order[0]] <= 0 {
		return nil
	}
	x := make([][2]float64, n)
	for dim := 0; dim < 2; dim++ {
		k := order[dim]
		if vals[k] <= 0 {
			continue
		}
		s := math.Sqrt(vals[k])
		for i := 0; i < n; i++ {
			x[i][dim] = s * vecs.At(i, k)
		}
	}
	return x
}

func randomConfiguration(n int, scale float64, rng *rand.Rand) [][2]float64 {
	x := make([][2]float64, n)
	for i := range x {
		x[i][0] = (rng.Float64() - 0.5) * scale
		x[i][1] = (rng.Float64() - 0.5) * scale
	}
	return x
}

// matrixScale picks a spread for random restarts proportional to the mean
// pairwise distance.
func matrixScale(d *mat.SymDense) float64 {
	n := d.SymmetricDim()
	var sum float64
	var count int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += d.At(i, j)
			count++
		}
	}
	if count == 0 || sum == 0 {
		return 1
	}
	return sum / float64(count)
}

func finiteConfiguration(x [][2]float64) bool {
	for _, p := range x {
		if math.IsNaN(p[0]) || math.IsInf(p[0], 0) || math.IsNaN(p[1]) || math.IsInf(p[1], 0) {
			return false
		}
	}
	return true
}
