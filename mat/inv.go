package mat

import (
	stderrors "errors"
	"math"

	"github.com/katalvlaran/lvlath/matrix"

	"github.com/wippyai/cvbridge/errors"
)

// DecompType selects the inversion method.
type DecompType int

const (
	DecompLU       DecompType = 0
	DecompSVD      DecompType = 1
	DecompEig      DecompType = 2
	DecompCholesky DecompType = 3
)

func (d DecompType) String() string {
	switch d {
	case DecompLU:
		return "DECOMP_LU"
	case DecompSVD:
		return "DECOMP_SVD"
	case DecompEig:
		return "DECOMP_EIG"
	case DecompCholesky:
		return "DECOMP_CHOLESKY"
	default:
		return "DECOMP_UNKNOWN"
	}
}

const (
	eigenSweeps = 50
	eigenTol    = 1e-13
	dblEpsilon  = 2.220446049250313e-16
	fltEpsilon  = 1.1920929e-07
)

// Inv returns the inverse of a single-channel CV_32F or CV_64F matrix.
//
// DecompLU and DecompCholesky need a square matrix and report KindSingular
// when a pivot vanishes. DecompEig needs a symmetric matrix and reports
// KindInvalidInput otherwise. DecompSVD computes the pseudo-inverse of any
// shape. Both drop negligible eigenvalues instead of failing.
func (m *Mat) Inv(method DecompType) (*Mat, error) {
	if m.Channels() != 1 || !m.Depth().IsFloat() {
		return nil, errors.DepthMismatch(errors.PhaseConvert, "inv", "CV_32FC1 or CV_64FC1", m.typ.String())
	}
	if m.Dims() != 2 {
		return nil, errors.InvalidInput(errors.PhaseConvert, "inv needs a 2-D matrix")
	}
	rows, cols := m.size[0], m.size[1]
	if method != DecompSVD && rows != cols {
		return nil, errors.ShapeMismatch(errors.PhaseConvert, "inv", []int{cols, cols}, m.size)
	}
	if m.Empty() {
		return NewMat(cols, rows, m.typ)
	}

	a := m.toFloat64()
	pivotEps := dblEpsilon * 100
	if m.Depth() == F32 {
		pivotEps = fltEpsilon * 10
	}

	var (
		r   [][]float64
		err error
	)
	switch method {
	case DecompLU:
		r, err = invGaussJordan(a, pivotEps)
	case DecompCholesky:
		r, err = invCholesky(a, pivotEps)
	case DecompEig:
		r, err = invSymmetric(a)
	case DecompSVD:
		r, err = pinv(a)
	default:
		return nil, errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			Path("inv", "method").
			Value(int(method)).
			Detail("unknown decomposition %d", int(method)).
			Build()
	}
	if err != nil {
		return nil, err
	}

	out, cerr := NewMat(cols, rows, m.typ)
	if cerr != nil {
		return nil, cerr
	}
	out.fromFloat64(r)
	return out, nil
}

func (m *Mat) toFloat64() [][]float64 {
	d := m.Depth()
	a := make([][]float64, m.size[0])
	for i := range a {
		a[i] = make([]float64, m.size[1])
		for j := range a[i] {
			a[i][j] = load(m.data[i*m.step[0]+j*m.step[1]:], d)
		}
	}
	return a
}

func (m *Mat) fromFloat64(a [][]float64) {
	d := m.Depth()
	for i := range a {
		for j, v := range a[i] {
			store(m.data[i*m.step[0]+j*m.step[1]:], d, v)
		}
	}
}

func singular(method DecompType, pivot int) *errors.Error {
	return errors.New(errors.PhaseConvert, errors.KindSingular).
		Path("inv", method.String()).
		Value(pivot).
		Detail("matrix is singular at pivot %d", pivot).
		Build()
}

func identity(n int) [][]float64 {
	id := make([][]float64, n)
	for i := range id {
		id[i] = make([]float64, n)
		id[i][i] = 1
	}
	return id
}

// invGaussJordan inverts a in place using partial pivoting.
func invGaussJordan(a [][]float64, eps float64) ([][]float64, error) {
	n := len(a)
	inv := identity(n)
	for k := 0; k < n; k++ {
		p := k
		for i := k + 1; i < n; i++ {
			if math.Abs(a[i][k]) > math.Abs(a[p][k]) {
				p = i
			}
		}
		if math.Abs(a[p][k]) < eps {
			return nil, singular(DecompLU, k)
		}
		a[k], a[p] = a[p], a[k]
		inv[k], inv[p] = inv[p], inv[k]

		d := a[k][k]
		for j := 0; j < n; j++ {
			a[k][j] /= d
			inv[k][j] /= d
		}
		for i := 0; i < n; i++ {
			if i == k || a[i][k] == 0 {
				continue
			}
			f := a[i][k]
			for j := 0; j < n; j++ {
				a[i][j] -= f * a[k][j]
				inv[i][j] -= f * inv[k][j]
			}
		}
	}
	return inv, nil
}

// invCholesky inverts a symmetric positive definite a via a = L*Lᵀ.
func invCholesky(a [][]float64, eps float64) ([][]float64, error) {
	n := len(a)
	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
		for j := 0; j <= i; j++ {
			s := a[i][j]
			for k := 0; k < j; k++ {
				s -= l[i][k] * l[j][k]
			}
			if i == j {
				if s <= eps {
					return nil, singular(DecompCholesky, i)
				}
				l[i][i] = math.Sqrt(s)
			} else {
				l[i][j] = s / l[j][j]
			}
		}
	}

	// li = L⁻¹, lower triangular.
	li := make([][]float64, n)
	for i := range li {
		li[i] = make([]float64, n)
		li[i][i] = 1 / l[i][i]
		for j := 0; j < i; j++ {
			var s float64
			for k := j; k < i; k++ {
				s += l[i][k] * li[k][j]
			}
			li[i][j] = -s / l[i][i]
		}
	}

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		for j := range inv[i] {
			var s float64
			for k := max(i, j); k < n; k++ {
				s += li[k][i] * li[k][j]
			}
			inv[i][j] = s
		}
	}
	return inv, nil
}

// invSymmetric returns V·diag(1/λ)·Vᵀ, skipping eigenvalues that are
// negligible relative to the largest.
func invSymmetric(a [][]float64) ([][]float64, error) {
	vals, vecs, err := symEigen(DecompEig, a)
	if err != nil {
		return nil, err
	}
	n := len(a)
	tol := float64(n) * maxAbs(vals) * dblEpsilon

	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		for j := range inv[i] {
			var s float64
			for k, lambda := range vals {
				if math.Abs(lambda) > tol {
					s += vecs[i][k] * vecs[j][k] / lambda
				}
			}
			inv[i][j] = s
		}
	}
	return inv, nil
}

// pinv returns the Moore-Penrose pseudo-inverse of the m x n matrix a as
// (AᵀA)⁺Aᵀ.
func pinv(a [][]float64) ([][]float64, error) {
	m, n := len(a), len(a[0])
	ata := make([][]float64, n)
	for i := range ata {
		ata[i] = make([]float64, n)
		for j := range ata[i] {
			var s float64
			for k := 0; k < m; k++ {
				s += a[k][i] * a[k][j]
			}
			ata[i][j] = s
		}
	}

	vals, vecs, err := symEigen(DecompSVD, ata)
	if err != nil {
		return nil, err
	}
	tol := float64(max(m, n)) * maxAbs(vals) * dblEpsilon

	// g = (AᵀA)⁺, n x n
	g := make([][]float64, n)
	for i := range g {
		g[i] = make([]float64, n)
		for j := range g[i] {
			var s float64
			for k, lambda := range vals {
				if lambda > tol {
					s += vecs[i][k] * vecs[j][k] / lambda
				}
			}
			g[i][j] = s
		}
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, m)
		for j := range out[i] {
			var s float64
			for k := 0; k < n; k++ {
				s += g[i][k] * a[j][k]
			}
			out[i][j] = s
		}
	}
	return out, nil
}

// symEigen diagonalises the symmetric a with lvlath's Jacobi kernel.
// Column k of vecs is the eigenvector of vals[k].
func symEigen(method DecompType, a [][]float64) (vals []float64, vecs [][]float64, err error) {
	n := len(a)
	var scale float64
	for _, row := range a {
		scale = max(scale, maxAbs(row))
	}
	if scale == 0 {
		return make([]float64, n), identity(n), nil
	}

	d, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, nil, eigenError(method, err)
	}
	for i := range a {
		for j, v := range a[i] {
			if err := d.Set(i, j, v); err != nil {
				return nil, nil, eigenError(method, err)
			}
		}
	}

	vals, q, err := matrix.Eigen(d, scale*eigenTol, eigenSweeps*n*n)
	if err != nil {
		return nil, nil, eigenError(method, err)
	}
	vecs = make([][]float64, n)
	for i := range vecs {
		vecs[i] = make([]float64, n)
		for k := range vecs[i] {
			if vecs[i][k], err = q.At(i, k); err != nil {
				return nil, nil, eigenError(method, err)
			}
		}
	}
	return vals, vecs, nil
}

func eigenError(method DecompType, err error) *errors.Error {
	b := errors.New(errors.PhaseConvert, errors.KindInvalidInput).Path("inv", method.String()).Cause(err)
	switch {
	case stderrors.Is(err, matrix.ErrAsymmetry):
		b = b.Detail("%s needs a symmetric matrix", method)
	case stderrors.Is(err, matrix.ErrMatrixEigenFailed):
		b = b.Detail("eigen decomposition did not converge")
	default:
		b = b.Detail("eigen decomposition failed")
	}
	return b.Build()
}

func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		m = max(m, math.Abs(x))
	}
	return m
}
