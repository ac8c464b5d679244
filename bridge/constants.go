package bridge

import (
	"maps"
	"sync"

	"github.com/wippyai/cvbridge/mat"
)

var (
	constants     map[string]int
	constantsOnce sync.Once
)

func buildConstants() {
	constants = make(map[string]int, 40)
	for _, t := range mat.AllTypes() {
		constants[t.String()] = int(t)
	}
	for d := mat.U8; d <= mat.F64; d++ {
		constants[d.String()] = int(d)
	}
	constants["INT_MIN"] = mat.IntMin
	constants["INT_MAX"] = mat.IntMax
	for _, d := range []mat.DecompType{mat.DecompLU, mat.DecompSVD, mat.DecompEig, mat.DecompCholesky} {
		constants[d.String()] = int(d)
	}
}

// Constants returns the host constant table: every type code, every depth
// code, INT_MIN, INT_MAX and the inversion methods. Each call returns a
// fresh copy.
func Constants() map[string]int {
	constantsOnce.Do(buildConstants)
	return maps.Clone(constants)
}

// Constant looks up a single entry of the constant table.
func Constant(name string) (int, bool) {
	constantsOnce.Do(buildConstants)
	v, ok := constants[name]
	return v, ok
}
