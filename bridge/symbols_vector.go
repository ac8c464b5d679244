package bridge

import (
	"github.com/wippyai/cvbridge/geom"
	"github.com/wippyai/cvbridge/marshal"
	"github.com/wippyai/cvbridge/mat"
)

// registerVectors registers the vector classes hosts fill element by element.
func (b *Bridge) registerVectors(g *registrar) {
	registerVector[int32](g)
	registerVector[float32](g)
	registerVector[float64](g)
	registerVector[geom.Point](g)
	registerVector[geom.Rect](g)
	registerVector[*mat.Mat](g)
}

func registerVector[T any](g *registrar) {
	class := marshal.NewVector[T]().HostName()

	g.fn(class, marshal.NewVector[T])
	g.classMethod(class, "push_back", (*marshal.Vector[T]).PushBack, "value")
	g.classMethod(class, "get", (*marshal.Vector[T]).Get, "index")
	g.classMethod(class, "set", (*marshal.Vector[T]).Set, "index", "value")
	g.classMethod(class, "size", (*marshal.Vector[T]).Size)
	g.classMethod(class, "resize", func(v *marshal.Vector[T], n int) error {
		var z T
		return v.Resize(n, z)
	}, "size")
	g.classMethod(class, "resize", (*marshal.Vector[T]).Resize, "size", "value")
}
