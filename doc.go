// Package cvbridge binds a strided, multidimensional numeric matrix to a
// dynamically typed host.
//
// The host never sees Go pointers. It calls symbols by name with plain
// values, records and opaque handles, and receives the same kinds of values
// back, or typed slices that alias matrix memory without copying.
//
// # Architecture Overview
//
//	cvbridge/
//	├── errors/          Structured errors with phase and kind
//	├── geom/            Point, Size, Rect, RotatedRect and other value objects
//	├── mat/             Type codes, the Mat type, typed views and arithmetic
//	├── imgproc/         Minimum enclosing circle, morphology border value
//	├── video/           Mean-shift and CamShift with output parameters
//	├── compose/         Output parameters folded into [result, window] pairs
//	├── marshal/         Record <-> value object conversion, WIT and JSON schemas
//	├── dispatch/        (symbol, arity) overload registry with reflective calls
//	├── resource/        Handle table with leases
//	├── extmem/          Borrowed Mats over wasm linear memory and mmap'd files
//	├── bridge/          The host call surface wiring all of the above
//	└── cmd/cvbridge/    Inspection CLI and interactive caller
//
// # Quick Start
//
//	b, err := bridge.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	h, _ := b.Call("Mat", 2, 2, bridge.Constants()["CV_32FC1"])
//	px, _ := b.CallMethod("Mat", "data32f", h)
//	px.([]float32)[0] = 1.5 // writes the Mat
//
// # Memory Model
//
// Owned Mats live in Go memory and are collected when unreachable. Borrowed
// Mats alias memory the bridge does not own and never free or grow it.
// Dropping a handle releases its Mat and bumps the Mat's generation, so
// views issued earlier report themselves stale instead of silently reading
// recycled storage.
//
// # Thread Safety
//
// The bridge follows a single-threaded synchronous call model. The registry
// and handle table are safe for concurrent use; Mats and views are not.
package cvbridge
