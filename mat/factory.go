package mat

import "github.com/wippyai/cvbridge/geom"

// Zeros allocates a rows x cols Mat with every scalar set to 0.
func Zeros(rows, cols int, typ TypeTag) (*Mat, error) {
	return NewMat(rows, cols, typ)
}

// Ones allocates a rows x cols Mat whose elements have channel 0 set to 1
// and every other channel set to 0.
func Ones(rows, cols int, typ TypeTag) (*Mat, error) {
	m, err := NewMat(rows, cols, typ)
	if err != nil {
		return nil, err
	}
	m.SetTo(geom.Scalar{1})
	return m, nil
}

// Eye allocates a rows x cols Mat with channel 0 of the main diagonal set to 1.
func Eye(rows, cols int, typ TypeTag) (*Mat, error) {
	m, err := NewMat(rows, cols, typ)
	if err != nil {
		return nil, err
	}
	d := m.Depth()
	for i := 0; i < min(rows, cols); i++ {
		store(m.data[i*m.step[0]+i*m.step[1]:], d, 1)
	}
	return m, nil
}

// ZerosSize is Zeros with a Size.
func ZerosSize(sz geom.Size, typ TypeTag) (*Mat, error) {
	return Zeros(sz.Height, sz.Width, typ)
}

// OnesSize is Ones with a Size.
func OnesSize(sz geom.Size, typ TypeTag) (*Mat, error) {
	return Ones(sz.Height, sz.Width, typ)
}

// EyeSize is Eye with a Size.
func EyeSize(sz geom.Size, typ TypeTag) (*Mat, error) {
	return Eye(sz.Height, sz.Width, typ)
}
