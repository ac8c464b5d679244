// Package imgproc holds the image-processing free functions exposed by the
// bridge: the minimum enclosing circle of a point set and the default
// border value used by morphological operations.
package imgproc
