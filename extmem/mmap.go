package extmem

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"go.uber.org/zap"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/mat"
)

// MappedFile is a Heap over a memory-mapped file.
type MappedFile struct {
	file *os.File
	data mmap.MMap
}

// OpenFile maps path read-write. A missing file is created with size bytes;
// an existing file smaller than size is extended. size 0 maps the file as is.
func OpenFile(path string, size int64) (mf *MappedFile, err error) {
	mf = &MappedFile{}

	if mf.file, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644); err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "open mapped file")
	}

	info, err := mf.file.Stat()
	if err != nil {
		mf.file.Close()
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "stat mapped file")
	}

	if info.Size() < size {
		if err = mf.file.Truncate(size); err != nil {
			mf.file.Close()
			return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "extend mapped file")
		}
	} else {
		size = info.Size()
	}

	if size == 0 {
		mf.file.Close()
		return nil, errors.InvalidInput(errors.PhaseHost, fmt.Sprintf("cannot map empty file %s", path))
	}

	if mf.data, err = mmap.Map(mf.file, mmap.RDWR, 0); err != nil {
		mf.file.Close()
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "map file")
	}

	Logger().Debug("mapped file", zap.String("path", path), zap.Int64("size", size))
	return mf, nil
}

func (f *MappedFile) Read(offset, length uint32) ([]byte, error) {
	if f.data == nil {
		return nil, errors.NotInitialized(errors.PhaseHost, "mapped file")
	}
	end := uint64(offset) + uint64(length)
	if end > uint64(len(f.data)) {
		return nil, errors.New(errors.PhaseHost, errors.KindOutOfBounds).
			Path("mmap").
			Detail("read out of bounds: offset=%d, length=%d, size=%d", offset, length, len(f.data)).
			Build()
	}
	return f.data[offset:end:end], nil
}

func (f *MappedFile) Size() uint32 {
	return uint32(len(f.data))
}

// Mat is shorthand for MatAt(f, offset, rows, cols, typ, step).
func (f *MappedFile) Mat(offset uint32, rows, cols int, typ mat.TypeTag, step int) (*mat.Mat, error) {
	return MatAt(f, offset, rows, cols, typ, step)
}

// Flush writes dirty pages back to the file.
func (f *MappedFile) Flush() error {
	if f.data == nil {
		return nil
	}
	if err := f.data.Flush(); err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "flush mapped file")
	}
	return nil
}

// Close flushes, unmaps and closes the file. Mats borrowed from the mapping
// must not be used afterwards.
func (f *MappedFile) Close() (err error) {
	if f.data != nil {
		if err = f.data.Flush(); err == nil {
			err = f.data.Unmap()
		} else {
			f.data.Unmap()
		}
		f.data = nil
	}
	if f.file != nil {
		if cerr := f.file.Close(); err == nil {
			err = cerr
		}
		f.file = nil
	}
	return
}
