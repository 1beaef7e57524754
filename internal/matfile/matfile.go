// Package matfile reads numeric variables from MATLAB Level 5 MAT-files.
//
// Only the subset needed to pull numeric matrices out of a file is
// supported: numeric and logical arrays of up to two dimensions, stored
// plain or inside zlib-compressed elements. Other variable classes are
// skipped and listed in File.Skipped.
package matfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zlib"
	"gonum.org/v1/gonum/mat"
)

const headerLen = 128

// data element types
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
	miUTF8       = 16
)

// Class is the MATLAB array class of a variable.
type Class uint8

const (
	ClassCell   Class = 1
	ClassStruct Class = 2
	ClassObject Class = 3
	ClassChar   Class = 4
	ClassSparse Class = 5
	ClassDouble Class = 6
	ClassSingle Class = 7
	ClassInt8   Class = 8
	ClassUint8  Class = 9
	ClassInt16  Class = 10
	ClassUint16 Class = 11
	ClassInt32  Class = 12
	ClassUint32 Class = 13
	ClassInt64  Class = 14
	ClassUint64 Class = 15
)

func (c Class) numeric() bool { return c >= ClassDouble && c <= ClassUint64 }

const (
	flagComplex = 0x0800
	flagLogical = 0x0200
)

var (
	ErrNotMAT       = errors.New("matfile: not a Level 5 MAT-file")
	ErrTruncated    = errors.New("matfile: truncated data element")
	ErrUnsupported  = errors.New("matfile: unsupported content")
	ErrNotFound     = errors.New("matfile: variable not found")
	ErrNotScalar    = errors.New("matfile: variable is not a scalar")
	errBadSubformat = errors.New("matfile: malformed array element")
)

// Variable is a numeric array read from a MAT-file. Data is column-major,
// as stored in the file.
type Variable struct {
	Name    string
	Class   Class
	Dims    []int
	Data    []float64
	Logical bool
	Complex bool
}

func (v *Variable) Rows() int {
	if len(v.Dims) == 0 {
		return 0
	}
	return v.Dims[0]
}

func (v *Variable) Cols() int {
	if len(v.Dims) < 2 {
		return 1
	}
	return v.Dims[1]
}

// Dense returns the variable as a row-major matrix, or nil when it is empty.
func (v *Variable) Dense() *mat.Dense {
	r, c := v.Rows(), v.Cols()
	if r == 0 || c == 0 {
		return nil
	}
	// column-major r×c is the transpose of a row-major c×r
	return mat.DenseCopyOf(mat.NewDense(c, r, v.Data).T())
}

// Scalar returns the single value of a 1×1 variable.
func (v *Variable) Scalar() (float64, error) {
	if len(v.Data) != 1 {
		return 0, fmt.Errorf("%w: %q has %d×%d elements", ErrNotScalar, v.Name, v.Rows(), v.Cols())
	}
	return v.Data[0], nil
}

// File is the decoded content of a MAT-file.
type File struct {
	Header    string
	Variables []*Variable
	// Skipped names the variables whose class is not numeric.
	Skipped []string
}

// Lookup returns the variable called name.
func (f *File) Lookup(name string) (*Variable, error) {
	for _, v := range f.Variables {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

type options struct {
	logger *slog.Logger
}

// Option configures Read.
type Option func(*options)

// WithLogger sets the logger used for debug output about skipped content.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Open reads the MAT-file at path.
func Open(path string, optFns ...Option) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	f, err := Read(fh, optFns...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Read decodes a whole MAT-file from r.
func Read(r io.Reader, optFns ...Option) (*File, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range optFns {
		fn(&o)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < headerLen {
		return nil, ErrNotMAT
	}
	d := &decoder{log: o.logger}
	switch string(data[126:128]) {
	case "IM":
		d.order = binary.LittleEndian
	case "MI":
		d.order = binary.BigEndian
	default:
		return nil, ErrNotMAT
	}
	if v := d.order.Uint16(data[124:126]); v != 0x0100 {
		return nil, fmt.Errorf("%w: version 0x%04x", ErrUnsupported, v)
	}
	f := &File{Header: strings.TrimRight(string(data[:116]), " \x00")}
	if err := d.elements(data[headerLen:], f); err != nil {
		return nil, err
	}
	return f, nil
}

type decoder struct {
	order binary.ByteOrder
	log   *slog.Logger
}

// elements decodes a run of top-level data elements into f.
func (d *decoder) elements(buf []byte, f *File) error {
	for len(buf) >= 8 {
		typ, body, rest, err := d.next(buf)
		if err != nil {
			return err
		}
		buf = rest
		switch typ {
		case miCOMPRESSED:
			zr, err := zlib.NewReader(bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("matfile: compressed element: %w", err)
			}
			inflated, err := io.ReadAll(zr)
			zr.Close()
			if err != nil {
				return fmt.Errorf("matfile: compressed element: %w", err)
			}
			if err := d.elements(inflated, f); err != nil {
				return err
			}
		case miMATRIX:
			if len(body) == 0 {
				continue
			}
			v, err := d.matrix(body)
			if err != nil {
				return err
			}
			if v.Class.numeric() {
				f.Variables = append(f.Variables, v)
			} else {
				d.log.Debug("skipping variable", "name", v.Name, "class", int(v.Class))
				f.Skipped = append(f.Skipped, v.Name)
			}
		default:
			d.log.Debug("skipping data element", "type", typ, "bytes", len(body))
		}
	}
	return nil
}

// next splits one data element off buf.
func (d *decoder) next(buf []byte) (typ uint32, body, rest []byte, err error) {
	if len(buf) < 8 {
		return 0, nil, nil, ErrTruncated
	}
	w := d.order.Uint32(buf[0:4])
	if n := w >> 16; n != 0 {
		// small element: size, type and up to 4 bytes of data packed in 8 bytes
		if n > 4 {
			return 0, nil, nil, errBadSubformat
		}
		return w & 0xffff, buf[4 : 4+n], buf[8:], nil
	}
	n := uint64(d.order.Uint32(buf[4:8]))
	if uint64(len(buf)-8) < n {
		return 0, nil, nil, ErrTruncated
	}
	body = buf[8 : 8+n]
	end := 8 + n
	if w != miCOMPRESSED {
		end = 8 + (n+7)&^7
	}
	if end > uint64(len(buf)) {
		end = uint64(len(buf))
	}
	return w, body, buf[end:], nil
}

// matrix decodes the sub-elements of an miMATRIX element.
func (d *decoder) matrix(buf []byte) (*Variable, error) {
	typ, flags, buf, err := d.next(buf)
	if err != nil {
		return nil, err
	}
	if typ != miUINT32 || len(flags) < 8 {
		return nil, errBadSubformat
	}
	fw := d.order.Uint32(flags[0:4])
	v := &Variable{
		Class:   Class(fw & 0xff),
		Logical: fw&flagLogical != 0,
		Complex: fw&flagComplex != 0,
	}

	typ, dims, buf, err := d.next(buf)
	if err != nil {
		return nil, err
	}
	if typ != miINT32 || len(dims)%4 != 0 {
		return nil, errBadSubformat
	}
	total := 1
	for i := 0; i < len(dims); i += 4 {
		n := int(int32(d.order.Uint32(dims[i : i+4])))
		if n < 0 {
			return nil, errBadSubformat
		}
		v.Dims = append(v.Dims, n)
		total *= n
	}

	typ, name, buf, err := d.next(buf)
	if err != nil {
		return nil, err
	}
	if typ != miINT8 && typ != miUINT8 && typ != miUTF8 {
		return nil, errBadSubformat
	}
	v.Name = string(name)

	if !v.Class.numeric() {
		return v, nil
	}
	if len(v.Dims) > 2 {
		return nil, fmt.Errorf("%w: %q has %d dimensions", ErrUnsupported, v.Name, len(v.Dims))
	}
	if total == 0 && len(buf) < 8 {
		return v, nil
	}
	typ, re, _, err := d.next(buf)
	if err != nil {
		return nil, err
	}
	v.Data, err = d.numbers(typ, re)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", v.Name, err)
	}
	if len(v.Data) != total {
		return nil, fmt.Errorf("%w: %q holds %d values for %d elements", errBadSubformat, v.Name, len(v.Data), total)
	}
	if v.Complex {
		d.log.Debug("keeping real part of complex variable", "name", v.Name)
	}
	return v, nil
}

// numbers converts a numeric data element to float64 values.
func (d *decoder) numbers(typ uint32, b []byte) ([]float64, error) {
	size := 0
	switch typ {
	case miINT8, miUINT8:
		size = 1
	case miINT16, miUINT16:
		size = 2
	case miINT32, miUINT32, miSINGLE:
		size = 4
	case miDOUBLE, miINT64, miUINT64:
		size = 8
	default:
		return nil, fmt.Errorf("%w: data type %d", ErrUnsupported, typ)
	}
	if len(b)%size != 0 {
		return nil, errBadSubformat
	}
	out := make([]float64, len(b)/size)
	for i := range out {
		p := b[i*size : (i+1)*size]
		switch typ {
		case miINT8:
			out[i] = float64(int8(p[0]))
		case miUINT8:
			out[i] = float64(p[0])
		case miINT16:
			out[i] = float64(int16(d.order.Uint16(p)))
		case miUINT16:
			out[i] = float64(d.order.Uint16(p))
		case miINT32:
			out[i] = float64(int32(d.order.Uint32(p)))
		case miUINT32:
			out[i] = float64(d.order.Uint32(p))
		case miSINGLE:
			out[i] = float64(math.Float32frombits(d.order.Uint32(p)))
		case miDOUBLE:
			out[i] = math.Float64frombits(d.order.Uint64(p))
		case miINT64:
			out[i] = float64(int64(d.order.Uint64(p)))
		case miUINT64:
			out[i] = float64(d.order.Uint64(p))
		}
	}
	return out, nil
}
