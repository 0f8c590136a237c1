package model

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FieldReader is just a simple reader for whitespace-delimited formats.
type FieldReader struct {
	Pos    int
	Fields []string
}

// NewFieldReader constructs a new field reader around the given data
func NewFieldReader(data string) *FieldReader {
	return &FieldReader{0, strings.Fields(data)}
}

// Remaining is the number of fields not yet read
func (fr *FieldReader) Remaining() int {
	return len(fr.Fields) - fr.Pos
}

// Read returns the next space-delimited field/token
func (fr *FieldReader) Read() (string, error) {
	if fr.Pos >= len(fr.Fields) {
		return "", io.EOF
	}
	p := fr.Pos
	fr.Pos++
	return fr.Fields[p], nil
}

// ReadInt reads the next token as an int
func (fr *FieldReader) ReadInt() (int, error) {
	s, err := fr.Read()
	if err != nil {
		return 0, err
	}

	i, err := strconv.ParseInt(s, 10, 0)
	return int(i), err
}

// ReadFloat reads the next token as a float
func (fr *FieldReader) ReadFloat() (float64, error) {
	s, err := fr.Read()
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(s, 64)
}

// ReadFloats reads the next count tokens as floats into a new slice
func (fr *FieldReader) ReadFloats(count int) ([]float64, error) {
	if count < 0 {
		return nil, errors.Errorf("Invalid float count %d", count)
	}
	if fr.Remaining() < count {
		return nil, errors.Errorf("Needed %d values, only %d remain", count, fr.Remaining())
	}

	vals := make([]float64, count)
	for i := range vals {
		v, err := fr.ReadFloat()
		if err != nil {
			return nil, errors.Wrapf(err, "Could not read value %d of %d", i, count)
		}
		vals[i] = v
	}
	return vals, nil
}
