package pointio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hupe1980/allnn/blobstore"
	"github.com/hupe1980/allnn/model"
)

// ErrFieldCount is wrapped by ParseError when a line has the wrong number of
// fields.
var ErrFieldCount = errors.New("wrong number of fields")

// ErrLabel is returned by WritePoints for labels that contain a line break,
// start with a separator or end with whitespace.
var ErrLabel = errors.New("label cannot be stored")

// ParseError reports a malformed input line.
//
// The underlying error can be accessed via errors.Unwrap.
type ParseError struct {
	Line  int
	Text  string
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

// ReadPoints parses a point file. The label is the rest of the line after
// the y coordinate, with the separators before it dropped.
func ReadPoints(r io.Reader) ([]model.Point, error) {
	var points []model.Point
	err := scan(r, func(text string) error {
		xs, rest := nextField(text)
		ys, rest := nextField(rest)
		if ys == "" {
			return ErrFieldCount
		}
		x, err := parseCoord(xs)
		if err != nil {
			return err
		}
		y, err := parseCoord(ys)
		if err != nil {
			return err
		}
		label := strings.TrimLeftFunc(rest, isSeparator)
		points = append(points, model.Point{X: x, Y: y, Label: label})
		return nil
	})
	return points, err
}

// ReadPairs parses a solution file.
func ReadPairs(r io.Reader) ([]model.Pair, error) {
	var pairs []model.Pair
	err := scan(r, func(text string) error {
		fields := strings.FieldsFunc(text, isSeparator)
		if len(fields) != 4 {
			return ErrFieldCount
		}
		var c [4]int32
		for i, f := range fields {
			v, err := parseCoord(f)
			if err != nil {
				return err
			}
			c[i] = v
		}
		pairs = append(pairs, model.Pair{Query: model.Pt(c[0], c[1]), Nearest: model.Pt(c[2], c[3])})
		return nil
	})
	return pairs, err
}

// WritePoints writes points in the point file format. It returns an
// ErrLabel error for a label that would not read back unchanged.
func WritePoints(w io.Writer, points []model.Point) error {
	for i, p := range points {
		if !validLabel(p.Label) {
			return fmt.Errorf("point %d %q: %w", i, p.Label, ErrLabel)
		}
	}

	bw := bufio.NewWriter(w)
	for _, p := range points {
		line := strconv.AppendInt(nil, int64(p.X), 10)
		line = append(line, ' ')
		line = strconv.AppendInt(line, int64(p.Y), 10)
		if p.Label != "" {
			line = append(line, ' ')
			line = append(line, p.Label...)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePairs writes pairs in the solution file format. Labels are dropped.
func WritePairs(w io.Writer, pairs []model.Pair) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for _, p := range pairs {
		line = line[:0]
		for i, v := range [4]int32{p.Query.X, p.Query.Y, p.Nearest.X, p.Nearest.Y} {
			if i > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendInt(line, int64(v), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadPoints reads a possibly compressed point file from store.
func LoadPoints(ctx context.Context, store blobstore.Store, name string) ([]model.Point, error) {
	var points []model.Point
	err := load(ctx, store, name, func(r io.Reader) (err error) {
		points, err = ReadPoints(r)
		return err
	})
	return points, err
}

// LoadPairs reads a possibly compressed solution file from store.
func LoadPairs(ctx context.Context, store blobstore.Store, name string) ([]model.Pair, error) {
	var pairs []model.Pair
	err := load(ctx, store, name, func(r io.Reader) (err error) {
		pairs, err = ReadPairs(r)
		return err
	})
	return pairs, err
}

// SavePoints encodes points, compressed according to name, and stores them.
func SavePoints(ctx context.Context, store blobstore.Store, name string, points []model.Point) error {
	return save(ctx, store, name, func(w io.Writer) error { return WritePoints(w, points) })
}

// SavePairs encodes pairs, compressed according to name, and stores them.
func SavePairs(ctx context.Context, store blobstore.Store, name string, pairs []model.Pair) error {
	return save(ctx, store, name, func(w io.Writer) error { return WritePairs(w, pairs) })
}

func load(ctx context.Context, store blobstore.Store, name string, read func(io.Reader) error) error {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	dec, err := NewReader(rc, name)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", name, err)
	}
	defer func() { _ = dec.Close() }()

	if err := read(dec); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

func save(ctx context.Context, store blobstore.Store, name string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	enc, err := NewWriter(&buf, name)
	if err != nil {
		return fmt.Errorf("compress %s: %w", name, err)
	}
	if err := write(enc); err != nil {
		_ = enc.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("compress %s: %w", name, err)
	}
	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

func scan(r io.Reader, parse func(text string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		if err := parse(text); err != nil {
			return &ParseError{Line: line, Text: text, cause: err}
		}
	}
	return sc.Err()
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ','
}

// nextField returns the first field of s and everything after it.
func nextField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, isSeparator)
	if i := strings.IndexFunc(s, isSeparator); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

func validLabel(label string) bool {
	if label == "" {
		return true
	}
	if strings.ContainsAny(label, "\r\n") {
		return false
	}
	first, _ := utf8.DecodeRuneInString(label)
	last, _ := utf8.DecodeLastRuneInString(label)
	return !isSeparator(first) && !unicode.IsSpace(last)
}

func parseCoord(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
