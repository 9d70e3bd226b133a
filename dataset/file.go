package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

var magic = [4]byte{'L', '2', 'B', 'D'}

const (
	version    = 1
	headerSize = 6
)

// Writer appends samples to a dataset stream. It is not safe for concurrent
// use.
type Writer struct {
	w     *bufio.Writer
	comp  *compressor
	enc   encoder
	count int
}

// NewWriter writes the file header to w and returns a Writer using codec.
func NewWriter(w io.Writer, codec Codec) (*Writer, error) {
	comp, err := newCompressor(codec)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(w)
	hdr := append(magic[:], version, byte(codec))
	if _, err := bw.Write(hdr); err != nil {
		comp.close()
		return nil, err
	}
	return &Writer{w: bw, comp: comp}, nil
}

// Write appends one sample.
func (w *Writer) Write(s *Sample) error {
	w.enc.buf = w.enc.buf[:0]
	w.enc.sample(s)
	if len(w.enc.buf) > maxBlockSize {
		return fmt.Errorf("dataset: sample of %d bytes exceeds block limit", len(w.enc.buf))
	}
	block, err := w.comp.compress(w.enc.buf)
	if err != nil {
		return fmt.Errorf("dataset: compress: %w", err)
	}
	if _, err := w.w.Write(block); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of samples written.
func (w *Writer) Count() int { return w.count }

// Flush writes buffered samples to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// Close flushes and releases codec state. It does not close the underlying
// writer.
func (w *Writer) Close() error {
	err := w.w.Flush()
	w.comp.close()
	return err
}

// Reader reads samples from a dataset stream.
type Reader struct {
	r     *bufio.Reader
	comp  *compressor
	codec Codec
}

// NewReader reads the file header from r.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	var hdr [headerSize]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	if [4]byte(hdr[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, hdr[:4])
	}
	if hdr[4] != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, hdr[4])
	}
	codec := Codec(hdr[5])
	comp, err := newCompressor(codec)
	if err != nil {
		return nil, err
	}
	return &Reader{r: br, comp: comp, codec: codec}, nil
}

// Codec returns the codec recorded in the header.
func (r *Reader) Codec() Codec { return r.codec }

// Next returns the next sample, or io.EOF after the last one.
func (r *Reader) Next() (*Sample, error) {
	var hdr [blockHeaderSize]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: block header: %w", ErrCorrupt, err)
	}
	rawSize := binary.LittleEndian.Uint32(hdr[0:])
	packedSize := binary.LittleEndian.Uint32(hdr[4:])
	if rawSize > maxBlockSize || packedSize > maxBlockSize {
		return nil, fmt.Errorf("%w: block size %d/%d", ErrCorrupt, rawSize, packedSize)
	}

	size := rawSize
	if packedSize != 0 {
		size = packedSize
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r.r, body); err != nil {
		return nil, fmt.Errorf("%w: block body: %w", ErrCorrupt, err)
	}
	if packedSize != 0 {
		var err error
		if body, err = r.comp.decompress(body, rawSize); err != nil {
			return nil, err
		}
	}

	d := decoder{buf: body}
	return d.sample()
}

// All yields every remaining sample. Iteration stops at the first error,
// which is yielded with a nil sample.
func (r *Reader) All() iter.Seq2[*Sample, error] {
	return func(yield func(*Sample, error) bool) {
		for {
			s, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(s, err) || err != nil {
				return
			}
		}
	}
}

// Close releases codec state. It does not close the underlying reader.
func (r *Reader) Close() error {
	r.comp.close()
	return nil
}

// Create opens path for writing and returns a Writer that closes the file
// when closed.
func Create(path string, codec Codec) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, codec)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileWriter{Writer: w, f: f}, nil
}

// FileWriter is a Writer that owns its file.
type FileWriter struct {
	*Writer
	f *os.File
}

// Close flushes the writer, syncs and closes the file.
func (w *FileWriter) Close() error {
	err := w.Writer.Close()
	if serr := w.f.Sync(); err == nil {
		err = serr
	}
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Open opens a dataset file for reading.
func Open(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &FileReader{Reader: r, f: f}, nil
}

// FileReader is a Reader that owns its file.
type FileReader struct {
	*Reader
	f *os.File
}

// Close releases the reader and closes the file.
func (r *FileReader) Close() error {
	r.Reader.Close()
	return r.f.Close()
}
