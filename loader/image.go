// Package loader provides program image loading for LC-3 object files.
//
// An image is a big-endian stream of 16-bit words. The first word is the
// origin address; the remaining words are placed in memory starting there.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/lc3sim/internal/translate"
)

var f = translate.From

// DefaultOrigin replaces an origin word of zero.
const DefaultOrigin uint16 = 0x3000

// memoryWords is the size of the LC-3 address space in words.
const memoryWords = 1 << 16

var (
	// ErrOpen indicates the image could not be opened or read.
	ErrOpen = errors.New(f("cannot read image"))
	// ErrTruncatedOrigin indicates fewer than 2 bytes were available.
	ErrTruncatedOrigin = errors.New(f("truncated origin"))
	// ErrTruncatedWord indicates a trailing odd byte.
	ErrTruncatedWord = errors.New(f("truncated word"))
	// ErrImageTooLarge indicates the payload runs past the top of memory.
	ErrImageTooLarge = errors.New(f("image too large"))
)

// LoadError reports why an image could not be loaded.
type LoadError struct {
	Path string // Empty when parsing a stream
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return f("load: %v", e.Err)
	}
	return f("load %v: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Image is a parsed program image ready to be copied into memory.
type Image struct {
	// Origin is the address of the first payload word.
	Origin uint16
	// Words is the payload.
	Words []uint16
}

// End returns one past the last address the image occupies.
func (img *Image) End() int {
	return int(img.Origin) + len(img.Words)
}

// Load opens and parses the image at path. The file is closed before Load
// returns.
func Load(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrOpen, err)}
	}
	defer func() { _ = file.Close() }()

	img, err := Parse(file)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	return img, nil
}

// Parse reads an image from r. The image is validated in full: no Image is
// returned for a truncated or oversized stream.
func Parse(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	origin, err := readWord(br)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return nil, &LoadError{Err: ErrTruncatedOrigin}
	case err != nil:
		return nil, &LoadError{Err: fmt.Errorf("%w: %w", ErrOpen, err)}
	}
	if origin == 0 {
		origin = DefaultOrigin
	}

	img := &Image{Origin: origin}
	for {
		word, err := readWord(br)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			return nil, &LoadError{Err: fmt.Errorf("%w at offset %d", ErrTruncatedWord, 2*(len(img.Words)+1))}
		}
		if err != nil {
			return nil, &LoadError{Err: fmt.Errorf("%w: %w", ErrOpen, err)}
		}

		if int(origin)+len(img.Words) >= memoryWords {
			return nil, &LoadError{Err: fmt.Errorf("%w: origin %#04x", ErrImageTooLarge, origin)}
		}
		img.Words = append(img.Words, word)
	}

	return img, nil
}

// readWord reads one big-endian word. It returns io.EOF if no byte was
// available and io.ErrUnexpectedEOF if only one was.
func readWord(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}
