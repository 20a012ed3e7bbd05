package lib

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// ReadInput loads path into memory, transparently decompressing gzip or
// zstd payloads. Graph files are small relative to the search workspace,
// so the whole payload is held and parsed in passes.
func ReadInput(path string) ([]byte, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decompress(dat)
}

// Decompress inflates gzip or zstd data, detected by magic bytes, and
// passes anything else through untouched.
func Decompress(dat []byte) ([]byte, error) {
	switch {
	case len(dat) >= 2 && dat[0] == 0x1f && dat[1] == 0x8b:
		zr, err := gzip.NewReader(bytes.NewReader(dat))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case len(dat) >= 4 && dat[0] == 0x28 && dat[1] == 0xb5 && dat[2] == 0x2f && dat[3] == 0xfd:
		zr, err := zstd.NewReader(bytes.NewReader(dat))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return dat, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// intScanner reads whitespace-separated integers, skipping comment lines
// introduced by 'c'. Every number must be terminated by whitespace.
type intScanner struct {
	buf []byte
	pos int
}

func (r *intScanner) next(k *int) bool {
	var c byte
	for {
		if r.pos >= len(r.buf) {
			return false
		}
		c = r.buf[r.pos]
		r.pos++
		if isSpace(c) {
			continue
		}
		if c == 'c' {
			for {
				if r.pos >= len(r.buf) {
					return false
				}
				c = r.buf[r.pos]
				r.pos++
				if c == '\n' {
					break
				}
			}
			continue
		}
		break
	}

	neg := false
	if c == '-' {
		neg = true
		if r.pos >= len(r.buf) {
			return false
		}
		c = r.buf[r.pos]
		r.pos++
	}
	if c < '0' || c > '9' {
		return false
	}

	v := 0
	for c >= '0' && c <= '9' {
		v = v*10 + int(c-'0')
		if r.pos >= len(r.buf) {
			c = 0
			break
		}
		c = r.buf[r.pos]
		r.pos++
	}
	if neg {
		v = -v
	}
	*k = v
	return isSpace(c)
}
