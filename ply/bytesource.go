package ply

import (
	"io"

	"github.com/gopherply/ply/ply/internal/errors"
)

// minSourceBuffer is the smallest window byteSource keeps over the input.
// Binary row data and header lines both fit comfortably within it; it only
// grows past this when asked to hand back more bytes than it currently
// holds (readBytes for an unusually large fixed-size list, for instance).
const minSourceBuffer = 64 * 1024

const pkgSource = "ply"

// byteSource is a forward-only buffered window over a file: refillable on
// underflow via a memmove of the unconsumed tail, with separate helpers for
// the header's line-oriented text and the body's raw or tokenized bytes.
// Modeled on the same shape as flate.bitReader's relationship to its
// underlying io.Reader, minus the bit-packing: PLY is byte-aligned.
type byteSource struct {
	r   io.Reader
	buf []byte
	pos int // next unread byte in buf
	end int // valid bytes are buf[:end]

	offset int64 // file offset corresponding to buf[0]
	eof    bool  // underlying reader has returned io.EOF
}

func newByteSource(r io.Reader) *byteSource {
	return &byteSource{r: r, buf: make([]byte, minSourceBuffer)}
}

// Offset reports the file offset of the next unread byte.
func (s *byteSource) Offset() int64 { return s.offset + int64(s.pos) }

// fill guarantees at least n unread bytes are buffered, growing and
// memmove-ing as needed. It panics UnexpectedEOF if the stream ends first.
func (s *byteSource) fill(n int) {
	for s.end-s.pos < n {
		if s.pos > 0 {
			copy(s.buf, s.buf[s.pos:s.end])
			s.offset += int64(s.pos)
			s.end -= s.pos
			s.pos = 0
		}
		if s.end == len(s.buf) {
			grown := make([]byte, len(s.buf)*2)
			if len(grown) < n {
				grown = make([]byte, n)
			}
			copy(grown, s.buf[:s.end])
			s.buf = grown
		}
		if s.eof {
			errors.Panicf(errors.UnexpectedEOF, pkgSource, "unexpected end of file")
		}
		k, err := s.r.Read(s.buf[s.end:])
		s.end += k
		if err != nil {
			if err == io.EOF {
				s.eof = true
				continue
			}
			errors.Panicf(errors.IO, pkgSource, "%v", err)
		}
	}
}

// atEOF reports whether the stream is exhausted: no buffered bytes remain
// and a further read returns io.EOF immediately.
func (s *byteSource) atEOF() bool {
	if s.end > s.pos {
		return false
	}
	if s.pos > 0 {
		copy(s.buf, s.buf[s.pos:s.end])
		s.offset += int64(s.pos)
		s.end -= s.pos
		s.pos = 0
	}
	if s.eof {
		return s.end == s.pos
	}
	k, err := s.r.Read(s.buf[s.end:])
	s.end += k
	if err == io.EOF {
		s.eof = true
	} else if err != nil {
		errors.Panicf(errors.IO, pkgSource, "%v", err)
	}
	return s.end == s.pos
}

// peekByte returns the next byte without consuming it.
func (s *byteSource) peekByte() byte {
	s.fill(1)
	return s.buf[s.pos]
}

// readBytes returns a view of the next n bytes and advances past them. The
// slice is only valid until the next byteSource call.
func (s *byteSource) readBytes(n int) []byte {
	s.fill(n)
	b := s.buf[s.pos : s.pos+n]
	s.pos += n
	return b
}

// skipBytes advances the logical stream position by n bytes without
// copying them out. When the underlying reader also implements io.Seeker
// and the buffer is currently empty, a run of skipped bytes larger than the
// buffer is satisfied with a single Seek instead of being read and
// discarded — the efficient path §4.5/§9 ask for when advancing past a
// fixed (non-list-bearing) element.
func (s *byteSource) skipBytes(n int64) {
	for n > 0 {
		avail := int64(s.end - s.pos)
		if avail == 0 {
			if seeker, ok := s.r.(io.Seeker); ok && n > int64(len(s.buf)) {
				newPos, err := seeker.Seek(n, io.SeekCurrent)
				if err != nil {
					errors.Panicf(errors.IO, pkgSource, "%v", err)
				}
				s.offset = newPos
				s.pos, s.end = 0, 0
				s.eof = false
				return
			}
			s.fill(1)
			avail = int64(s.end - s.pos)
		}
		step := n
		if step > avail {
			step = avail
		}
		s.pos += int(step)
		n -= step
	}
}

// skipWhitespace consumes ASCII spaces, tabs, carriage returns, and newlines.
func (s *byteSource) skipWhitespace() {
	for !s.atEOF() && isSpace(s.peekByte()) {
		s.pos++
	}
}

// readToken reads one whitespace-delimited ASCII token, per §4.1.
func (s *byteSource) readToken() string {
	s.skipWhitespace()
	if s.atEOF() {
		errors.Panicf(errors.UnexpectedEOF, pkgSource, "expected token, found end of file")
	}
	var tok []byte
	for !s.atEOF() && !isSpace(s.peekByte()) {
		tok = append(tok, s.buf[s.pos])
		s.pos++
	}
	return string(tok)
}

// readLine reads one ASCII line, stripping a trailing \r\n or \n. Used only
// by the header parser; the binary body is never line-oriented.
func (s *byteSource) readLine() string {
	var line []byte
	for {
		if s.pos >= s.end {
			if s.atEOF() {
				if len(line) == 0 {
					errors.Panicf(errors.UnexpectedEOF, pkgSource, "expected header line, found end of file")
				}
				return string(line)
			}
		}
		c := s.buf[s.pos]
		s.pos++
		if c == '\n' {
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			return string(line)
		}
		line = append(line, c)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
