package ply

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/gopherply/ply/ply/internal/errors"
)

const pkgDecode = "ply"

// rowDecoder is the per-encoding strategy for turning one element's worth of
// input bytes into packed row-block bytes (decodeRow) or advancing past them
// without retaining the values (skipRow). ASCII, BinaryLE, and BinaryBE each
// read their properties in the same declared order; only the wire
// representation of a scalar or a list count differs between them.
type rowDecoder interface {
	decodeRow(src *byteSource, el *Element, row []byte, payload *payloadBuilder)
	skipRow(src *byteSource, el *Element)
}

func decoderFor(enc Encoding) rowDecoder {
	switch enc {
	case BinaryLE:
		return binaryDecoder{order: binary.LittleEndian}
	case BinaryBE:
		return binaryDecoder{order: binary.BigEndian}
	default:
		return asciiDecoder{}
	}
}

// loadElement decodes all of el.Count rows into a fresh rowBlock.
func loadElement(src *byteSource, el *Element, enc Encoding) *rowBlock {
	block := &rowBlock{rows: make([]byte, el.Count*el.RowStride())}
	dec := decoderFor(enc)
	pb := &payloadBuilder{}
	for i := 0; i < el.Count; i++ {
		dec.decodeRow(src, el, block.row(el, i), pb)
	}
	block.payload = pb.buf
	return block
}

// skipElement advances src past el.Count rows without retaining them. A
// binary element with no unconverted list property is skipped in a single
// bulk seek/skip; everything else is walked row by row since only the
// decoder knows where each row ends.
func skipElement(src *byteSource, el *Element, enc Encoding) {
	if enc != ASCII && !el.HasLists() {
		src.skipBytes(int64(el.Count) * int64(el.RowStride()))
		return
	}
	dec := decoderFor(enc)
	for i := 0; i < el.Count; i++ {
		dec.skipRow(src, el)
	}
}

// binaryDecoder reads binary_little_endian or binary_big_endian bodies,
// normalizing every scalar to canonical little-endian as it goes.
type binaryDecoder struct {
	order binary.ByteOrder
}

func (d binaryDecoder) decodeRow(src *byteSource, el *Element, row []byte, payload *payloadBuilder) {
	for i := range el.Properties {
		p := &el.Properties[i]
		itemSize := p.Type.Size()

		if !p.IsList {
			putCanonical(row[p.offset:p.offset+itemSize], src.readBytes(itemSize), d.order)
			continue
		}

		count := d.readCount(src, p)

		if p.fixedListCount >= 0 {
			errors.Assert(count == p.fixedListCount, errors.BadListLength, pkgDecode,
				"property %q: expected %d items, found %d", p.Name, p.fixedListCount, count)
			for k := 0; k < count; k++ {
				dst := row[p.offset+k*itemSize : p.offset+(k+1)*itemSize]
				putCanonical(dst, src.readBytes(itemSize), d.order)
			}
			continue
		}

		off := len(payload.buf)
		var tmp [8]byte
		for k := 0; k < count; k++ {
			putCanonical(tmp[:itemSize], src.readBytes(itemSize), d.order)
			payload.append(tmp[:itemSize])
		}
		putLeUint32(row[p.offset:], uint32(count))
		putLeUint32(row[p.offset+4:], uint32(off))
	}
}

func (d binaryDecoder) skipRow(src *byteSource, el *Element) {
	for i := range el.Properties {
		p := &el.Properties[i]
		if !p.IsList {
			src.skipBytes(int64(p.Type.Size()))
			continue
		}
		count := d.readCount(src, p)
		if p.fixedListCount >= 0 {
			errors.Assert(count == p.fixedListCount, errors.BadListLength, pkgDecode,
				"property %q: expected %d items, found %d", p.Name, p.fixedListCount, count)
			src.skipBytes(int64(p.fixedListCount) * int64(p.Type.Size()))
			continue
		}
		src.skipBytes(int64(count) * int64(p.Type.Size()))
	}
}

// readCount decodes one list-length prefix in the property's CountType and
// returns it as a plain int. The bit pattern is read as unsigned: a
// negative-looking count is not a meaningful concept in PLY and is instead
// left to either fail BadListLength against a fixed conversion or run the
// source out of bytes, raising UnexpectedEOF.
func (d binaryDecoder) readCount(src *byteSource, p *Property) int {
	size := p.CountType.Size()
	var tmp [8]byte
	putCanonical(tmp[:size], src.readBytes(size), d.order)
	return int(getUint64(tmp[:size], p.CountType))
}

// asciiDecoder reads the whitespace/newline-delimited text body.
type asciiDecoder struct{}

func (asciiDecoder) decodeRow(src *byteSource, el *Element, row []byte, payload *payloadBuilder) {
	for i := range el.Properties {
		p := &el.Properties[i]
		itemSize := p.Type.Size()

		if !p.IsList {
			encodeASCIIValue(row[p.offset:p.offset+itemSize], src.readToken(), p.Type)
			continue
		}

		count := parseASCIICount(src.readToken())

		if p.fixedListCount >= 0 {
			errors.Assert(count == p.fixedListCount, errors.BadListLength, pkgDecode,
				"property %q: expected %d items, found %d", p.Name, p.fixedListCount, count)
			for k := 0; k < count; k++ {
				dst := row[p.offset+k*itemSize : p.offset+(k+1)*itemSize]
				encodeASCIIValue(dst, src.readToken(), p.Type)
			}
			continue
		}

		off := len(payload.buf)
		var tmp [8]byte
		for k := 0; k < count; k++ {
			encodeASCIIValue(tmp[:itemSize], src.readToken(), p.Type)
			payload.append(tmp[:itemSize])
		}
		putLeUint32(row[p.offset:], uint32(count))
		putLeUint32(row[p.offset+4:], uint32(off))
	}
}

func (asciiDecoder) skipRow(src *byteSource, el *Element) {
	for i := range el.Properties {
		p := &el.Properties[i]
		if !p.IsList {
			src.readToken()
			continue
		}
		count := parseASCIICount(src.readToken())
		if p.fixedListCount >= 0 {
			errors.Assert(count == p.fixedListCount, errors.BadListLength, pkgDecode,
				"property %q: expected %d items, found %d", p.Name, p.fixedListCount, count)
			count = p.fixedListCount
		}
		for k := 0; k < count; k++ {
			src.readToken()
		}
	}
}

func parseASCIICount(tok string) int {
	v, err := strconv.ParseInt(tok, 10, 32)
	errors.Assert(err == nil, errors.NumericParse, pkgDecode, "invalid list count %q", tok)
	errors.Assert(v >= 0, errors.BadListLength, pkgDecode, "negative list count %q", tok)
	return int(v)
}

func encodeASCIIValue(dst []byte, tok string, t PropertyType) {
	if t.IsFloat() {
		f, err := strconv.ParseFloat(tok, 64)
		errors.Assert(err == nil, errors.NumericParse, pkgDecode, "invalid numeric token %q", tok)
		if t == Float {
			binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(f)))
		} else {
			binary.LittleEndian.PutUint64(dst, math.Float64bits(f))
		}
		return
	}
	if t.IsSigned() {
		v, err := strconv.ParseInt(tok, 10, 64)
		errors.Assert(err == nil, errors.NumericParse, pkgDecode, "invalid numeric token %q", tok)
		putInt(dst, t, v)
		return
	}
	v, err := strconv.ParseUint(tok, 10, 64)
	errors.Assert(err == nil, errors.NumericParse, pkgDecode, "invalid numeric token %q", tok)
	putInt(dst, t, int64(v))
}
