package ply

// rowBlock holds one fully-loaded element's worth of decoded rows: a packed
// byte buffer of Count*element.RowStride() bytes, plus a side buffer holding
// the payload of every unconverted list property. A list slot in the row
// buffer is always 8 bytes: a little-endian (count uint32, offset uint32)
// pair, where offset indexes into payload and count is the number of items
// stored there, each item.Size() bytes wide.
//
// Everything in both buffers is canonical little-endian regardless of the
// source file's encoding; see convert.go.
type rowBlock struct {
	rows    []byte // element.Count * element.RowStride() bytes
	payload []byte // concatenated list-property item bytes, decode order
}

func (b *rowBlock) row(el *Element, i int) []byte {
	stride := el.RowStride()
	return b.rows[i*stride : (i+1)*stride]
}

// listSlot decodes the (count, offset) pair stored for an unconverted list
// property at the given row, returning a view over its items in payload.
func (b *rowBlock) listSlot(row []byte, p *Property) (count int, items []byte) {
	count = int(leUint32(row[p.offset:]))
	off := int(leUint32(row[p.offset+4:]))
	return count, b.payload[off : off+count*p.Type.Size()]
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// payloadBuilder accumulates list-property item bytes for one element load.
type payloadBuilder struct {
	buf []byte
}

func (p *payloadBuilder) append(item []byte) int {
	off := len(p.buf)
	p.buf = append(p.buf, item...)
	return off
}
