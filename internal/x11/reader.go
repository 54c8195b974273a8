package x11

// reader walks a packet body with bounds checking, reporting truncation
// to a ParamBuilder via Overflow() exactly once per packet, per spec.md
// §4.4 ("<packet ends prematurely>... subsequent parameters silently
// no-op").
type reader struct {
	data  []byte
	off   int
	order ByteOrder
	pb    *ParamBuilder
}

func newReader(data []byte, order ByteOrder, pb *ParamBuilder) *reader {
	return &reader{data: data, order: order, pb: pb}
}

func (r *reader) need(n int) bool {
	if r.off+n > len(r.data) {
		r.pb.Overflow()
		return false
	}
	return true
}

func (r *reader) u8() (uint8, bool) {
	if !r.need(1) {
		return 0, false
	}
	v := r.data[r.off]
	r.off++
	return v, true
}

func (r *reader) i8() (int8, bool) {
	v, ok := r.u8()
	return int8(v), ok
}

func (r *reader) u16() (uint16, bool) {
	if !r.need(2) {
		return 0, false
	}
	v := readU16(r.data[r.off:r.off+2], r.order)
	r.off += 2
	return v, true
}

func (r *reader) i16() (int16, bool) {
	v, ok := r.u16()
	return int16(v), ok
}

func (r *reader) u32() (uint32, bool) {
	if !r.need(4) {
		return 0, false
	}
	v := readU32(r.data[r.off:r.off+4], r.order)
	r.off += 4
	return v, true
}

func (r *reader) i32() (int32, bool) {
	v, ok := r.u32()
	return int32(v), ok
}

func (r *reader) skip(n int) bool {
	if !r.need(n) {
		return false
	}
	r.off += n
	return true
}

func (r *reader) bytes(n int) ([]byte, bool) {
	if !r.need(n) {
		return nil, false
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, true
}

func (r *reader) string(n int) (string, bool) {
	b, ok := r.bytes(n)
	if !ok {
		return "", false
	}
	return string(b), true
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) ok() bool {
	return !r.pb.Overflowed()
}
