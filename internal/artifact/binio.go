package artifact

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// binWriter is a small length-prefixed binary encoder. There is no varint
// packing here: every size-sensitive value in this format is either a fixed
// header field or small enough (symbol names, element counts) that fixed-width
// fields keep the encoder simple and the decoder allocation-free per field.
type binWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func newBinWriter(w io.Writer) *binWriter {
	return &binWriter{w: bufio.NewWriter(w)}
}

func (b *binWriter) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *binWriter) u8(v uint8) {
	if b.err != nil {
		return
	}
	if err := b.w.WriteByte(v); err != nil {
		b.fail(err)
		return
	}
	b.n++
}

func (b *binWriter) u32(v uint32) {
	if b.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	nn, err := b.w.Write(buf[:])
	b.n += int64(nn)
	if err != nil {
		b.fail(err)
	}
}

func (b *binWriter) i64(v int64) { b.u64(uint64(v)) }

func (b *binWriter) u64(v uint64) {
	if b.err != nil {
		return
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	nn, err := b.w.Write(buf[:])
	b.n += int64(nn)
	if err != nil {
		b.fail(err)
	}
}

func (b *binWriter) f64(v float64) { b.u64(math.Float64bits(v)) }

func (b *binWriter) bool(v bool) {
	if v {
		b.u8(1)
	} else {
		b.u8(0)
	}
}

func (b *binWriter) str(s string) {
	b.u32(uint32(len(s)))
	if b.err != nil {
		return
	}
	nn, err := b.w.WriteString(s)
	b.n += int64(nn)
	if err != nil {
		b.fail(err)
	}
}

func (b *binWriter) optStr(s string, present bool) {
	b.bool(present)
	if present {
		b.str(s)
	}
}

func (b *binWriter) flush() (int64, error) {
	if b.err != nil {
		return b.n, b.err
	}
	return b.n, b.w.Flush()
}

// binReader is the symmetric decoder, reading from a bounded byte slice.
type binReader struct {
	buf []byte
	pos int
}

func newBinReader(buf []byte) *binReader {
	return &binReader{buf: buf}
}

func (r *binReader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return fmt.Errorf("artifact: truncated region at offset %d (need %d, have %d)", r.pos, n, len(r.buf)-r.pos)
	}
	return nil
}

func (r *binReader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *binReader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *binReader) u64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *binReader) i64() (int64, error) {
	v, err := r.u64()
	return int64(v), err
}

func (r *binReader) f64() (float64, error) {
	v, err := r.u64()
	return math.Float64frombits(v), err
}

func (r *binReader) boolean() (bool, error) {
	v, err := r.u8()
	return v != 0, err
}

func (r *binReader) str() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *binReader) optStr() (string, bool, error) {
	present, err := r.boolean()
	if err != nil || !present {
		return "", false, err
	}
	s, err := r.str()
	return s, true, err
}
