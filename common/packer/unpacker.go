package packer

import (
	"encoding/binary"

	"github.com/abcfe/avax-types/common/errs"
)

const stageUnpack = "unpacker"

// Unpacker reads primitives in the order a Packer wrote them.
type Unpacker struct {
	buf    []byte
	offset int
}

func NewUnpacker(b []byte) *Unpacker {
	return &Unpacker{buf: b}
}

// NewUnpackerWithHeader validates the outer length prefix and returns an
// unpacker positioned after it.
func NewUnpackerWithHeader(b []byte) (*Unpacker, error) {
	if len(b) < HeaderLen {
		return nil, errs.New(errs.KindInvalidData, stageUnpack, "message shorter than length header: %d bytes", len(b))
	}
	n := binary.BigEndian.Uint32(b[:HeaderLen])
	if uint64(n) != uint64(len(b)-HeaderLen) {
		return nil, errs.New(errs.KindInvalidData, stageUnpack,
			"length header says %d bytes, have %d", n, len(b)-HeaderLen)
	}
	return &Unpacker{buf: b, offset: HeaderLen}, nil
}

func (u *Unpacker) need(n int) error {
	if n < 0 || len(u.buf)-u.offset < n {
		return errs.New(errs.KindInvalidData, stageUnpack,
			"need %d bytes at offset %d, have %d", n, u.offset, len(u.buf)-u.offset)
	}
	return nil
}

// Remaining returns the unread byte count.
func (u *Unpacker) Remaining() int {
	return len(u.buf) - u.offset
}

func (u *Unpacker) UnpackByte() (byte, error) {
	if err := u.need(1); err != nil {
		return 0, err
	}
	b := u.buf[u.offset]
	u.offset++
	return b, nil
}

func (u *Unpacker) UnpackBool() (bool, error) {
	b, err := u.UnpackByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errs.New(errs.KindInvalidData, stageUnpack, "invalid bool byte 0x%02x", b)
}

func (u *Unpacker) UnpackU32() (uint32, error) {
	if err := u.need(4); err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint32(u.buf[u.offset:])
	u.offset += 4
	return n, nil
}

func (u *Unpacker) UnpackU64() (uint64, error) {
	if err := u.need(8); err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint64(u.buf[u.offset:])
	u.offset += 8
	return n, nil
}

// UnpackFixedBytes reads exactly n raw bytes.
func (u *Unpacker) UnpackFixedBytes(n int) ([]byte, error) {
	if err := u.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, u.buf[u.offset:u.offset+n])
	u.offset += n
	return out, nil
}

// UnpackBytesWithHeader reads a 4-byte length and that many bytes.
func (u *Unpacker) UnpackBytesWithHeader() ([]byte, error) {
	n, err := u.UnpackU32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(u.Remaining()) {
		return nil, errs.New(errs.KindInvalidData, stageUnpack,
			"field length %d exceeds remaining %d bytes", n, u.Remaining())
	}
	return u.UnpackFixedBytes(int(n))
}

// Done fails when unread bytes remain.
func (u *Unpacker) Done() error {
	if u.Remaining() != 0 {
		return errs.New(errs.KindInvalidData, stageUnpack, "%d trailing bytes", u.Remaining())
	}
	return nil
}
