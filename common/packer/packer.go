// Package packer writes and reads the big-endian primitives of the
// peer-to-peer wire format.
package packer

import (
	"encoding/binary"

	"github.com/abcfe/avax-types/common/errs"
)

const (
	// HeaderLen is the size of the outer big-endian length prefix.
	HeaderLen = 4

	// DefaultMaxSize matches the network's 2 MiB message cap.
	DefaultMaxSize = 2 * 1024 * 1024

	stagePack = "packer"
)

// Packer is an append-only buffer for one message. It is not safe for
// concurrent use and must not be reused after TakeBytes.
type Packer struct {
	buf       []byte
	maxSize   int
	hasHeader bool
	taken     bool
}

// New returns a packer without the outer length header.
func New(maxSize int) *Packer {
	return &Packer{buf: make([]byte, 0, 64), maxSize: maxSize}
}

// NewWithHeader reserves the 4-byte length prefix that TakeBytes fills in.
func NewWithHeader() *Packer {
	p := New(DefaultMaxSize)
	p.buf = append(p.buf, 0, 0, 0, 0)
	p.hasHeader = true
	return p
}

func (p *Packer) grow(n int) error {
	if p.taken {
		return errs.New(errs.KindEncodingInvariant, stagePack, "write after take_bytes")
	}
	if len(p.buf)+n > p.maxSize {
		return errs.New(errs.KindEncodingInvariant, stagePack,
			"packer overflow: %d + %d exceeds %d bytes", len(p.buf), n, p.maxSize)
	}
	return nil
}

// Len returns the number of bytes written so far, header included.
func (p *Packer) Len() int {
	return len(p.buf)
}

func (p *Packer) PackByte(b byte) error {
	if err := p.grow(1); err != nil {
		return err
	}
	p.buf = append(p.buf, b)
	return nil
}

func (p *Packer) PackBool(b bool) error {
	if b {
		return p.PackByte(1)
	}
	return p.PackByte(0)
}

func (p *Packer) PackU32(n uint32) error {
	if err := p.grow(4); err != nil {
		return err
	}
	p.buf = binary.BigEndian.AppendUint32(p.buf, n)
	return nil
}

func (p *Packer) PackU64(n uint64) error {
	if err := p.grow(8); err != nil {
		return err
	}
	p.buf = binary.BigEndian.AppendUint64(p.buf, n)
	return nil
}

// PackBytes appends b without a length prefix. Use it only for
// fixed-size fields such as a 32-byte chain id.
func (p *Packer) PackBytes(b []byte) error {
	if err := p.grow(len(b)); err != nil {
		return err
	}
	p.buf = append(p.buf, b...)
	return nil
}

// PackBytesWithHeader appends a 4-byte big-endian length followed by b.
func (p *Packer) PackBytesWithHeader(b []byte) error {
	if uint64(len(b)) > uint64(^uint32(0)) {
		return errs.New(errs.KindEncodingInvariant, stagePack, "field of %d bytes exceeds u32 length", len(b))
	}
	if err := p.grow(4 + len(b)); err != nil {
		return err
	}
	p.buf = binary.BigEndian.AppendUint32(p.buf, uint32(len(b)))
	p.buf = append(p.buf, b...)
	return nil
}

// TakeBytes finalizes the packer. For header packers the first four bytes
// are set to the length of everything after them. The packer is unusable
// afterwards.
func (p *Packer) TakeBytes() ([]byte, error) {
	if p.taken {
		return nil, errs.New(errs.KindEncodingInvariant, stagePack, "take_bytes called twice")
	}
	p.taken = true

	if p.hasHeader {
		binary.BigEndian.PutUint32(p.buf[:HeaderLen], uint32(len(p.buf)-HeaderLen))
	}
	out := p.buf
	p.buf = nil
	return out, nil
}
