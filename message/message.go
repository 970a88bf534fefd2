// Package message defines the peer-to-peer messages and their wire encoding:
//
//	[u32 total length][u8 type code][u8 compressed][fixed fields][u32 len][payload]...
//
// All integers are big-endian and the leading length counts every byte after it.
package message

import (
	"github.com/abcfe/avax-types/common/packer"
)

// Outbound is a message that can be written to a peer.
type Outbound interface {
	Op() string
	SerializeWithHeader() ([]byte, error)
}

// Compressor declares whether a message's payload may be compressed.
type Compressor interface {
	Compressible() bool
}

// writer keeps the first packer error so field writes read in wire order.
type writer struct {
	p   *packer.Packer
	err error
}

// newWriter stamps the type code and compression flag.
func newWriter(op string, compressible bool) *writer {
	w := &writer{}
	code, err := TypeCode(op)
	if err != nil {
		w.err = err
		return w
	}
	w.p = packer.NewWithHeader()
	w.u8(code)
	w.flag(compressible)
	return w
}

func (w *writer) u8(b byte) {
	if w.err == nil {
		w.err = w.p.PackByte(b)
	}
}

func (w *writer) flag(b bool) {
	if w.err == nil {
		w.err = w.p.PackBool(b)
	}
}

func (w *writer) u32(n uint32) {
	if w.err == nil {
		w.err = w.p.PackU32(n)
	}
}

func (w *writer) u64(n uint64) {
	if w.err == nil {
		w.err = w.p.PackU64(n)
	}
}

func (w *writer) fixed(b []byte) {
	if w.err == nil {
		w.err = w.p.PackBytes(b)
	}
}

func (w *writer) bytes(b []byte) {
	if w.err == nil {
		w.err = w.p.PackBytesWithHeader(b)
	}
}

func (w *writer) take() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.p.TakeBytes()
}
