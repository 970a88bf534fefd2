// Package cb58 implements the base58-with-checksum text form used for
// Avalanche identifiers: base58(data || last 4 bytes of sha256(data)).
package cb58

import (
	"bytes"
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const checksumLen = 4

var ErrBadChecksum = errors.New("cb58: invalid checksum")

func checksum(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[len(h)-checksumLen:]
}

// Encode returns the CB58 form of b.
func Encode(b []byte) string {
	buf := make([]byte, 0, len(b)+checksumLen)
	buf = append(buf, b...)
	buf = append(buf, checksum(b)...)
	return base58.Encode(buf)
}

// Decode parses a CB58 string and verifies its checksum.
func Decode(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "cb58")
	}
	if len(raw) < checksumLen {
		return nil, errors.Errorf("cb58: input too short (%d bytes)", len(raw))
	}
	data, sum := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	if !bytes.Equal(sum, checksum(data)) {
		return nil, ErrBadChecksum
	}
	return data, nil
}
