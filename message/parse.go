package message

import (
	"github.com/abcfe/avax-types/common/errs"
	"github.com/abcfe/avax-types/common/packer"
	prt "github.com/abcfe/avax-types/protocol"
)

const stageParse = "message parse"

// reader mirrors writer: the first unpack error wins.
type reader struct {
	u   *packer.Unpacker
	err error
}

func (r *reader) u32() uint32 {
	if r.err != nil {
		return 0
	}
	var n uint32
	n, r.err = r.u.UnpackU32()
	return n
}

func (r *reader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	var n uint64
	n, r.err = r.u.UnpackU64()
	return n
}

func (r *reader) id() prt.ID {
	var id prt.ID
	if r.err != nil {
		return id
	}
	var b []byte
	if b, r.err = r.u.UnpackFixedBytes(prt.IDLen); r.err == nil {
		copy(id[:], b)
	}
	return id
}

func (r *reader) bytes() []byte {
	if r.err != nil {
		return nil
	}
	var b []byte
	b, r.err = r.u.UnpackBytesWithHeader()
	return b
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	return r.u.Done()
}

type decodeFunc func(r *reader) Outbound

var decoders = map[string]decodeFunc{
	OpAppRequest: func(r *reader) Outbound {
		return &AppRequest{ChainID: r.id(), RequestID: r.u32(), Deadline: r.u64(), AppBytes: r.bytes()}
	},
	OpAppResponse: func(r *reader) Outbound {
		return &AppResponse{ChainID: r.id(), RequestID: r.u32(), AppBytes: r.bytes()}
	},
	OpAppGossip: func(r *reader) Outbound {
		return &AppGossip{ChainID: r.id(), AppBytes: r.bytes()}
	},
	OpGetStateSummaryFrontier: func(r *reader) Outbound {
		return &GetStateSummaryFrontier{ChainID: r.id(), RequestID: r.u32(), Deadline: r.u64()}
	},
	OpStateSummaryFrontier: func(r *reader) Outbound {
		return &StateSummaryFrontier{ChainID: r.id(), RequestID: r.u32(), Summary: r.bytes()}
	},
}

// Parse decodes a full frame produced by SerializeWithHeader. Registered
// kinds without a decoder here are reported as KindUnknownType.
func Parse(b []byte) (Outbound, error) {
	u, err := packer.NewUnpackerWithHeader(b)
	if err != nil {
		return nil, errs.Wrap(errs.KindDecodeFailure, stageParse, err)
	}
	code, err := u.UnpackByte()
	if err != nil {
		return nil, errs.Wrap(errs.KindDecodeFailure, stageParse, err)
	}
	name, err := TypeName(code)
	if err != nil {
		return nil, err
	}
	decode, ok := decoders[name]
	if !ok {
		return nil, errs.New(errs.KindUnknownType, stageParse, "no decoder for %s", name)
	}
	compressed, err := u.UnpackBool()
	if err != nil {
		return nil, errs.Wrap(errs.KindDecodeFailure, stageParse, err)
	}
	if compressed {
		return nil, errs.New(errs.KindDecodeFailure, stageParse, "compressed %s payloads are not supported", name)
	}

	r := &reader{u: u}
	msg := decode(r)
	if err := r.done(); err != nil {
		return nil, errs.Wrap(errs.KindDecodeFailure, stageParse, err)
	}
	return msg, nil
}
