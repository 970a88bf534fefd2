package message

import (
	"time"

	"github.com/abcfe/avax-types/common/errs"
	prt "github.com/abcfe/avax-types/protocol"
)

// Build constructs an outbound variant by op name. Fields a variant does
// not carry are ignored.
func Build(op string, chainID prt.ID, requestID uint32, deadline time.Duration, payload []byte) (Outbound, error) {
	switch op {
	case OpAppRequest:
		return NewAppRequest(chainID, requestID, deadline, payload), nil
	case OpAppResponse:
		return NewAppResponse(chainID, requestID, payload), nil
	case OpAppGossip:
		return NewAppGossip(chainID, payload), nil
	case OpGetStateSummaryFrontier:
		return NewGetStateSummaryFrontier(chainID, requestID, deadline), nil
	case OpStateSummaryFrontier:
		return NewStateSummaryFrontier(chainID, requestID, payload), nil
	}
	if _, err := TypeCode(op); err != nil {
		return nil, err
	}
	return nil, errs.New(errs.KindUnknownType, "message build", "no outbound form for %s", op)
}
