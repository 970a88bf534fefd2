package message

import (
	"github.com/abcfe/avax-types/common/errs"
)

// Op names as they appear in the type registry.
const (
	// Handshake
	OpGetVersion  = "get_version"
	OpGetPeerList = "get_peerlist"
	OpPing        = "ping"
	OpPong        = "pong"

	// Bootstrapping
	OpGetAcceptedFrontier = "get_accepted_frontier"
	OpAcceptedFrontier    = "accepted_frontier"
	OpGetAccepted         = "get_accepted"
	OpAccepted            = "accepted"
	OpGetAncestors        = "get_ancestors"
	OpAncestors           = "ancestors"

	// Consensus
	OpGet       = "get"
	OpPut       = "put"
	OpPushQuery = "push_query"
	OpPullQuery = "pull_query"
	OpChits     = "chits"

	// Peer gossiping
	OpPeerList = "peerlist"
	OpVersion  = "version"

	// Application level
	OpAppRequest  = "app_request"
	OpAppResponse = "app_response"
	OpAppGossip   = "app_gossip"

	// State sync
	OpGetStateSummaryFrontier = "get_state_summary_frontier"
	OpStateSummaryFrontier    = "state_summary_frontier"
	OpGetAcceptedStateSummary = "get_accepted_state_summary"
	OpAcceptedStateSummary    = "accepted_state_summary"
)

// Type codes are part of the wire contract: never renumber or reuse one.
// Gaps (1, 3, 17) are retired codes.
var types = map[string]byte{
	OpGetVersion:  0,
	OpGetPeerList: 2,
	OpPing:        4,
	OpPong:        5,

	OpGetAcceptedFrontier: 6,
	OpAcceptedFrontier:    7,
	OpGetAccepted:         8,
	OpAccepted:            9,
	OpGetAncestors:        10,
	OpAncestors:           11,

	OpGet:       12,
	OpPut:       13,
	OpPushQuery: 14,
	OpPullQuery: 15,
	OpChits:     16,

	OpPeerList: 18,
	OpVersion:  19,

	OpAppRequest:  20,
	OpAppResponse: 21,
	OpAppGossip:   22,

	OpGetStateSummaryFrontier: 23,
	OpStateSummaryFrontier:    24,
	OpGetAcceptedStateSummary: 25,
	OpAcceptedStateSummary:    26,
}

var typeNames = func() map[byte]string {
	m := make(map[byte]string, len(types))
	for name, code := range types {
		m[code] = name
	}
	return m
}()

// TypeCode looks up the wire code for a message kind.
func TypeCode(name string) (byte, error) {
	code, ok := types[name]
	if !ok {
		return 0, errs.New(errs.KindUnknownType, "type lookup", "unknown type name %q", name)
	}
	return code, nil
}

// TypeName is the reverse of TypeCode.
func TypeName(code byte) (string, error) {
	name, ok := typeNames[code]
	if !ok {
		return "", errs.New(errs.KindUnknownType, "type lookup", "unknown type code 0x%02x", code)
	}
	return name, nil
}
