package rest

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abcfe/avax-types/common/crypto"
	"github.com/abcfe/avax-types/common/errs"
	"github.com/abcfe/avax-types/common/utils"
	"github.com/abcfe/avax-types/key"
	"github.com/abcfe/avax-types/key/custody"
	"github.com/abcfe/avax-types/message"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/abcfe/avax-types/storage"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// get home response
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	info := map[string]string{
		"name":    "avax-types signer API",
		"version": "1.0.0",
	}
	sendResp(w, http.StatusOK, info, nil)
}

// GetStatus reports the network and the signer ids served
func GetStatus(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sendResp(w, http.StatusOK, s.status(), nil)
	}
}

// GetCustodyPublicKey returns the DER SubjectPublicKeyInfo of a signer.
func GetCustodyPublicKey(signers map[string]key.Signer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req custody.PublicKeyReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendResp(w, http.StatusBadRequest, nil, fmt.Errorf("invalid request body: %v", err))
			return
		}

		signer, ok := signers[req.KeyID]
		if !ok {
			sendResp(w, http.StatusNotFound, nil, fmt.Errorf("unknown key %q", req.KeyID))
			return
		}

		der, err := crypto.MarshalPublicKeyDER(signer.PublicKey().BTCEC())
		if err != nil {
			sendResp(w, http.StatusInternalServerError, nil, err)
			return
		}

		sendResp(w, http.StatusOK, custody.PublicKeyResp{
			KeyID:     req.KeyID,
			PublicKey: hex.EncodeToString(der),
		}, nil)
	}
}

// SignCustodyDigest signs a 32-byte digest and returns a DER signature,
// matching what hosted custody services return.
func SignCustodyDigest(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req custody.SignReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendResp(w, http.StatusBadRequest, nil, fmt.Errorf("invalid request body: %v", err))
			return
		}

		signer, ok := s.signers[req.KeyID]
		if !ok {
			sendResp(w, http.StatusNotFound, nil, fmt.Errorf("unknown key %q", req.KeyID))
			return
		}

		digest, err := utils.HexToDigest(req.Digest)
		if err != nil {
			sendResp(w, http.StatusBadRequest, nil, err)
			return
		}

		event := SignEvent{KeyID: req.KeyID, Digest: hex.EncodeToString(digest)}
		sig, err := signer.SignDigest(r.Context(), digest)
		if err != nil {
			event.Error = err.Error()
			s.hub.Publish(EventSigningFailed, event)
			sendResp(w, statusFor(err), nil, err)
			return
		}

		event.Signature = hex.EncodeToString(sig.Bytes())
		s.hub.Publish(EventDigestSigned, event)

		sendResp(w, http.StatusOK, custody.SignResp{
			KeyID:     req.KeyID,
			Signature: hex.EncodeToString(sig.DER()),
		}, nil)
	}
}

// GetKeys lists stored key records
func GetKeys(store *storage.KeyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			sendResp(w, http.StatusInternalServerError, nil, fmt.Errorf("key store not initialized"))
			return
		}

		infos, err := store.List()
		if err != nil {
			sendResp(w, http.StatusInternalServerError, nil, err)
			return
		}
		if infos == nil {
			infos = []*key.Info{}
		}
		sendResp(w, http.StatusOK, infos, nil)
	}
}

// GetKey gets one key record by eth address
func GetKey(store *storage.KeyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			sendResp(w, http.StatusInternalServerError, nil, fmt.Errorf("key store not initialized"))
			return
		}

		addr, err := utils.StringToEthAddress(mux.Vars(r)["address"])
		if err != nil {
			sendResp(w, http.StatusBadRequest, nil, err)
			return
		}

		info, err := store.Get(addr)
		if err != nil {
			sendResp(w, statusFor(err), nil, err)
			return
		}
		sendResp(w, http.StatusOK, info, nil)
	}
}

// ParseAddress decodes a bech32 address ("X-avax1...") or checksums a hex one.
// Optional query: alias=X
func ParseAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := mux.Vars(r)["address"]

		if strings.HasPrefix(address, crypto.HexPrefix) {
			if _, err := utils.StringToEthAddress(address); err != nil {
				sendResp(w, http.StatusBadRequest, nil, err)
				return
			}
			sendResp(w, http.StatusOK, AddressResp{
				Address:   address,
				EthFormat: crypto.HexPrefix + crypto.EthChecksum(address),
			}, nil)
			return
		}

		alias := r.URL.Query().Get("alias")
		if alias == "" {
			if i := strings.Index(address, "-"); i > 0 {
				alias = address[:i]
			}
		}

		hrp, short, err := crypto.AvaxAddressToShortBytes(alias, address)
		if err != nil {
			sendResp(w, statusFor(err), nil, err)
			return
		}
		shortID, err := prt.ToShortID(short)
		if err != nil {
			sendResp(w, http.StatusBadRequest, nil, err)
			return
		}

		sendResp(w, http.StatusOK, AddressResp{
			Address:  address,
			ChainHRP: hrp,
			ShortID:  shortID.String(),
			ShortHex: hex.EncodeToString(short),
		}, nil)
	}
}

// EncodeMessage serializes an outbound wire message
func EncodeMessage(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EncodeMsgReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendResp(w, http.StatusBadRequest, nil, fmt.Errorf("invalid request body: %v", err))
			return
		}

		msg, err := buildMessage(&req)
		if err != nil {
			sendResp(w, statusFor(err), nil, err)
			return
		}

		b, err := msg.SerializeWithHeader()
		if err != nil {
			sendResp(w, statusFor(err), nil, err)
			return
		}

		s.hub.Publish(EventMessageEncoded, EncodeEvent{Op: msg.Op(), Size: len(b)})

		sendResp(w, http.StatusOK, EncodeMsgResp{
			Op:      msg.Op(),
			Display: fmt.Sprint(msg),
			Bytes:   hex.EncodeToString(b),
		}, nil)
	}
}

func buildMessage(req *EncodeMsgReq) (message.Outbound, error) {
	chainID := prt.EmptyID
	if req.ChainID != "" {
		id, err := prt.IDFromString(req.ChainID)
		if err != nil {
			return nil, errs.Wrap(errs.KindInvalidData, "chain id", err)
		}
		chainID = id
	}

	var deadline time.Duration
	if req.Deadline != "" {
		d, err := time.ParseDuration(req.Deadline)
		if err != nil {
			return nil, errs.Wrap(errs.KindInvalidData, "deadline", err)
		}
		deadline = d
	}

	var payload []byte
	if req.Payload != "" {
		b, err := utils.HexToBytes(req.Payload)
		if err != nil {
			return nil, errs.Wrap(errs.KindInvalidData, "payload", err)
		}
		payload = b
	}

	return message.Build(req.Op, chainID, req.RequestID, deadline, payload)
}

// statusFor maps error kinds onto HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, storage.ErrKeyNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errs.KindOf(err) {
	case errs.KindInvalidData, errs.KindDecodeFailure, errs.KindUnknownType, errs.KindMissingField:
		return http.StatusBadRequest
	case errs.KindTimeout:
		return http.StatusGatewayTimeout
	case errs.KindRemoteSigning:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// send response
func sendResp(w http.ResponseWriter, statusCode int, data interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := RestResp{
		Success: err == nil,
		Data:    data,
	}

	if err != nil {
		response.Error = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
