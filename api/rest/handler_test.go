package rest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abcfe/avax-types/common/crypto"
	"github.com/abcfe/avax-types/common/errs"
	"github.com/abcfe/avax-types/key"
	"github.com/abcfe/avax-types/key/custody"
	prt "github.com/abcfe/avax-types/protocol"
	"github.com/abcfe/avax-types/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ewoqHex   = "56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027"
	testToken = "test-token"
)

func newTestServer(t *testing.T) (*httptest.Server, *key.LocalKey, *storage.KeyStore) {
	local, err := key.FromHex(ewoqHex)
	require.NoError(t, err)

	db, err := storage.InitMemDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := storage.NewKeyStore(db)

	s := NewServer("127.0.0.1", 0, prt.MainnetID, map[string]key.Signer{"ewoq": local}, store)
	s.SetAuthToken(testToken)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, local, store
}

func getJSON(t *testing.T, url string, out interface{}) int {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	return decodeResp(t, res, out)
}

func postJSON(t *testing.T, url string, in, out interface{}) int {
	return postWithAuth(t, url, "Bearer "+testToken, in, out)
}

// postWithAuth sends auth verbatim as the Authorization header, or none
// when empty.
func postWithAuth(t *testing.T, url, auth string, in, out interface{}) int {
	body, err := json.Marshal(in)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	return decodeResp(t, res, out)
}

func decodeResp(t *testing.T, res *http.Response, out interface{}) int {
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	if out != nil && env.Success {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return res.StatusCode
}

func TestCustodyRoundTripThroughREST(t *testing.T) {
	srv, local, _ := newTestServer(t)

	remote, err := custody.New(context.Background(), custody.NewHTTPClient(srv.URL, testToken, nil), "ewoq")
	require.NoError(t, err)
	assert.Equal(t, "0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC", remote.PublicKey().EthAddressString())
	assert.True(t, remote.PublicKey().Equal(local.PublicKey()))

	digest := sha256.Sum256([]byte("through the wire"))
	sig, err := remote.SignDigest(context.Background(), digest[:])
	require.NoError(t, err)
	pub, err := crypto.RecoverPublicKey(sig, digest[:])
	require.NoError(t, err)
	assert.True(t, pub.IsEqual(local.PublicKey().BTCEC()))

	// local and remote produce the same deterministic signature
	localSig, err := local.SignDigest(context.Background(), digest[:])
	require.NoError(t, err)
	assert.Equal(t, localSig, sig)
}

func TestCustodyErrors(t *testing.T) {
	srv, _, _ := newTestServer(t)

	status := postJSON(t, srv.URL+custody.PathPublicKey, custody.PublicKeyReq{KeyID: "missing"}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = postJSON(t, srv.URL+custody.PathSign, custody.SignReq{KeyID: "ewoq", Digest: "abcd"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCustodyRequiresToken(t *testing.T) {
	srv, _, _ := newTestServer(t)
	digest := sha256.Sum256([]byte("unauthenticated"))
	req := custody.SignReq{KeyID: "ewoq", Digest: hex.EncodeToString(digest[:])}

	assert.Equal(t, http.StatusUnauthorized, postWithAuth(t, srv.URL+custody.PathSign, "", req, nil))
	assert.Equal(t, http.StatusUnauthorized, postWithAuth(t, srv.URL+custody.PathSign, "Bearer wrong", req, nil))
	assert.Equal(t, http.StatusUnauthorized, postWithAuth(t, srv.URL+custody.PathSign, testToken, req, nil))
	assert.Equal(t, http.StatusUnauthorized, postWithAuth(t, srv.URL+custody.PathPublicKey, "",
		custody.PublicKeyReq{KeyID: "ewoq"}, nil))

	var resp custody.SignResp
	assert.Equal(t, http.StatusOK, postJSON(t, srv.URL+custody.PathSign, req, &resp))
	assert.NotEmpty(t, resp.Signature)

	// the rest of the API is not behind the token
	var status StatusResp
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/status", &status))
}

func TestCustodyClosedWithoutToken(t *testing.T) {
	local, err := key.FromHex(ewoqHex)
	require.NoError(t, err)
	db, err := storage.InitMemDB()
	require.NoError(t, err)
	defer db.Close()

	s := NewServer("127.0.0.1", 0, prt.MainnetID, map[string]key.Signer{"ewoq": local}, storage.NewKeyStore(db))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	digest := sha256.Sum256([]byte("no token configured"))
	req := custody.SignReq{KeyID: "ewoq", Digest: hex.EncodeToString(digest[:])}
	assert.Equal(t, http.StatusForbidden, postWithAuth(t, srv.URL+custody.PathSign, "", req, nil))
	assert.Equal(t, http.StatusForbidden, postWithAuth(t, srv.URL+custody.PathSign, "Bearer ", req, nil))

	_, err = custody.New(context.Background(), custody.NewHTTPClient(srv.URL, "", nil), "ewoq")
	assert.True(t, errs.Is(err, errs.KindRemoteSigning))
}

func TestKeysEndpoints(t *testing.T) {
	srv, local, store := newTestServer(t)

	var infos []*key.Info
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/keys", &infos))
	assert.Empty(t, infos)

	info, err := local.Info(prt.MainnetID)
	require.NoError(t, err)
	require.NoError(t, store.Put(info))

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/keys", &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, info.XAddress, infos[0].XAddress)

	var got key.Info
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/keys/"+info.EthAddress, &got))
	assert.Equal(t, *info, got)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/v1/keys/0x0000000000000000000000000000000000000001", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v1/keys/0x12", nil))
}

func TestParseAddressEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var resp AddressResp
	status := getJSON(t, srv.URL+"/api/v1/address/X-avax18jma8ppw3nhx5r4ap8clazz0dps7rv5ukulre5", &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "avax", resp.ChainHRP)
	assert.Equal(t, "3cb7d3842e8cee6a0ebd09f1fe884f6861e1b29c", resp.ShortHex)

	status = getJSON(t, srv.URL+"/api/v1/address/0x8db97c7cece249c2b98bdc0226cc4c2a57bf52fc", &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC", resp.EthFormat)

	status = getJSON(t, srv.URL+"/api/v1/address/X-avax18jma8ppw3nhx5r4ap8clazz0dps7rv5ukulre6", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEncodeMessageEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var resp EncodeMsgResp
	status := postJSON(t, srv.URL+"/api/v1/message/encode", EncodeMsgReq{
		Op:        "app_response",
		RequestID: 7,
		Payload:   "0x01020304",
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t,
		"0000002e1500"+
			"0000000000000000000000000000000000000000000000000000000000000000"+
			"00000007"+"0000000401020304",
		resp.Bytes)
	assert.Contains(t, resp.Display, "msg app_response")

	status = postJSON(t, srv.URL+"/api/v1/message/encode", EncodeMsgReq{Op: "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStatusEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var resp StatusResp
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/status", &resp))
	assert.Equal(t, prt.MainnetID, resp.NetworkID)
	assert.Equal(t, "avax", resp.HRP)
	assert.Equal(t, []string{"ewoq"}, resp.Signers)
}
