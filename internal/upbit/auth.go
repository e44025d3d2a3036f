package upbit

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/url"

	"github.com/google/uuid"
)

// authToken builds the JWT bearer token Upbit expects: HS256 over a payload
// of access key, a one-time nonce and, for parameterized requests, a SHA512
// hash of the encoded query string.
func (c *Client) authToken(params url.Values) (string, error) {
	payload := map[string]string{
		"access_key": c.accessKey,
		"nonce":      uuid.NewString(),
	}

	if len(params) > 0 {
		sum := sha512.Sum512([]byte(params.Encode()))
		payload["query_hash"] = hex.EncodeToString(sum[:])
		payload["query_hash_alg"] = "SHA512"
	}

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	claims := base64.RawURLEncoding.EncodeToString(body)

	signingInput := header + "." + claims
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(signingInput))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return signingInput + "." + signature, nil
}
