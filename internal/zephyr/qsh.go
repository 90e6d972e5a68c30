package zephyr

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// signRequest builds the JWT for one request. The qsh (query string
// hash) claim binds the token to the exact method, path, and query, per
// the Atlassian Connect convention Zephyr follows.
func (c *Client) signRequest(method, path string, query url.Values) (string, error) {
	now := c.now().Unix()
	claims := jwt.MapClaims{
		"sub": c.accountID,
		"iss": c.accessKey,
		"iat": now,
		"exp": now + int64(tokenTTL.Seconds()),
		"qsh": canonicalHash(method, path, query),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.secretKey))
}

// canonicalHash is SHA-256 of "METHOD&path&canonicalQuery" where the
// query parameters are sorted by key with percent-encoded values.
func canonicalHash(method, path string, query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		encoded := make([]string, len(values))
		for i, v := range values {
			encoded[i] = url.QueryEscape(v)
		}
		pairs = append(pairs, url.QueryEscape(k)+"="+strings.Join(encoded, ","))
	}

	canonical := strings.ToUpper(method) + "&" + path + "&" + strings.Join(pairs, "&")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
