// ABOUTME: Keys for the in-flight request registry
// ABOUTME: Identical concurrent calls map to the same key and share one request

package client

import (
	"crypto/sha256"
	"encoding/hex"
)

// requestKey identifies a call by method, resource and body. Calls with
// different bodies against the same resource are never merged.
func requestKey(method, target string, body []byte) string {
	key := method + " " + target
	if len(body) > 0 {
		sum := sha256.Sum256(body)
		key += " " + hex.EncodeToString(sum[:8])
	}
	return key
}
