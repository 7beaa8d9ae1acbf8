package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// hasherPool holds HMAC-SHA256 instances keyed with the request integrity
// key. InitHasherPool must run before Hash is called.
var hasherPool sync.Pool

// InitHasherPool (re)keys the pool. Instances created with a previous key
// are dropped along with the old pool.
func InitHasherPool(hashKey string) {
	key := []byte(hashKey)
	hasherPool = sync.Pool{
		New: func() any {
			return hmac.New(sha256.New, key)
		},
	}
}

// Hash returns the HMAC-SHA256 of data under the pool key.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	defer hasherPool.Put(h)

	h.Reset()
	h.Write(data)
	return h.Sum(nil)
}

// HashHex is Hash encoded as lowercase hex, the form carried in the
// HashSHA256 header.
func HashHex(data []byte) string {
	return hex.EncodeToString(Hash(data))
}
