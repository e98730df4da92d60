package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// VerdictKey generates a cache key for one classified input. The key
// covers both the normalized text and the configuration fingerprint so
// verdicts from different configurations never collide. Benchmark
// corpora repeat prompts heavily, which is what makes this worth doing.
func VerdictKey(normalizedText, configFingerprint string) string {
	hash := sha256.Sum256([]byte(configFingerprint + "\x00" + normalizedText))
	return "vigil:verdict:v1:" + hex.EncodeToString(hash[:])
}

// ResultKey generates a cache key for a full evaluation outcome vector,
// keyed by corpus content hash and configuration fingerprint. Ablation
// runs re-evaluate the same corpus under many configurations; cached
// vectors let unchanged configurations skip recomputation.
func ResultKey(corpusHash, configFingerprint string) string {
	hash := sha256.Sum256([]byte(configFingerprint + "\x00" + corpusHash))
	return "vigil:result:v1:" + hex.EncodeToString(hash[:])
}

// CorpusHash fingerprints corpus content for result cache keys
func CorpusHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
