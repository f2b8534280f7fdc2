package search

import (
	"crypto/sha256"
	"encoding/hex"
)

// computeFingerprint generates a stable hash of the document slice.
// The fingerprint changes when indexed content or order changes, enabling
// efficient cache invalidation for the bleve index.
func computeFingerprint(docs []document) string {
	h := sha256.New()

	for _, d := range docs {
		h.Write([]byte(d.entry.Name))
		h.Write([]byte{0}) // separator
		h.Write([]byte(d.name))
		h.Write([]byte{0})
		h.Write([]byte(d.domain))
		h.Write([]byte{0})
		h.Write([]byte(d.resource))
		h.Write([]byte{0})
		h.Write([]byte(d.operation))
		h.Write([]byte{0})
		h.Write([]byte(d.text))
		h.Write([]byte{0})
		h.Write([]byte(d.tags))
		h.Write([]byte{1}) // document boundary
	}

	return hex.EncodeToString(h.Sum(nil))
}
