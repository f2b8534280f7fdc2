package index

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/jonwraymond/apicatalog/catalog"
)

// computeFingerprint generates a stable hash of the entry slice.
// It changes whenever an indexed field or the entry order changes, which lets
// downstream caches detect a rebuilt catalog.
func computeFingerprint(entries []catalog.Entry) string {
	h := sha256.New()

	for _, e := range entries {
		h.Write([]byte(e.Name))
		h.Write([]byte{0}) // separator
		h.Write([]byte(e.Domain))
		h.Write([]byte{0})
		h.Write([]byte(e.Resource))
		h.Write([]byte{0})
		h.Write([]byte(e.Operation))
		h.Write([]byte{0})
		h.Write([]byte(e.Summary))
		h.Write([]byte{0})
		h.Write([]byte(e.DangerLevel))
		h.Write([]byte{1}) // entry boundary
	}

	return hex.EncodeToString(h.Sum(nil))
}
