package backup

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// Checksum hashes the canonical JSON serialization of the payload with
// FNV-1a. The contract is reproducibility, not cryptographic strength: the
// same data always hashes the same, and any field change moves the hash.
// encoding/json is deterministic for this struct (fixed field order, sorted
// map keys), which makes the serialization canonical.
func Checksum(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("Checksum: marshal payload: %w", err)
	}

	h := fnv.New64a()
	h.Write(raw)
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
