package receipt

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// #region canonical
// Canonical returns the RFC 8785 encoding of r with the digest field zeroed.
// Key order in the source has no effect on the output.
func Canonical(r Receipt) ([]byte, error) {
	r.Stamp.Digest = ""
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("receipt: marshal: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("receipt: canonicalize: %w", err)
	}
	return out, nil
}

// #endregion canonical

// #region digest
// Digest returns the hex SHA-256 of Canonical(r).
func Digest(r Receipt) (string, error) {
	b, err := Canonical(r)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Seal returns r with Stamp.Digest set.
func Seal(r Receipt) (Receipt, error) {
	d, err := Digest(r)
	if err != nil {
		return Receipt{}, err
	}
	r.Stamp.Digest = d
	return r, nil
}

// Verify reports whether r's stored digest matches its content.
func Verify(r Receipt) (bool, error) {
	d, err := Digest(r)
	if err != nil {
		return false, err
	}
	return d == r.Stamp.Digest, nil
}

// #endregion digest
