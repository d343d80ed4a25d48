package base

import (
	"encoding/hex"
	"fmt"

	"github.com/minio/sha256-simd"
)

// Fingerprint is a sha256 digest, printed as lowercase hex.
type Fingerprint [sha256.Size]byte

func (x Fingerprint) String() string {
	return hex.EncodeToString(x[:])
}

// ShortString keeps the first 8 bytes, enough to tell resources apart in
// generated comments.
func (x Fingerprint) ShortString() string {
	return hex.EncodeToString(x[:8])
}
func (x Fingerprint) Valid() bool {
	return x != Fingerprint{}
}

func (x *Fingerprint) Set(in string) error {
	if len(in) != 2*sha256.Size {
		return fmt.Errorf("fingerprint: expected %d hex digits, got %q", 2*sha256.Size, in)
	}
	_, err := hex.Decode(x[:], UnsafeBytesFromString(in))
	return err
}
func (x Fingerprint) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}
func (x *Fingerprint) UnmarshalText(data []byte) error {
	return x.Set(string(data))
}

// BytesFingerprint is the sha256 of data.
func BytesFingerprint(data []byte) Fingerprint {
	return sha256.Sum256(data)
}
