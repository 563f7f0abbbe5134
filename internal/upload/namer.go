package upload

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Naming strategies.
const (
	NamingTimestamp = "timestamp"
	NamingUUID      = "uuid"
	NamingHash      = "hash"
)

// Namer proposes a file name for an upload. attempt is 0 for the first
// proposal and grows by one after every name that was already taken.
type Namer interface {
	Name(ext string, data []byte, attempt int) string
}

// NewNamer returns the namer for a naming strategy.
func NewNamer(naming string) (Namer, error) {
	switch naming {
	case NamingTimestamp, "":
		return TimestampNamer{Now: time.Now}, nil
	case NamingUUID:
		return UUIDNamer{}, nil
	case NamingHash:
		return HashNamer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNaming, naming)
	}
}

// TimestampNamer names files by Unix milliseconds. A taken name moves the
// timestamp forward by one millisecond per attempt.
type TimestampNamer struct {
	Now func() time.Time
}

func (n TimestampNamer) Name(ext string, _ []byte, attempt int) string {
	return strconv.FormatInt(n.Now().UnixMilli()+int64(attempt), 10) + ext
}

// UUIDNamer names files with a random UUID.
type UUIDNamer struct{}

func (UUIDNamer) Name(ext string, _ []byte, _ int) string {
	return uuid.NewString() + ext
}

// HashNamer names files by a BLAKE2b-256 digest of their content, truncated to
// 32 hex characters.
type HashNamer struct{}

func (HashNamer) Name(ext string, data []byte, _ int) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:16]) + ext
}
