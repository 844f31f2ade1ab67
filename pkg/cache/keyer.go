package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// FrameKeyOpts are the render options that change a frame artifact.
type FrameKeyOpts struct {
	Format   string
	Detailed bool
}

// Keyer generates cache keys.
type Keyer interface {
	// FrameKey identifies the rendered artifact of one frame of the sequence
	// whose content hash is seqHash.
	FrameKey(seqHash string, index int, opts FrameKeyOpts) string
}

// DefaultKeyer builds keys of the form frame:<index>:<digest>, where the
// digest covers the sequence hash and the render options. Keys for the same
// frame index share a prefix, which keeps them readable in redis-cli.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey implements Keyer.
func (DefaultKeyer) FrameKey(seqHash string, index int, opts FrameKeyOpts) string {
	opt := "plain"
	if opts.Detailed {
		opt = "detailed"
	}
	digest := Hash([]byte(seqHash + "\x00" + opts.Format + "\x00" + opt))
	return "frame:" + strconv.Itoa(index) + ":" + digest
}

// Hash returns the hex SHA-256 of data. Frame files are identified by the
// hash of their bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one Redis without colliding.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(seqHash string, index int, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(seqHash, index, opts)
}
