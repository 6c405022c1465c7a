package password

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedDigest is returned for digest algorithm names other
	// than sha256 and sha512, before any hashing happens.
	ErrUnsupportedDigest = errors.New("unsupported digest algorithm")
	// ErrMalformedHash is returned when an encoded hash cannot be
	// parsed back into its parameters.
	ErrMalformedHash = errors.New("malformed password hash")
)

const (
	digestPrefix       = "pfd"
	defaultSaltLength  = 16
	defaultMinIterates = 8192
	defaultIterateBand = 4096
)

// TokenSource supplies the salt characters and the iteration-count
// jitter; *random.Sampler satisfies it.
type TokenSource interface {
	Int(min, max int) (int, error)
	Token(length int, pattern string) (string, error)
}

// DigestConfig configures the iterated-digest scheme.
type DigestConfig struct {
	// Algorithm names the underlying digest: "sha256" or "sha512".
	Algorithm string
	// SaltLength is the salt size in characters. Defaults to 16.
	SaltLength int
	// MinIterations is the lower bound of the iteration count.
	// Defaults to 8192.
	MinIterations int
	// IterationBand is the width of the random band added on top of
	// MinIterations per hash. Defaults to 4096.
	IterationBand int
}

// Digest hashes passwords by salting and repeatedly folding a standard
// digest over its own output. The iteration count is drawn per hash
// from [MinIterations, MinIterations+IterationBand] and recorded in the
// encoded result.
type Digest struct {
	cfg    DigestConfig
	newSum func() hash.Hash
	src    TokenSource
}

// NewDigest validates the configuration and binds the scheme to a
// token source for salts and iteration jitter.
func NewDigest(cfg DigestConfig, src TokenSource) (*Digest, error) {
	if src == nil {
		return nil, errors.New("digest scheme requires a token source")
	}
	if cfg.SaltLength <= 0 {
		cfg.SaltLength = defaultSaltLength
	}
	if cfg.MinIterations <= 0 {
		cfg.MinIterations = defaultMinIterates
	}
	if cfg.IterationBand < 0 {
		cfg.IterationBand = defaultIterateBand
	}

	newSum, err := digestFactory(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	return &Digest{cfg: cfg, newSum: newSum, src: src}, nil
}

func digestFactory(name string) (func() hash.Hash, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sha256":
		return sha256.New, nil
	case "sha512":
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDigest, name)
	}
}

func algorithmName(name string) string {
	if strings.EqualFold(strings.TrimSpace(name), "sha512") {
		return "sha512"
	}
	return "sha256"
}

// Hash returns the encoded hash of password:
//
//	$pfd$<alg>$t=<iterations>$<salt>$<hex digest>
func (d *Digest) Hash(password string) (string, error) {
	salt, err := d.src.Token(d.cfg.SaltLength, "")
	if err != nil {
		return "", err
	}

	iterations := d.cfg.MinIterations
	if d.cfg.IterationBand > 0 {
		jitter, err := d.src.Int(0, d.cfg.IterationBand)
		if err != nil {
			return "", err
		}
		iterations += jitter
	}

	sum := d.fold(password, salt, iterations)
	return fmt.Sprintf("$%s$%s$t=%d$%s$%s",
		digestPrefix, algorithmName(d.cfg.Algorithm), iterations, salt, hex.EncodeToString(sum)), nil
}

// Verify reports whether password matches the encoded hash. The
// comparison is constant time over the digest bytes.
func (d *Digest) Verify(password, encoded string) (bool, error) {
	alg, iterations, salt, want, err := parseDigestHash(encoded)
	if err != nil {
		return false, err
	}
	newSum, err := digestFactory(alg)
	if err != nil {
		return false, err
	}
	got := fold(newSum, password, salt, iterations)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func (d *Digest) fold(password, salt string, iterations int) []byte {
	return fold(d.newSum, password, salt, iterations)
}

func fold(newSum func() hash.Hash, password, salt string, iterations int) []byte {
	h := newSum()
	h.Write([]byte(salt))
	h.Write([]byte(password))
	sum := h.Sum(nil)
	for range iterations {
		h.Reset()
		h.Write(sum)
		sum = h.Sum(nil)
	}
	return sum
}

func parseDigestHash(encoded string) (alg string, iterations int, salt string, sum []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != digestPrefix {
		return "", 0, "", nil, fmt.Errorf("%w: wrong field count or prefix", ErrMalformedHash)
	}

	alg = parts[2]
	iterField, found := strings.CutPrefix(parts[3], "t=")
	if !found {
		return "", 0, "", nil, fmt.Errorf("%w: missing iteration field", ErrMalformedHash)
	}
	iterations, err = strconv.Atoi(iterField)
	if err != nil || iterations < 1 {
		return "", 0, "", nil, fmt.Errorf("%w: bad iteration count", ErrMalformedHash)
	}

	salt = parts[4]
	if salt == "" {
		return "", 0, "", nil, fmt.Errorf("%w: empty salt", ErrMalformedHash)
	}
	sum, err = hex.DecodeString(parts[5])
	if err != nil || len(sum) == 0 {
		return "", 0, "", nil, fmt.Errorf("%w: bad digest encoding", ErrMalformedHash)
	}
	return alg, iterations, salt, sum, nil
}
