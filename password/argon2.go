package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedPHC is returned when an argon2 hash string cannot be
// parsed.
var ErrMalformedPHC = errors.New("malformed PHC hash")

const (
	argonID        = "argon2id"
	minMemoryKB    = uint32(8 * 1024)
	minSaltBytes   = uint32(16)
	minKeyBytes    = uint32(16)
	minParallelism = uint8(1)
)

// Argon2Params are the argon2id cost parameters baked into every hash.
type Argon2Params struct {
	Memory      uint32 // KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns a moderate interactive-login profile.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Time:        2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2 hashes passwords with argon2id and encodes the result in PHC
// format, so Verify needs no configuration beyond the hash itself.
type Argon2 struct {
	params Argon2Params
}

// NewArgon2 validates the cost parameters and returns the hasher.
func NewArgon2(params Argon2Params) (*Argon2, error) {
	switch {
	case params.Memory < minMemoryKB:
		return nil, fmt.Errorf("argon2 memory must be >= %d KB", minMemoryKB)
	case params.Time < 1:
		return nil, errors.New("argon2 time cost must be >= 1")
	case params.Parallelism < minParallelism:
		return nil, errors.New("argon2 parallelism must be >= 1")
	case params.SaltLength < minSaltBytes:
		return nil, fmt.Errorf("argon2 salt length must be >= %d", minSaltBytes)
	case params.KeyLength < minKeyBytes:
		return nil, fmt.Errorf("argon2 key length must be >= %d", minKeyBytes)
	}
	return &Argon2{params: params}, nil
}

// Hash derives an argon2id key under a fresh random salt and returns
// the PHC-encoded result.
func (a *Argon2) Hash(password string) (string, error) {
	salt := make([]byte, a.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt,
		a.params.Time, a.params.Memory, a.params.Parallelism, a.params.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argonID, argon2.Version,
		a.params.Memory, a.params.Time, a.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify recomputes the key under the parameters recorded in encoded
// and compares in constant time.
func (a *Argon2) Verify(password, encoded string) (bool, error) {
	params, salt, want, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt,
		params.Time, params.Memory, params.Parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// NeedsRehash reports whether encoded was produced under weaker cost
// parameters than the hasher is configured with.
func (a *Argon2) NeedsRehash(encoded string) (bool, error) {
	params, _, key, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	return params.Memory < a.params.Memory ||
		params.Time < a.params.Time ||
		params.Parallelism < a.params.Parallelism ||
		uint32(len(key)) != a.params.KeyLength, nil
}

func parsePHC(encoded string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return params, nil, nil, fmt.Errorf("%w: wrong field count", ErrMalformedPHC)
	}
	if parts[1] != argonID {
		return params, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedPHC, parts[1])
	}

	versionField, found := strings.CutPrefix(parts[2], "v=")
	if !found {
		return params, nil, nil, fmt.Errorf("%w: missing version", ErrMalformedPHC)
	}
	version, err := strconv.Atoi(versionField)
	if err != nil || version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: unsupported argon2 version", ErrMalformedPHC)
	}

	for pair := range strings.SplitSeq(parts[3], ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return params, nil, nil, fmt.Errorf("%w: bad parameter %q", ErrMalformedPHC, pair)
		}
		switch key {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return params, nil, nil, fmt.Errorf("%w: bad memory", ErrMalformedPHC)
			}
			params.Memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return params, nil, nil, fmt.Errorf("%w: bad time", ErrMalformedPHC)
			}
			params.Time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil {
				return params, nil, nil, fmt.Errorf("%w: bad parallelism", ErrMalformedPHC)
			}
			params.Parallelism = uint8(v)
		default:
			return params, nil, nil, fmt.Errorf("%w: unknown parameter %q", ErrMalformedPHC, key)
		}
	}
	if params.Memory == 0 || params.Time == 0 || params.Parallelism == 0 {
		return params, nil, nil, fmt.Errorf("%w: missing cost parameters", ErrMalformedPHC)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, fmt.Errorf("%w: bad salt", ErrMalformedPHC)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, fmt.Errorf("%w: bad key", ErrMalformedPHC)
	}
	return params, salt, key, nil
}
