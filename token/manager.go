// Package token issues and verifies the signed, expiring tokens that
// accompany generated passwords: reset links, one-time delivery
// receipts, and similar short-lived proofs. Tokens are standard JWTs so
// downstream services can verify them without importing passforge.
package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when a token fails signature or
	// claim validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for structurally valid tokens past
	// their expiry.
	ErrExpiredToken = errors.New("expired token")
)

// SigningMethod selects the signature algorithm.
type SigningMethod string

const (
	// MethodEd25519 signs with an Ed25519 key pair (default).
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs with a shared HMAC secret.
	MethodHS256 SigningMethod = "hs256"
)

// Config configures a token Manager.
type Config struct {
	// TTL is the token lifetime. Must be positive.
	TTL time.Duration
	// SigningMethod defaults to ed25519.
	SigningMethod SigningMethod
	// PrivateKey is the ed25519 seed or private key, or the HMAC
	// secret for hs256. For ed25519, leaving both keys empty generates
	// a fresh key pair at construction.
	PrivateKey []byte
	// PublicKey is the ed25519 verification key.
	PublicKey []byte
	// Issuer is stamped into every token.
	Issuer string
	// Leeway tolerated on time-based claims during verification.
	Leeway time.Duration
}

// Claims carried by a passforge token.
type Claims struct {
	// Purpose distinguishes token uses ("reset", "delivery", ...).
	Purpose string `json:"prp"`
	// Code is an optional confirmation code bound to the token.
	Code string `json:"code,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies tokens under a fixed key and TTL. Safe
// for concurrent use after construction.
type Manager struct {
	cfg     Config
	signKey any
	verify  any
	method  jwt.SigningMethod
}

// NewManager validates cfg and prepares the signing keys.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("token leeway out of range")
	}
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodEd25519
	}

	m := &Manager{cfg: cfg}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) < 32 {
			return nil, errors.New("hs256 requires a secret of at least 32 bytes")
		}
		m.method = jwt.SigningMethodHS256
		m.signKey = cfg.PrivateKey
		m.verify = cfg.PrivateKey
	case MethodEd25519:
		m.method = jwt.SigningMethodEdDSA
		priv, pub, err := ed25519Keys(cfg.PrivateKey, cfg.PublicKey)
		if err != nil {
			return nil, err
		}
		m.signKey = priv
		m.verify = pub
	default:
		return nil, fmt.Errorf("unsupported signing method %q", cfg.SigningMethod)
	}
	return m, nil
}

func ed25519Keys(privBytes, pubBytes []byte) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	if len(privBytes) == 0 && len(pubBytes) == 0 {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		return priv, pub, nil
	}

	var priv ed25519.PrivateKey
	switch len(privBytes) {
	case 0:
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(privBytes)
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(privBytes)
	default:
		return nil, nil, errors.New("ed25519 private key must be a 32-byte seed or 64-byte key")
	}

	var pub ed25519.PublicKey
	switch {
	case len(pubBytes) == ed25519.PublicKeySize:
		pub = ed25519.PublicKey(pubBytes)
	case len(pubBytes) == 0 && priv != nil:
		pub = priv.Public().(ed25519.PublicKey)
	default:
		return nil, nil, errors.New("ed25519 public key must be 32 bytes")
	}
	return priv, pub, nil
}

// Issue creates a signed token for the given purpose, optionally
// binding a confirmation code. The JTI is a fresh UUID so each token is
// individually revocable upstream.
func (m *Manager) Issue(purpose, code string) (string, error) {
	if m.signKey == nil {
		return "", errors.New("manager holds no signing key")
	}
	now := time.Now()
	claims := Claims{
		Purpose: purpose,
		Code:    code,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}
	return jwt.NewWithClaims(m.method, claims).SignedString(m.signKey)
}

// Verify parses and validates a token, returning its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != m.method.Alg() {
				return nil, fmt.Errorf("%w: unexpected algorithm %q", ErrInvalidToken, t.Method.Alg())
			}
			return m.verify, nil
		},
		jwt.WithLeeway(m.cfg.Leeway),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if m.cfg.Issuer != "" {
		if iss, _ := claims.GetIssuer(); iss != m.cfg.Issuer {
			return nil, fmt.Errorf("%w: wrong issuer", ErrInvalidToken)
		}
	}
	return &claims, nil
}
