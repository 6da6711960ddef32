package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters following the OWASP password storage guidance.
type argon2Params struct {
	memory  uint32
	time    uint32
	threads uint8
	saltLen uint32
	keyLen  uint32
}

func defaultArgon2Params() argon2Params {
	return argon2Params{
		memory:  19 * 1024, // 19 MiB
		time:    2,
		threads: 1,
		saltLen: 16,
		keyLen:  32,
	}
}

var (
	errHashFormat    = errors.New("malformed argon2id hash")
	errHashAlgorithm = errors.New("unsupported hash algorithm")
	errArgon2Version = errors.New("incompatible argon2 version")
)

// Argon2HashService implements ports.HashService using Argon2id with
// PHC-formatted output, so parameters can be raised later without
// invalidating stored hashes.
type Argon2HashService struct {
	params argon2Params
}

// NewArgon2HashService creates a new Argon2id hash service.
func NewArgon2HashService() *Argon2HashService {
	return &Argon2HashService{params: defaultArgon2Params()}
}

// Hash derives an Argon2id hash of the password.
// Output: $argon2id$v=19$m=<KiB>,t=<passes>,p=<lanes>$<salt>$<hash>
func (s *Argon2HashService) Hash(password string) (string, error) {
	salt := make([]byte, s.params.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, s.params.time, s.params.memory, s.params.threads, s.params.keyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		s.params.memory, s.params.time, s.params.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify reports whether the password matches the stored hash. The stored
// hash's own parameters drive the derivation, not the service defaults.
func (s *Argon2HashService) Verify(password string, encodedHash string) (bool, error) {
	salt, key, p, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}

	derived := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)

	return subtle.ConstantTimeCompare(key, derived) == 1, nil
}

func decodeArgon2Hash(encodedHash string) (salt, key []byte, p argon2Params, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, p, errHashFormat
	}
	if parts[1] != "argon2id" {
		return nil, nil, p, fmt.Errorf("%w: %s", errHashAlgorithm, parts[1])
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, p, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, p, fmt.Errorf("%w: v=%d", errArgon2Version, version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, nil, p, fmt.Errorf("parsing params: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, nil, p, fmt.Errorf("decoding salt: %w", err)
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, nil, p, fmt.Errorf("decoding key: %w", err)
	}
	p.keyLen = uint32(len(key))

	return salt, key, p, nil
}
