package hivekeeper

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	hashSaltLength = 16
	hashKeyLength  = 32
)

// Hasher hashes and verifies passwords with Argon2id. The cost parameters
// and salt are embedded in the produced hash string, so Verify needs no
// configuration beyond the stored value.
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	logger  Logger
}

// NewHasher validates the cost parameters up front; a zero value in any of
// them is a configuration error, not something to paper over per request.
func NewHasher(time, memory uint32, threads uint8) (*Hasher, error) {
	if time == 0 || memory == 0 || threads == 0 {
		return nil, ErrHasherConfig
	}
	return &Hasher{
		time:    time,
		memory:  memory,
		threads: threads,
		logger:  defLogger{},
	}, nil
}

func (h *Hasher) WithLogger(logger Logger) *Hasher {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Hash derives an Argon2id key under a fresh random salt and encodes
// parameters, salt, and key in PHC string format.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	salt := make([]byte, hashSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, hashKeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory,
		h.time,
		h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash using the parameters and salt embedded in
// encoded and compares in constant time. Malformed stored hashes return
// false like any mismatch; the anomaly is logged but the caller cannot
// tell the two failure modes apart.
func (h *Hasher) Verify(password, encoded string) bool {
	memory, time, threads, salt, key, err := decodeHash(encoded)
	if err != nil {
		h.logger.Warn("unparseable stored password hash", "error", err)
		return false
	}

	derived := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(key, derived) == 1
}

func decodeHash(encoded string) (memory, time uint32, threads uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, fmt.Errorf("not an argon2id hash")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("bad version segment: %w", err)
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("bad parameter segment: %w", err)
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("bad salt segment: %w", err)
	}

	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("bad key segment: %w", err)
	}

	if len(key) == 0 {
		return 0, 0, 0, nil, nil, fmt.Errorf("empty derived key")
	}

	return memory, time, threads, salt, key, nil
}
