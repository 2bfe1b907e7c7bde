package storage

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// defaultHashParams are used when no password hashing parameters are configured
func defaultHashParams() Argon2idParams {
	return Argon2idParams{
		Time:        1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLen:      32,
		SaltLen:     16,
	}
}

// passwordHash is an argon2id password hash. It is stored in PHC string
// format: $argon2id$v=19$m=<KiB>,t=<passes>,p=<threads>$<salt>$<key>
type passwordHash struct {
	params Argon2idParams
	salt   []byte
	key    []byte
}

func newPasswordHash(password string, params Argon2idParams) (passwordHash, error) {
	h := passwordHash{
		params: params,
		salt:   make([]byte, params.SaltLen),
	}
	if _, err := rand.Read(h.salt); err != nil {
		return h, errors.Wrap(err, "could not generate salt")
	}
	h.key = h.derive(password, params.KeyLen)
	return h, nil
}

func (h passwordHash) derive(password string, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), h.salt, h.params.Time, h.params.MemoryKiB, h.params.Parallelism, keyLen)
}

// matches reports whether password hashes to the same key, in constant time
func (h passwordHash) matches(password string) bool {
	return subtle.ConstantTimeCompare(h.derive(password, uint32(len(h.key))), h.key) == 1
}

// String returns the PHC string of the hash
func (h passwordHash) String() string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.MemoryKiB, h.params.Time, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key),
	)
}

// parsePasswordHash parses a PHC string as written by passwordHash.String
func parsePasswordHash(encoded string) (passwordHash, error) {
	var h passwordHash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return h, errors.New("not an argon2id password hash")
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return h, errors.Errorf("unsupported argon2 version '%s'", parts[2])
	}
	if _, err := fmt.Sscanf(
		parts[3], "m=%d,t=%d,p=%d", &h.params.MemoryKiB, &h.params.Time, &h.params.Parallelism,
	); err != nil {
		return h, errors.Wrap(err, "invalid argon2id parameters")
	}
	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return h, errors.Wrap(err, "invalid argon2id salt")
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return h, errors.Wrap(err, "invalid argon2id key")
	}
	h.params.SaltLen = uint32(len(h.salt))
	h.params.KeyLen = uint32(len(h.key))
	return h, nil
}
