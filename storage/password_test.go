package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := newPasswordHash("correct horse", fastHashParams)
	require.NoError(t, err)
	assert.Regexp(t, `^\$argon2id\$v=19\$m=8192,t=1,p=1\$[A-Za-z0-9+/]+\$[A-Za-z0-9+/]+$`, hash.String())

	parsed, err := parsePasswordHash(hash.String())
	require.NoError(t, err)
	assert.Equal(t, fastHashParams, parsed.params)
	assert.True(t, parsed.matches("correct horse"))
	assert.False(t, parsed.matches("battery staple"))

	again, err := newPasswordHash("correct horse", fastHashParams)
	require.NoError(t, err)
	assert.NotEqual(t, hash.String(), again.String())
}

func TestParsePasswordHashInvalid(t *testing.T) {
	valid, err := newPasswordHash("pw", fastHashParams)
	require.NoError(t, err)
	salt, key := "c2FsdHNhbHRzYWx0c2FsdA", "a2V5a2V5a2V5a2V5"

	tests := []struct {
		name    string
		encoded string
	}{
		{name: "bcrypt", encoded: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"},
		{name: "argon2i", encoded: "$argon2i$v=19$m=8192,t=1,p=1$" + salt + "$" + key},
		{name: "version", encoded: "$argon2id$v=16$m=8192,t=1,p=1$" + salt + "$" + key},
		{name: "params", encoded: "$argon2id$v=19$t=1$" + salt + "$" + key},
		{name: "salt", encoded: "$argon2id$v=19$m=8192,t=1,p=1$!!$" + key},
		{name: "truncated", encoded: valid.String()[:20]},
		{name: "empty", encoded: ""},
	}
	for _, test := range tests {
		t.Run(
			test.name, func(t *testing.T) {
				_, err := parsePasswordHash(test.encoded)
				assert.Error(t, err)
			},
		)
	}
}
