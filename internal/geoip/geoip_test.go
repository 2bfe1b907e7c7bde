package geoip

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilLocator(t *testing.T) {
	var l *Locator
	assert.Equal(t, "", l.Country("192.0.2.1"))
	assert.NoError(t, l.Close())
}

func TestOpenMissingDatabase(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.Error(t, err)
}

func TestCountryInvalidIP(t *testing.T) {
	l := &Locator{}
	assert.Equal(t, "", l.Country("not-an-ip"))
}
