// Package geoip resolves the country of a client IP from a MaxMind database.
// It is used to tag public submissions with their source country.
package geoip

import (
	"net"

	"github.com/oschwald/maxminddb-golang"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Locator looks up countries; a nil Locator resolves nothing
type Locator struct {
	reader *maxminddb.Reader
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Open opens the MaxMind database at path
func Open(path string) (*Locator, error) {
	r, err := maxminddb.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "geoip: could not open database")
	}
	return &Locator{reader: r}, nil
}

// Country returns the ISO country code for ip or "" if it cannot be resolved
func (l *Locator) Country(ip string) string {
	if l == nil || l.reader == nil {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	var rec countryRecord
	if err := l.reader.Lookup(parsed, &rec); err != nil {
		log.WithError(err).WithField("ip", ip).Debug("geoip lookup failed")
		return ""
	}
	return rec.Country.ISOCode
}

// Close closes the underlying database
func (l *Locator) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}
