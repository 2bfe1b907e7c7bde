package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in                     string
		major, minor, fix, pre int
	}{
		{"1.2.3", 1, 2, 3, 0},
		{"0.4.0-pr7", 0, 4, 0, 7},
		{"2.10", 2, 10, 0, 0},
		{"", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor, fix, pre := parse(tt.in)
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.minor, minor)
			assert.Equal(t, tt.fix, fix)
			assert.Equal(t, tt.pre, pre)
		})
	}
}
