package version

import (
	_ "embed" // for go:embed
	"fmt"
	"strconv"
	"strings"
)

// VERSION holds the server's version
//
//go:embed VERSION
var VERSION string

// Version segments
var (
	MAJOR int
	MINOR int
	FIX   int
	PRE   int
)

func init() {
	VERSION = strings.TrimSpace(VERSION)
	MAJOR, MINOR, FIX, PRE = parse(VERSION)
}

// parse splits a version string like 1.2.3 or 1.2.3-pr4 into its segments;
// missing or malformed segments are 0
func parse(v string) (major, minor, fix, pre int) {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) > 0 {
		major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		minor, _ = strconv.Atoi(parts[1])
	}
	if len(parts) > 2 {
		ps := strings.SplitN(parts[2], "-", 2)
		fix, _ = strconv.Atoi(ps[0])
		if len(ps) > 1 {
			pre, _ = strconv.Atoi(strings.TrimPrefix(ps[1], "pr"))
		}
	}
	return
}

// UserAgent returns the value used in the Server header
func UserAgent() string {
	return fmt.Sprintf("brightpath-backoffice/%s", VERSION)
}
