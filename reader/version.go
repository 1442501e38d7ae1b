package reader

import (
	"fmt"
	"regexp"
	"strconv"
)

// Version is a PDF version number.
type Version struct {
	Major int
	Minor int
}

// MaxVersion is the newest PDF version accepted. PDF 2.0 (ISO 32000-2)
// is the latest published revision; anything newer is rejected rather
// than guessed at.
var MaxVersion = Version{Major: 2, Minor: 0}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)`)

// parseVersion reads "M.m" from the start of s.
func parseVersion(s string) (Version, bool) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, false
	}
	major, err1 := strconv.Atoi(m[1])
	minor, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return Version{}, false
	}
	return Version{Major: major, Minor: minor}, true
}

// headerVersion reads the version after the %PDF- signature. A garbled
// number is tolerated and reported as 1.0.
func headerVersion(data []byte) Version {
	rest := data[len(signature):]
	if len(rest) > 16 {
		rest = rest[:16]
	}
	if v, ok := parseVersion(string(rest)); ok {
		return v
	}
	return Version{Major: 1, Minor: 0}
}
