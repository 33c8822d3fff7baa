package blocks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version is a game release, e.g. 1.12.2.
type Version struct {
	Major, Minor, Patch int
}

var (
	V1_0  = Version{1, 0, 0}
	V1_8  = Version{1, 8, 0}
	V1_9  = Version{1, 9, 0}
	V1_10 = Version{1, 10, 0}
	V1_11 = Version{1, 11, 0}
	V1_12 = Version{1, 12, 0}
	V1_13 = Version{1, 13, 0}
	V1_16 = Version{1, 16, 0}
)

func ParseVersion(s string) (Version, error) {
	var v Version
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return v, errors.Errorf("bad version %q", s)
	}
	nums := [3]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return v, errors.Errorf("bad version %q", s)
		}
		nums[i] = n
	}
	return Version{nums[0], nums[1], nums[2]}, nil
}

func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	}
	return cmpInt(v.Patch, o.Patch)
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func (v Version) Less(o Version) bool    { return v.Compare(o) < 0 }
func (v Version) AtLeast(o Version) bool { return v.Compare(o) >= 0 }

// Flattened reports whether this version stores named block states
// instead of id+data.
func (v Version) Flattened() bool { return v.AtLeast(V1_13) }

func (v Version) String() string {
	if v.Patch == 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
