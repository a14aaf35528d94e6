package extract

import (
	"strings"

	"github.com/sells-group/pickwatch/internal/model"
)

// Validator bounds. Slightly looser than the matcher's, since cleaned
// names can grow a few characters from separator respacing.
const (
	minValidSideLen = 3
	maxValidSideLen = 35
)

// Valid is the structural sanity predicate over a cleaned pick.
// Deliberately permissive once the shape is right: over-filtering drops
// real picks silently and there is no ground truth to check against.
func Valid(p model.Pick) bool {
	sideA, sideB, ok := strings.Cut(p.Pairing, " @ ")
	if !ok {
		return false
	}
	for _, side := range []string{sideA, sideB} {
		side = strings.TrimSpace(side)
		if len(side) < minValidSideLen || len(side) > maxValidSideLen {
			return false
		}
		lower := strings.ToLower(side)
		for _, blocked := range sideBlocklist {
			if strings.Contains(lower, blocked) {
				return false
			}
		}
	}
	return true
}
