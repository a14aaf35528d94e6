package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/pickwatch/internal/model"
)

func pickWithPairing(pairing string) model.Pick {
	return model.Pick{Pairing: pairing, Selection: "whatever"}
}

func TestValidSideLengthBoundary(t *testing.T) {
	// Two characters fails, three passes.
	assert.False(t, Valid(pickWithPairing("Ab @ Bulldogs")))
	assert.True(t, Valid(pickWithPairing("Abc @ Bulldogs")))

	assert.False(t, Valid(pickWithPairing("Wildcats @ Xy")))
	assert.True(t, Valid(pickWithPairing("Wildcats @ Xyz")))
}

func TestValidSideTooLong(t *testing.T) {
	long := strings.Repeat("A", 36)
	assert.False(t, Valid(pickWithPairing(long+" @ Bulldogs")))

	ok := strings.Repeat("A", 35)
	assert.True(t, Valid(pickWithPairing(ok+" @ Bulldogs")))
}

func TestValidRejectsBoilerplateSides(t *testing.T) {
	// Site chrome that survived extraction is not a matchup.
	assert.False(t, Valid(pickWithPairing("Subscribe Now @ Terms")))
	assert.False(t, Valid(pickWithPairing("Wildcats @ Free Trial")))
	assert.False(t, Valid(pickWithPairing("Newsletter @ Bulldogs")))
}

func TestValidRequiresSeparator(t *testing.T) {
	assert.False(t, Valid(pickWithPairing("Wildcats Bulldogs")))
	assert.False(t, Valid(pickWithPairing("")))
}

func TestValidAcceptsRealMatchups(t *testing.T) {
	assert.True(t, Valid(pickWithPairing("Wildcats @ Bulldogs")))
	assert.True(t, Valid(pickWithPairing("Green Bay @ New England")))
	assert.True(t, Valid(pickWithPairing("Texas A&M @ Ole Miss")))
}
