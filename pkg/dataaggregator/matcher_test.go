package dataaggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/sltraffic/pkg/ctdf"
)

func TestMatches(t *testing.T) {
	solna := []ctdf.Filter{{Line: "30", Destination: "solna"}}

	assert.True(t, Matches("30", "Solna", solna))
	assert.False(t, Matches("30", "Sundbyberg", solna))
	assert.True(t, Matches("30", "Solna station", solna))
	assert.False(t, Matches("31", "Solna", solna))

	sodertalje := []ctdf.Filter{
		{Line: "41", Destination: "tumba"},
		{Line: "41", Destination: "södertälje"},
	}
	assert.True(t, Matches("41", "Södertälje centrum", sodertalje))
	assert.True(t, Matches("41", "SÖDERTÄLJE C", sodertalje))
	assert.True(t, Matches("41", "Tumba", []ctdf.Filter{sodertalje[1], sodertalje[0]}))

	assert.False(t, Matches("30", "Solna", nil))
}
