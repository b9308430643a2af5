package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/exitcheck/internal/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const morning = `
# Monday morning
authorize always
home 52.3702 4.8952 150 Canal house
item Keys
item Reading glasses
location 52.3702 4.8952 12
@2025-03-10T08:05:00Z exit
check Keys
rush
wait 250ms
fail GPS lost
enter home_geofence_x
test
complete
dismiss
`

func TestParse(t *testing.T) {
	steps, err := Parse(strings.NewReader(morning))
	require.NoError(t, err)
	require.Len(t, steps, 14)

	assert.Equal(t, OpAuthorize, steps[0].Op)
	assert.Equal(t, location.AuthorizedAlways, steps[0].Authorization)
	assert.Equal(t, 3, steps[0].Line)

	home := steps[1]
	assert.Equal(t, OpHome, home.Op)
	assert.Equal(t, 52.3702, home.Latitude)
	assert.Equal(t, 4.8952, home.Longitude)
	assert.Equal(t, 150.0, home.Radius)
	assert.Equal(t, "Canal house", home.Text)

	assert.Equal(t, "Reading glasses", steps[3].Text)
	assert.Equal(t, 12.0, steps[4].Accuracy)

	exit := steps[5]
	assert.Equal(t, OpExit, exit.Op)
	assert.Empty(t, exit.Text)
	assert.True(t, exit.At.Equal(time.Date(2025, 3, 10, 8, 5, 0, 0, time.UTC)))

	assert.Equal(t, OpCheck, steps[6].Op)
	assert.Equal(t, "Keys", steps[6].Text)
	assert.Equal(t, OpRush, steps[7].Op)
	assert.Equal(t, 250*time.Millisecond, steps[8].Delay)
	assert.Equal(t, "GPS lost", steps[9].Text)
	assert.Equal(t, "home_geofence_x", steps[10].Text)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown verb", "jump"},
		{"bad authorization", "authorize sometimes"},
		{"authorize arity", "authorize"},
		{"bad latitude", "location north 4.9"},
		{"location arity", "location 52"},
		{"home arity", "home 52"},
		{"bad radius", "home 52 4 wide"},
		{"empty item", "item"},
		{"exit arity", "exit a b"},
		{"bad duration", "wait soon"},
		{"negative duration", "wait -1s"},
		{"extra args", "rush now"},
		{"bad timestamp", "@yesterday exit"},
		{"timestamp alone", "@2025-03-10T08:05:00Z"},
		{"timestamp on wrong verb", "@2025-03-10T08:05:00Z rush"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader("# ok\n" + tt.input))
			require.ErrorIs(t, err, ErrSyntax)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestParse_Empty(t *testing.T) {
	steps, err := Parse(strings.NewReader("\n# nothing\n\n"))
	require.NoError(t, err)
	assert.Empty(t, steps)
}
