package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/exitcheck/internal/app"
	"github.com/phrazzld/exitcheck/internal/config"
	"github.com/phrazzld/exitcheck/internal/location"
	"github.com/phrazzld/exitcheck/internal/platform/feed"
	"github.com/phrazzld/exitcheck/internal/platform/memory"
	"github.com/phrazzld/exitcheck/internal/service/exit_session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Log:  config.LogConfig{Level: "error"},
		Home: config.HomeConfig{DefaultRadius: 100, DefaultName: "Home"},
		Checklist: config.ChecklistConfig{
			AskForFeedback:     true,
			FeedbackAfterExits: 5,
			ShowStreakMessages: true,
		},
		Monitor:   config.MonitorConfig{DuplicateExitWindow: time.Minute, QueueSize: 8},
		Analytics: config.AnalyticsConfig{TimeZone: "UTC", Weekdays: []string{"monday"}},
	}
}

type line struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readLines(t *testing.T, out *bytes.Buffer) []line {
	t.Helper()
	var lines []line
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l))
		lines = append(lines, l)
	}
	return lines
}

func ofType(lines []line, kind string) []line {
	var out []line
	for _, l := range lines {
		if l.Type == kind {
			out = append(out, l)
		}
	}
	return out
}

const script = `
authorize always
home 52.3702 4.8952 100
item Keys
item Wallet
exit
check keys
rush
test
check Keys
check Wallet
complete
`

func TestRunCore_Script(t *testing.T) {
	steps, err := feed.Parse(strings.NewReader(script))
	require.NoError(t, err)

	var out bytes.Buffer
	err = runCore(context.Background(), testConfig(), app.MemoryStores(memory.New()),
		location.NotDetermined, steps, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	lines := readLines(t, &out)
	assert.Len(t, ofType(lines, "exit.detected"), 1)
	assert.Len(t, ofType(lines, "session.opened"), 2)
	assert.Len(t, ofType(lines, "session.closed"), 2)

	results := ofType(lines, "session.result")
	require.Len(t, results, 2)

	var rushed, perfect exit_session.CloseResult
	require.NoError(t, json.Unmarshal(results[0].Payload, &rushed))
	require.NoError(t, json.Unmarshal(results[1].Payload, &perfect))

	assert.True(t, rushed.Event.DismissedEarly)
	assert.Equal(t, []string{"Wallet"}, rushed.Event.ForgottenItems)
	assert.True(t, perfect.Event.WasComplete)
	assert.Equal(t, 1, perfect.Streak)
}

func TestRunCore_BadStepFails(t *testing.T) {
	steps, err := feed.Parse(strings.NewReader("rush\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = runCore(context.Background(), testConfig(), app.MemoryStores(memory.New()),
		location.AuthorizedAlways, steps, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.ErrorIs(t, err, exit_session.ErrNoOpenSession)
	assert.Contains(t, err.Error(), "line 1 (rush)")
}

func TestScriptActions_CheckUnknownTitle(t *testing.T) {
	steps, err := feed.Parse(strings.NewReader("item Keys\ntest\ncheck Umbrella\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = runCore(context.Background(), testConfig(), app.MemoryStores(memory.New()),
		location.AuthorizedAlways, steps, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.ErrorIs(t, err, exit_session.ErrUnknownItem)
}

func TestStatsCommand_EmptyHistory(t *testing.T) {
	t.Setenv("EXITCHECK_LOG_LEVEL", "error")
	t.Setenv("EXITCHECK_DATABASE_URL", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())

	var summary map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 0.0, summary["total_exits"])
	assert.Equal(t, 0.0, summary["current_streak"])
}

func TestReadFeed_Stdin(t *testing.T) {
	steps, err := readFeed("-", strings.NewReader("test\ncomplete\n"))
	require.NoError(t, err)
	assert.Len(t, steps, 2)

	_, err = readFeed("does-not-exist.feed", nil)
	assert.Error(t, err)
}
