package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/lorrc/ticket-sync/internal/core/domain"
	"github.com/lorrc/ticket-sync/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 40 * time.Millisecond

func settle() {
	time.Sleep(4 * testDebounce)
}

func TestSearchTracker_TracksSettledTermOnce(t *testing.T) {
	recorder := &recordingRecorder{}
	tracker := services.NewSearchTracker(recorder, testDebounce)
	ctx := context.Background()

	for _, keystroke := range []string{"n", "ne", "net", "netw", "Netwo "} {
		tracker.Observe(ctx, keystroke)
		time.Sleep(testDebounce / 8)
	}

	require.Eventually(t, func() bool {
		return recorder.Count(domain.EventHistorySearches) == 1
	}, time.Second, 5*time.Millisecond)
	settle()

	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, map[string]any{"term_length": 5}, events[0].Meta)
	assert.Equal(t, "netwo", tracker.LastTracked())
}

func TestSearchTracker_SameTermIsNotTrackedTwice(t *testing.T) {
	recorder := &recordingRecorder{}
	tracker := services.NewSearchTracker(recorder, testDebounce)
	ctx := context.Background()

	tracker.Observe(ctx, "vpn")
	require.Eventually(t, func() bool {
		return recorder.Count(domain.EventHistorySearches) == 1
	}, time.Second, 5*time.Millisecond)

	tracker.Observe(ctx, " VPN ")
	settle()
	assert.Equal(t, 1, recorder.Count(domain.EventHistorySearches))

	tracker.Observe(ctx, "vpn client")
	require.Eventually(t, func() bool {
		return recorder.Count(domain.EventHistorySearches) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestSearchTracker_ShortTermsAreIgnored(t *testing.T) {
	recorder := &recordingRecorder{}
	tracker := services.NewSearchTracker(recorder, testDebounce)
	ctx := context.Background()

	tracker.Observe(ctx, "a")
	tracker.Observe(ctx, "  b  ")
	tracker.Observe(ctx, "")
	settle()

	assert.Empty(t, recorder.Events())
}

func TestSearchTracker_IneligibleKeystrokeCancelsPending(t *testing.T) {
	recorder := &recordingRecorder{}
	tracker := services.NewSearchTracker(recorder, testDebounce)
	ctx := context.Background()

	tracker.Observe(ctx, "printer")
	tracker.Observe(ctx, "p")
	settle()
	assert.Empty(t, recorder.Events())

	tracker.Observe(ctx, "printer")
	require.Eventually(t, func() bool {
		return recorder.Count(domain.EventHistorySearches) == 1
	}, time.Second, 5*time.Millisecond)

	tracker.Observe(ctx, "printers")
	tracker.Observe(ctx, "printer")
	settle()
	assert.Equal(t, 1, recorder.Count(domain.EventHistorySearches))
}

func TestSearchTracker_SurvivesCancelledRequestContext(t *testing.T) {
	recorder := &recordingRecorder{}
	tracker := services.NewSearchTracker(recorder, testDebounce)

	ctx, cancel := context.WithCancel(context.Background())
	tracker.Observe(ctx, "laptop")
	cancel()

	require.Eventually(t, func() bool {
		return recorder.Count(domain.EventHistorySearches) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestNormalizeSearchTerm(t *testing.T) {
	assert.Equal(t, "vpn client", services.NormalizeSearchTerm("  VPN Client\t"))
}
