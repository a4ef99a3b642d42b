package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/poikkeusinfo/pkg/config"
	"github.com/travigo/poikkeusinfo/pkg/fetcher"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
)

const feed = `<?xml version="1.0" encoding="UTF-8"?>
<DISRUPTIONS>
  <DISRUPTION id="1" type="2" source="1">
    <VALIDITY status="1" from="2024-03-10T08:00:00" to="2024-03-10T20:00:00"/>
    <INFO><TEXT lang="fi">Metro ei kulje. Syy: virtahäiriö. Arvioitu kesto: 12:00 asti.</TEXT></INFO>
    <TARGETS><LINE id="1300M" direction="2" linetype="6">M</LINE></TARGETS>
  </DISRUPTION>
  <DISRUPTION id="2" type="1" source="2">
    <VALIDITY status="1" from="2024-03-10T08:00:00" to="2024-03-10T20:00:00"/>
    <TARGETS><LINE id="2550" direction="1" linetype="5">550</LINE></TARGETS>
  </DISRUPTION>
</DISRUPTIONS>`

type staticFetcher struct {
	body []byte
	err  error
}

func (f *staticFetcher) Fetch(ctx context.Context) ([]byte, error) {
	return f.body, f.err
}

type recordingPublisher struct {
	cycles    []string
	published [][]poikkeusinfo.DisruptionNotification
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, cycle string, notifications []poikkeusinfo.DisruptionNotification) error {
	if p.err != nil {
		return p.err
	}
	p.cycles = append(p.cycles, cycle)
	p.published = append(p.published, notifications)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestRunner(t *testing.T, feedFetcher fetcher.Fetcher, resultPublisher *recordingPublisher) *Runner {
	t.Helper()

	cfg := config.DefaultConfig()
	runner, err := NewRunner(&cfg, feedFetcher, resultPublisher, NewMetrics())
	require.NoError(t, err)

	location, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)
	runner.Now = func() time.Time { return time.Date(2024, time.March, 10, 9, 0, 0, 0, location) }
	runner.NewCycleID = func() string { return "test-cycle" }

	return runner
}

func TestRunOnce(t *testing.T) {
	resultPublisher := &recordingPublisher{}
	runner := newTestRunner(t, &staticFetcher{body: []byte(feed)}, resultPublisher)

	matched, err := runner.RunOnce(context.Background())
	require.NoError(t, err)

	require.Len(t, matched, 1)
	assert.Equal(t, "1", matched[0].ID)
	assert.Equal(t, "metro", matched[0].DisplayName)
	assert.Equal(t, "tekninen vika", *matched[0].Info.Reason)
	assert.Equal(t, "2024-03-10T12:00:00+02:00", matched[0].Info.Length.Format(time.RFC3339))

	assert.Equal(t, []string{"test-cycle"}, resultPublisher.cycles)
	assert.Equal(t, matched, resultPublisher.published[0])

	assert.Equal(t, 1.0, testutil.ToFloat64(runner.Metrics.fetchTotal.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(runner.Metrics.parsedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(runner.Metrics.matched))
	assert.Greater(t, testutil.ToFloat64(runner.Metrics.lastSuccessTS), 0.0)
}

func TestRunOnceFetchError(t *testing.T) {
	resultPublisher := &recordingPublisher{}
	fetchErr := &fetcher.FetchError{Source: "http://example.invalid", StatusCode: 503}
	runner := newTestRunner(t, &staticFetcher{err: fetchErr}, resultPublisher)

	_, err := runner.RunOnce(context.Background())

	var target *fetcher.FetchError
	require.ErrorAs(t, err, &target)
	assert.Empty(t, resultPublisher.published)
	assert.Equal(t, 1.0, testutil.ToFloat64(runner.Metrics.fetchTotal.WithLabelValues("error")))
}

func TestRunOnceParseError(t *testing.T) {
	resultPublisher := &recordingPublisher{}
	runner := newTestRunner(t, &staticFetcher{body: []byte("<DISRUPTIONS>")}, resultPublisher)

	_, err := runner.RunOnce(context.Background())

	var malformed *poikkeusinfo.MalformedDocumentError
	require.ErrorAs(t, err, &malformed)
	assert.Empty(t, resultPublisher.published)
	assert.Equal(t, 1.0, testutil.ToFloat64(runner.Metrics.parseErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(runner.Metrics.lastSuccessTS))
}

func TestRunOncePublishError(t *testing.T) {
	resultPublisher := &recordingPublisher{err: errors.New("redis down")}
	runner := newTestRunner(t, &staticFetcher{body: []byte(feed)}, resultPublisher)

	_, err := runner.RunOnce(context.Background())

	assert.ErrorContains(t, err, "redis down")
	assert.Equal(t, 1.0, testutil.ToFloat64(runner.Metrics.publishErrors))
}

func TestRunStopsOnCancel(t *testing.T) {
	resultPublisher := &recordingPublisher{}
	runner := newTestRunner(t, &staticFetcher{body: []byte(feed)}, resultPublisher)
	runner.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- runner.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(runner.Metrics.fetchTotal.WithLabelValues("ok")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestWaitTime(t *testing.T) {
	runner := &Runner{Interval: 180 * time.Second}

	assert.Equal(t, 170*time.Second, runner.waitTime(10*time.Second))
	assert.Equal(t, 90*time.Second, runner.waitTime(150*time.Second))
	assert.Equal(t, 90*time.Second, runner.waitTime(10*time.Minute))
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	matching := filepath.Join(dir, "a.xml")
	empty := filepath.Join(dir, "b.xml")
	broken := filepath.Join(dir, "c.xml")
	require.NoError(t, os.WriteFile(matching, []byte(feed), 0644))
	require.NoError(t, os.WriteFile(empty, []byte("<DISRUPTIONS/>"), 0644))
	require.NoError(t, os.WriteFile(broken, []byte("<DISRUPTIONS>"), 0644))

	cfg := config.DefaultConfig()
	options, err := cfg.ParserOptions()
	require.NoError(t, err)
	rules, err := cfg.Lines.Rules()
	require.NoError(t, err)

	paths := []string{matching, empty, broken, filepath.Join(dir, "missing.xml")}
	results := ParseFiles(poikkeusinfo.NewParser(options), poikkeusinfo.NewFilter(rules), paths, time.Now())

	require.Len(t, results, 4)
	for i, result := range results {
		assert.Equal(t, paths[i], result.Path)
	}

	require.NoError(t, results[0].Err)
	assert.Len(t, results[0].Notifications, 2)
	assert.Len(t, results[0].Matched, 1)
	assert.NoError(t, results[1].Err)
	assert.Empty(t, results[1].Matched)
	assert.Error(t, results[2].Err)
	assert.Error(t, results[3].Err)

	var out bytes.Buffer
	err = PrintFileResults(&out, results, false)
	assert.EqualError(t, err, "2 of 4 files failed to parse")
	assert.Contains(t, out.String(), matching)
	assert.Contains(t, out.String(), "1300M")
	assert.NotContains(t, out.String(), empty)

	out.Reset()
	require.NoError(t, PrintFileResults(&out, results[:2], true))
	assert.Contains(t, out.String(), "2550")
}
