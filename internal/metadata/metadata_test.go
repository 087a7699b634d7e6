package metadata_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"ytq/internal/logging"
	"ytq/internal/metadata"
	"ytq/internal/testsupport"
)

var fetchTime = time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

func openCache(t *testing.T) *metadata.Cache {
	t.Helper()
	return metadata.Open(filepath.Join(t.TempDir(), "metadata.json"), logging.NewNop())
}

func sampleRecord(id, title string) metadata.Record {
	return metadata.Record{
		ID:              id,
		Title:           title,
		Channel:         "Channel",
		ChannelID:       "UC123",
		Duration:        "PT3M33S",
		DurationSeconds: 213,
		PublishedAt:     time.Date(2009, 10, 25, 6, 57, 33, 0, time.UTC),
		CategoryID:      "10",
		Tags:            []string{"music"},
		FetchedAt:       fetchTime,
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	cache := openCache(t)
	records, err := cache.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty cache, got %d", len(records))
	}
}

func TestLoadCorruptFileIsEmpty(t *testing.T) {
	cache := openCache(t)
	testsupport.WriteFile(t, cache.Path(), []byte(`{"abc": {"id": `))

	records, err := cache.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected corrupt cache to read as empty, got %d", len(records))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cache := openCache(t)
	want := map[string]metadata.Record{
		"dQw4w9WgXcQ": sampleRecord("dQw4w9WgXcQ", "Never Gonna Give You Up"),
		"AAAAAAAAAAA": metadata.Tombstone("AAAAAAAAAAA", fetchTime),
	}
	if err := cache.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := cache.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	rec := got["dQw4w9WgXcQ"]
	if rec.Title != "Never Gonna Give You Up" || rec.DurationSeconds != 213 || !rec.PublishedAt.Equal(want["dQw4w9WgXcQ"].PublishedAt) || !slices.Equal(rec.Tags, []string{"music"}) {
		t.Fatalf("round trip mismatch: %+v", rec)
	}
	if got["AAAAAAAAAAA"].State() != metadata.StateUnavailable {
		t.Fatalf("tombstone lost: %+v", got["AAAAAAAAAAA"])
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(testsupport.ReadFile(t, cache.Path()), &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if raw["AAAAAAAAAAA"]["unavailable"] != true || raw["AAAAAAAAAAA"]["title"] != "" {
		t.Fatalf("tombstone should serialize flat with empty fields: %v", raw["AAAAAAAAAAA"])
	}
}

func TestUpsertOverwritesIncludingTombstones(t *testing.T) {
	cache := openCache(t)
	if _, err := cache.Upsert([]metadata.Record{
		metadata.Tombstone("AAAAAAAAAAA", fetchTime),
		sampleRecord("BBBBBBBBBBB", "old title"),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	n, err := cache.Upsert([]metadata.Record{
		sampleRecord("AAAAAAAAAAA", "resolved later"),
		sampleRecord("BBBBBBBBBBB", "new title"),
		{ID: "  "},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if n != 2 {
		t.Fatalf("written = %d, want 2", n)
	}

	records, err := cache.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !records["AAAAAAAAAAA"].Available() || records["AAAAAAAAAAA"].Title != "resolved later" {
		t.Fatalf("tombstone not replaced: %+v", records["AAAAAAAAAAA"])
	}
	if records["BBBBBBBBBBB"].Title != "new title" {
		t.Fatalf("later fetch should win: %+v", records["BBBBBBBBBBB"])
	}
}

func TestPlanFetchTombstoneSuppression(t *testing.T) {
	cached := map[string]metadata.Record{
		"XXXXXXXXXXX": metadata.Tombstone("XXXXXXXXXXX", fetchTime),
		"CCCCCCCCCCC": sampleRecord("CCCCCCCCCCC", "cached"),
	}
	candidates := []string{"XXXXXXXXXXX", "NNNNNNNNNNN", "CCCCCCCCCCC", "NNNNNNNNNNN", " "}

	if got := metadata.PlanFetch(candidates, cached, false); !slices.Equal(got, []string{"NNNNNNNNNNN"}) {
		t.Fatalf("default plan = %v", got)
	}
	if got := metadata.PlanFetch(candidates, cached, true); !slices.Equal(got, []string{"XXXXXXXXXXX", "NNNNNNNNNNN", "CCCCCCCCCCC"}) {
		t.Fatalf("forced plan = %v", got)
	}
}

func TestWithTombstonesMarksMissingIDs(t *testing.T) {
	fetched := []metadata.Record{sampleRecord("AAAAAAAAAAA", "found")}
	records := metadata.WithTombstones([]string{"AAAAAAAAAAA", "BBBBBBBBBBB"}, fetched, fetchTime)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	stone := records[1]
	if stone.ID != "BBBBBBBBBBB" || stone.Available() || stone.Title != "" || !stone.FetchedAt.Equal(fetchTime) {
		t.Fatalf("unexpected tombstone: %+v", stone)
	}
}

func TestRefreshStoresRecordsAndTombstones(t *testing.T) {
	cache := openCache(t)
	if err := cache.Save(map[string]metadata.Record{
		"XXXXXXXXXXX": metadata.Tombstone("XXXXXXXXXXX", fetchTime.Add(-time.Hour)),
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var requested [][]string
	fetcher := metadata.FetcherFunc(func(_ context.Context, ids []string) ([]metadata.Record, error) {
		requested = append(requested, slices.Clone(ids))
		var out []metadata.Record
		for _, id := range ids {
			if id == "AAAAAAAAAAA" || id == "XXXXXXXXXXX" {
				rec := sampleRecord(id, "title "+id)
				rec.FetchedAt = time.Time{}
				rec.DurationSeconds = 0
				out = append(out, rec)
			}
		}
		return out, nil
	})
	opts := metadata.RefreshOptions{Now: func() time.Time { return fetchTime }}

	summary, err := metadata.Refresh(context.Background(), cache, fetcher, []string{"AAAAAAAAAAA", "BBBBBBBBBBB", "XXXXXXXXXXX"}, opts)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if summary.Requested != 2 || summary.Resolved != 1 || summary.Unavailable != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(requested) != 1 || !slices.Equal(requested[0], []string{"AAAAAAAAAAA", "BBBBBBBBBBB"}) {
		t.Fatalf("default refresh requested %v", requested)
	}

	records, err := cache.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec := records["AAAAAAAAAAA"]; !rec.FetchedAt.Equal(fetchTime) || rec.DurationSeconds != 213 {
		t.Fatalf("fetched record not stamped: %+v", rec)
	}
	if records["BBBBBBBBBBB"].Available() {
		t.Fatalf("expected tombstone for BBBBBBBBBBB: %+v", records["BBBBBBBBBBB"])
	}
	if records["XXXXXXXXXXX"].Available() {
		t.Fatal("tombstone should survive a default refresh")
	}

	requested = nil
	opts.Force = true
	if _, err := metadata.Refresh(context.Background(), cache, fetcher, []string{"XXXXXXXXXXX"}, opts); err != nil {
		t.Fatalf("forced Refresh: %v", err)
	}
	if len(requested) != 1 || !slices.Equal(requested[0], []string{"XXXXXXXXXXX"}) {
		t.Fatalf("forced refresh requested %v", requested)
	}
	records, err = cache.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !records["XXXXXXXXXXX"].Available() {
		t.Fatalf("forced refresh should replace tombstone: %+v", records["XXXXXXXXXXX"])
	}
}

func TestRefreshBatchesAndLimits(t *testing.T) {
	cache := openCache(t)
	ids := make([]string, 0, 120)
	for i := range 120 {
		ids = append(ids, fmt.Sprintf("id%09d", i))
	}

	var sizes []int
	fetcher := metadata.FetcherFunc(func(_ context.Context, batch []string) ([]metadata.Record, error) {
		sizes = append(sizes, len(batch))
		return nil, nil
	})

	summary, err := metadata.Refresh(context.Background(), cache, fetcher, ids, metadata.RefreshOptions{Limit: 110})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !slices.Equal(sizes, []int{50, 50, 10}) {
		t.Fatalf("batch sizes = %v", sizes)
	}
	if summary.Requested != 110 || summary.Unavailable != 110 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRefreshPropagatesFetchErrors(t *testing.T) {
	cache := openCache(t)
	boom := errors.New("quota exceeded")
	fetcher := metadata.FetcherFunc(func(context.Context, []string) ([]metadata.Record, error) {
		return nil, boom
	})
	_, err := metadata.Refresh(context.Background(), cache, fetcher, []string{"AAAAAAAAAAA"}, metadata.RefreshOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	records, loadErr := cache.Load()
	if loadErr != nil || len(records) != 0 {
		t.Fatalf("failed fetch must not write tombstones: %v %v", records, loadErr)
	}
}

func TestFileFetcherFiltersRequestedIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	data, err := json.Marshal([]metadata.Record{
		sampleRecord("AAAAAAAAAAA", "a"),
		sampleRecord("BBBBBBBBBBB", "b"),
		metadata.Tombstone("CCCCCCCCCCC", fetchTime),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	testsupport.WriteFile(t, path, data)

	got, err := metadata.FileFetcher{Path: path}.Fetch(context.Background(), []string{"BBBBBBBBBBB", "CCCCCCCCCCC"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != "BBBBBBBBBBB" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestParseISO8601Duration(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"PT1H2M3S", 3723, true},
		{"PT3M33S", 213, true},
		{"PT45S", 45, true},
		{"PT10M", 600, true},
		{"PT2H", 7200, true},
		{"PT1H30S", 3630, true},
		{"PT0S", 0, true},
		{"invalid", 0, false},
		{"", 0, false},
		{"P1D", 0, false},
	}
	for _, tt := range tests {
		got, ok := metadata.ParseISO8601Duration(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseISO8601Duration(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[uint64]string{
		3723: "1:02:03",
		213:  "3:33",
		45:   "0:45",
		0:    "0:00",
		3600: "1:00:00",
	}
	for in, want := range tests {
		if got := metadata.FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}
