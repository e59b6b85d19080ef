package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	d := NewDB()
	if err := d.Open(filepath.Join(t.TempDir(), "journal.db")); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestRecordAndRecent(t *testing.T) {
	d := openTemp(t)
	base := time.Unix(1700000000, 0)

	entries := []Entry{
		{At: base, Outcome: Delivered, AcceptType: "image/*", FileCount: 2, TotalBytes: 300, Paths: []string{"/a.png", "/b.png"}},
		{At: base.Add(time.Second), Outcome: Suppressed, AcceptType: "image/*", FileCount: 1, TotalBytes: 12, Paths: []string{"/c.txt"}},
		{At: base.Add(2 * time.Second), Outcome: FrameOnly, FileCount: 0},
	}
	for _, e := range entries {
		rec, err := d.Record(e)
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
		if rec.ID == "" {
			t.Error("Record did not assign an ID")
		}
	}

	recent, err := d.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Outcome != FrameOnly || recent[1].Outcome != Suppressed {
		t.Errorf("expected newest first, got %s then %s", recent[0].Outcome, recent[1].Outcome)
	}
	if recent[0].Paths != nil {
		t.Errorf("expected no paths, got %v", recent[0].Paths)
	}
	if diff := cmp.Diff([]string{"/c.txt"}, recent[1].Paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if !recent[1].At.Equal(base.Add(time.Second)) {
		t.Errorf("time not preserved: %v", recent[1].At)
	}
}

func TestWorkerRoundTrip(t *testing.T) {
	d := openTemp(t)
	go d.Start()
	defer close(d.RequestChan)

	d.RequestChan <- Request{Op: RecordDrop, Entry: Entry{Outcome: Delivered, FileCount: 1, Paths: []string{"/x.pdf"}}}
	resp := receive(t, d)
	if resp.Op != RecordDrop || resp.Err != nil || resp.Entry.ID == "" {
		t.Fatalf("unexpected record response: %+v", resp)
	}
	recordedID := resp.Entry.ID

	d.RequestChan <- Request{Op: FetchRecent, Limit: 10}
	resp = receive(t, d)
	if len(resp.Entries) != 1 || resp.Entries[0].ID != recordedID {
		t.Fatalf("expected 1 entry, got %+v", resp.Entries)
	}

	d.RequestChan <- Request{Op: ClearJournal}
	if resp := receive(t, d); resp.Err != nil {
		t.Fatalf("clear: %v", resp.Err)
	}
	d.RequestChan <- Request{Op: FetchRecent}
	if resp := receive(t, d); len(resp.Entries) != 0 {
		t.Errorf("expected empty journal, got %d entries", len(resp.Entries))
	}
}

func receive(t *testing.T, d *DB) Response {
	t.Helper()
	select {
	case resp := <-d.ResponseChan:
		return resp
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for store response")
	}
	return Response{}
}
