package app

import (
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
	"github.com/justyntemme/filedrop/internal/fs"
	"github.com/justyntemme/filedrop/internal/store"
	"github.com/justyntemme/filedrop/internal/ui"
)

// JournalController records drop outcomes and keeps the recent list shown
// in the sidebar current.
type JournalController struct {
	deps  *SharedDeps
	limit int
	now   func() time.Time
}

// NewJournalController creates a journal controller showing limit entries
func NewJournalController(deps *SharedDeps, limit int) *JournalController {
	if limit <= 0 {
		limit = 20
	}
	return &JournalController{deps: deps, limit: limit, now: time.Now}
}

// Enabled reports whether drops are being journaled
func (j *JournalController) Enabled() bool {
	return j.deps.Store != nil
}

// Record queues a journal entry for a drop
func (j *JournalController) Record(outcome store.Outcome, acceptType string, files dnd.FileList) {
	if !j.Enabled() {
		return
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := f.Path
		if p == "" {
			p = f.Name
		}
		paths = append(paths, p)
	}
	j.deps.Store.RequestChan <- store.Request{Op: store.RecordDrop, Entry: store.Entry{
		Outcome:    outcome,
		AcceptType: acceptType,
		FileCount:  len(files),
		TotalBytes: fs.TotalSize(files),
		Paths:      paths,
	}}
}

// Refresh requests the recent entries
func (j *JournalController) Refresh() {
	if !j.Enabled() {
		return
	}
	j.deps.Store.RequestChan <- store.Request{Op: store.FetchRecent, Limit: j.limit}
}

// Clear deletes every entry
func (j *JournalController) Clear() {
	if !j.Enabled() {
		return
	}
	j.deps.Store.RequestChan <- store.Request{Op: store.ClearJournal}
}

// HandleResponse applies a store response. It runs on the event goroutine.
func (j *JournalController) HandleResponse(resp store.Response) {
	if resp.Err != nil {
		log.Printf("Journal: %v", resp.Err)
		return
	}
	switch resp.Op {
	case store.RecordDrop:
		debug.Log(debug.STORE, "Journal: recorded %s (%s)", resp.Entry.ID, resp.Entry.Outcome)
		j.Refresh()
	case store.FetchRecent:
		j.deps.State.SetJournal(journalRows(resp.Entries, j.now()))
	case store.ClearJournal:
		j.deps.State.SetJournal(nil)
	}
}

// journalRows formats entries for display, newest first as given
func journalRows(entries []store.Entry, now time.Time) []ui.JournalRow {
	rows := make([]ui.JournalRow, 0, len(entries))
	for _, e := range entries {
		row := ui.JournalRow{
			ID:      e.ID,
			When:    humanize.RelTime(e.At, now, "ago", "from now"),
			Outcome: string(e.Outcome),
			Summary: fs.SummaryOf(e.FileCount, e.TotalBytes),
		}
		if e.AcceptType != "" {
			row.Summary += "  ·  " + e.AcceptType
		}
		if len(e.Paths) > 0 && openable(e.Paths[0]) {
			row.Path = e.Paths[0]
		}
		rows = append(rows, row)
	}
	return rows
}

// openable reports whether p names a real file rather than an in-window
// sample source
func openable(p string) bool {
	return p != "" && !strings.HasPrefix(p, "sample/")
}
