package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/dustin/go-humanize"

	"github.com/justyntemme/filedrop/internal/accept"
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
)

type OpType int

const (
	Realize OpType = iota
	CancelRealize
)

// DefaultMaxFiles caps how many files one dropped directory tree may expand to
const DefaultMaxFiles = 10000

// ErrTooManyFiles is returned when a drop expands past the file cap
var ErrTooManyFiles = errors.New("drop expands to too many files")

type Request struct {
	Op       OpType
	Paths    []string
	Gen      int64 // Generation counter to track stale requests
	MaxFiles int   // 0 uses DefaultMaxFiles
}

type Response struct {
	Op        OpType
	Gen       int64
	Paths     []string // the paths as dropped
	Files     dnd.FileList
	TotalSize int64
	Skipped   int // entries that could not be stat'ed
	Err       error
	Cancelled bool
}

// System realizes dropped paths into file lists off the UI goroutine
type System struct {
	RequestChan  chan Request
	ResponseChan chan Response

	cancelMu   sync.Mutex
	cancelFunc context.CancelFunc
}

func NewSystem() *System {
	return &System{
		RequestChan:  make(chan Request, 10),
		ResponseChan: make(chan Response, 10),
	}
}

func (s *System) Start() {
	for req := range s.RequestChan {
		debug.Log(debug.FS, "Request: op=%d paths=%d gen=%d", req.Op, len(req.Paths), req.Gen)

		switch req.Op {
		case CancelRealize:
			s.cancelMu.Lock()
			if s.cancelFunc != nil {
				s.cancelFunc()
				s.cancelFunc = nil
			}
			s.cancelMu.Unlock()

		case Realize:
			// A new drop supersedes any walk still running
			s.cancelMu.Lock()
			if s.cancelFunc != nil {
				s.cancelFunc()
			}
			ctx, cancel := context.WithCancel(context.Background())
			s.cancelFunc = cancel
			s.cancelMu.Unlock()

			go func(ctx context.Context, req Request) {
				files, skipped, err := RealizePaths(ctx, req.Paths, req.MaxFiles)
				resp := Response{
					Op:        Realize,
					Gen:       req.Gen,
					Paths:     req.Paths,
					Files:     files,
					TotalSize: TotalSize(files),
					Skipped:   skipped,
					Err:       err,
					Cancelled: ctx.Err() != nil,
				}
				debug.Log(debug.FS, "Realize response: files=%d skipped=%d gen=%d cancelled=%v err=%v",
					len(files), skipped, req.Gen, resp.Cancelled, err)
				s.ResponseChan <- resp
			}(ctx, req)
		}
	}
}

// RealizePaths turns dropped paths into a file list. Directories are walked
// recursively; files are stat'ed directly. Results are sorted by path.
func RealizePaths(ctx context.Context, paths []string, maxFiles int) (dnd.FileList, int, error) {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	var (
		mu      sync.Mutex
		result  dnd.FileList
		skipped int
	)

	add := func(path string, size int64) error {
		mu.Lock()
		defer mu.Unlock()
		if len(result) >= maxFiles {
			return ErrTooManyFiles
		}
		item := accept.ItemForPath(path)
		result = append(result, dnd.File{Path: path, Name: item.Name, Type: item.Type, Size: size})
		return nil
	}

	for _, root := range paths {
		if err := ctx.Err(); err != nil {
			return nil, skipped, err
		}

		info, err := os.Stat(root)
		if err != nil {
			debug.Log(debug.FS, "RealizePaths: skipping %q: %v", root, err)
			skipped++
			continue
		}
		if !info.IsDir() {
			if err := add(root, info.Size()); err != nil {
				return nil, skipped, err
			}
			continue
		}

		conf := &fastwalk.Config{
			Follow: true, // Dropped shortcuts should resolve to their targets
		}
		err = fastwalk.Walk(conf, root, func(fullPath string, d fs.DirEntry, err error) error {
			if err != nil {
				debug.Log(debug.FS_WALK, "RealizePaths: walk error at %q: %v", fullPath, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil // Skip errors, continue walking
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() {
				return nil
			}

			fi, err := fastwalk.StatDirEntry(fullPath, d)
			if err != nil {
				debug.Log(debug.FS_WALK, "RealizePaths: stat %q: %v", fullPath, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			if fi.IsDir() {
				return nil
			}
			return add(fullPath, fi.Size())
		})
		if err != nil {
			return nil, skipped, fmt.Errorf("walk %s: %w", filepath.Base(root), err)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, skipped, nil
}

// TotalSize sums the sizes of every file in fl
func TotalSize(fl dnd.FileList) int64 {
	var total int64
	for _, f := range fl {
		total += f.Size
	}
	return total
}

// Summary renders a short human description, e.g. "3 files, 1.2 MB"
func Summary(fl dnd.FileList) string {
	return SummaryOf(len(fl), TotalSize(fl))
}

// SummaryOf renders the same description from a count and a byte total
func SummaryOf(count int, bytes int64) string {
	noun := "files"
	if count == 1 {
		noun = "file"
	}
	if bytes < 0 {
		bytes = 0
	}
	return fmt.Sprintf("%d %s, %s", count, noun, humanize.Bytes(uint64(bytes)))
}
