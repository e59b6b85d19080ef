package app

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"

	"github.com/justyntemme/filedrop/internal/config"
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/dnd"
	"github.com/justyntemme/filedrop/internal/dropzone"
	"github.com/justyntemme/filedrop/internal/frame"
	"github.com/justyntemme/filedrop/internal/fs"
	"github.com/justyntemme/filedrop/internal/platform"
	"github.com/justyntemme/filedrop/internal/store"
	"github.com/justyntemme/filedrop/internal/ui"
)

// Element ids of the host tree
const (
	PanelID   = "frame"
	TargetID  = "target"
	SourcesID = "sources"
	JournalID = "journal"
)

// NewHostTree builds the node tree the window renders:
// window > document > {frame > target, sources, journal}
func NewHostTree() (window, panel, target *frame.Node) {
	window = frame.NewWindow()
	doc := window.Document()
	panel = doc.Append(PanelID)
	target = panel.Append(TargetID)
	doc.Append(SourcesID)
	doc.Append(JournalID)
	return window, panel, target
}

// ZoneController owns the drop zone and everything that feeds it: the Gio
// bridge for in-window drags and the native drop path.
// Apart from NativeDrop, its methods run on the UI goroutine.
type ZoneController struct {
	deps    *SharedDeps
	journal *JournalController

	window *frame.Node
	panel  *frame.Node
	target *frame.Node
	bridge *ui.Bridge

	zone  *dropzone.Zone
	audit *frame.Subscription

	acceptOverride *string

	nativeGen atomic.Int64
	nativeMu  sync.Mutex
	nativeAt  map[int64]image.Point
}

// NewZoneController builds the host tree and bridge. acceptOverride, when
// non-nil, replaces the configured accept pattern.
func NewZoneController(deps *SharedDeps, journal *JournalController, acceptOverride *string) *ZoneController {
	w, panel, target := NewHostTree()
	return &ZoneController{
		deps:           deps,
		journal:        journal,
		window:         w,
		panel:          panel,
		target:         target,
		bridge:         ui.NewBridge(w.Document(), panel, target),
		acceptOverride: acceptOverride,
		nativeAt:       make(map[int64]image.Point),
	}
}

// Bridge returns the Gio bridge feeding this zone
func (c *ZoneController) Bridge() *ui.Bridge { return c.bridge }

// Zone returns the mounted zone, nil before Mount
func (c *ZoneController) Zone() *dropzone.Zone { return c.zone }

func (c *ZoneController) resolve(zc config.ZoneConfig) (dropzone.Options, error) {
	if c.acceptOverride != nil {
		zc.AcceptType = *c.acceptOverride
	}
	return dropzone.OptionsFromConfig(zc, c.window)
}

// Mount mounts the zone from zc. Invalid settings fall back to the defaults
// and the error is returned for display; the zone is mounted either way.
func (c *ZoneController) Mount(zc config.ZoneConfig) error {
	opts, cfgErr := c.resolve(zc)
	if cfgErr != nil {
		log.Printf("Zone: %v, using defaults", cfgErr)
		var err error
		if opts, err = c.resolve(config.DefaultConfig().Zone); err != nil {
			return err
		}
	}

	zone, err := dropzone.Mount(opts, c.target, c.callbacks())
	if err != nil {
		return err
	}
	c.zone = zone
	// Registered after the zone's own target listener, so it observes the
	// classification before the frame-level reset.
	c.audit = c.target.Listen(dnd.Drop, c.auditDrop)
	debug.Log(debug.APP, "Zone: mounted frame=%s accept=%q", opts.Frame.ID(), opts.AcceptType)
	return cfgErr
}

// Unmount releases the zone and the audit listener
func (c *ZoneController) Unmount() {
	if c.audit != nil {
		c.audit.Release()
		c.audit = nil
	}
	if c.zone != nil {
		c.zone.Unmount()
	}
}

// Apply pushes reloaded settings into the mounted zone. A frame change
// rebinds and resets any drag in progress.
func (c *ZoneController) Apply(cfg config.Config) error {
	if c.zone == nil {
		return errors.New("zone not mounted")
	}
	opts, err := c.resolve(cfg.Zone)
	if err != nil {
		return err
	}
	if err := c.zone.SetOptions(opts); err != nil {
		return err
	}
	debug.Log(debug.CONFIG, "Zone: applied frame=%s accept=%q effect=%s", cfg.Zone.Frame, opts.AcceptType, opts.DropEffect)
	c.deps.invalidate()
	return nil
}

func (c *ZoneController) callbacks() dnd.Callbacks {
	return dnd.Callbacks{
		OnDrop:        c.onDrop,
		OnFrameDrop:   c.onFrameDrop,
		OnStateChange: func(old, next dnd.State) { c.deps.invalidate() },
	}
}

func (c *ZoneController) acceptType() string {
	if c.zone == nil {
		return ""
	}
	return c.zone.Options().AcceptType
}

func (c *ZoneController) onDrop(files dnd.FileList, ev *dnd.Event) {
	debug.Log(debug.APP, "Zone: delivered %d files", len(files))
	c.journal.Record(store.Delivered, c.acceptType(), files)
	c.deps.toast("Dropped "+fs.Summary(files), ui.ToastSuccess)
}

func (c *ZoneController) onFrameDrop(ev *dnd.Event) {
	var files dnd.FileList
	if ev.Transfer != nil {
		files = ev.Transfer.Files
	}
	c.journal.Record(store.FrameOnly, c.acceptType(), files)
	c.deps.toast("Dropped outside the target", ui.ToastInfo)
}

// auditDrop journals drops the zone swallowed because the pattern rejected them
func (c *ZoneController) auditDrop(ev *dnd.Event) {
	if c.zone == nil || !c.zone.State().TargetReject {
		return
	}
	var files dnd.FileList
	if ev.Transfer != nil {
		files = ev.Transfer.Files
	}
	c.journal.Record(store.Suppressed, c.acceptType(), files)
	c.deps.toast(fmt.Sprintf("Not accepted: %s", c.acceptType()), ui.ToastWarning)
}

// NativeDrop receives an OS file drop. It may run on any goroutine: paths
// are realized by the fs worker and delivered on the UI goroutine.
func (c *ZoneController) NativeDrop(paths []string, x, y int) {
	gen := c.nativeGen.Add(1)
	c.nativeMu.Lock()
	c.nativeAt[gen] = image.Pt(x, y)
	c.nativeMu.Unlock()

	debug.Log(debug.APP, "Zone: native drop of %d paths at (%d,%d) gen=%d", len(paths), x, y, gen)
	if c.deps.FS != nil {
		c.deps.FS.RequestChan <- fs.Request{Op: fs.Realize, Paths: paths, Gen: gen}
	}
}

// HandleRealized delivers realized native drop files at the recorded point.
// Superseded and cancelled walks are discarded.
func (c *ZoneController) HandleRealized(resp fs.Response) *dnd.Event {
	c.nativeMu.Lock()
	pt, ok := c.nativeAt[resp.Gen]
	delete(c.nativeAt, resp.Gen)
	c.nativeMu.Unlock()

	if !ok || resp.Cancelled || resp.Gen != c.nativeGen.Load() {
		debug.Log(debug.APP, "Zone: discarding realized drop gen=%d", resp.Gen)
		return nil
	}
	if resp.Err != nil {
		log.Printf("Zone: realize drop: %v", resp.Err)
		c.deps.toast("Drop failed: "+resp.Err.Error(), ui.ToastError)
		if len(resp.Files) == 0 {
			return nil
		}
	}
	if len(resp.Files) == 0 {
		c.deps.toast("Nothing to drop", ui.ToastWarning)
		return nil
	}
	if resp.Skipped > 0 {
		log.Printf("Zone: %d dropped entries could not be read", resp.Skipped)
	}
	return platform.Deliver(c.bridge.NodeAt(pt), resp.Files)
}

// FillState copies the zone's view into st
func (c *ZoneController) FillState(st *ui.State) {
	if c.zone == nil {
		return
	}
	opts := c.zone.Options()
	st.Phase = c.zone.Phase()
	st.Balance = c.zone.Balance()
	st.AcceptType = opts.AcceptType
	st.DropEffect = string(opts.DropEffect)
	if st.DropEffect == "" {
		st.DropEffect = string(dnd.DropCopy)
	}
	st.FrameLabel = frameLabel(opts.Frame)
	st.TargetVisible = c.zone.TargetVisible()
	st.AlwaysVisible = opts.TargetAlwaysVisible
}

func frameLabel(n *frame.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind() == frame.KindElement {
		return "element:" + n.ID()
	}
	return n.Kind().String()
}
