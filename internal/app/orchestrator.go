package app

import (
	"errors"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"

	"github.com/justyntemme/filedrop/internal/config"
	"github.com/justyntemme/filedrop/internal/debug"
	"github.com/justyntemme/filedrop/internal/fs"
	"github.com/justyntemme/filedrop/internal/platform"
	"github.com/justyntemme/filedrop/internal/store"
	"github.com/justyntemme/filedrop/internal/ui"
)

// Options are the command-line settings passed to the application
type Options struct {
	Debug  bool
	Accept *string // overrides zone.acceptType when set
}

type Orchestrator struct {
	deps    *SharedDeps
	watcher *config.Watcher
	zones   *ZoneController
	journal *JournalController
	opts    Options
}

func NewOrchestrator(opts Options) *Orchestrator {
	window := new(app.Window)
	deps := &SharedDeps{
		Window: window,
		Config: config.NewManager(),
		FS:     fs.NewSystem(),
		State:  NewStateOwner(window),
		Tasks:  &TaskQueue{},
	}
	return &Orchestrator{deps: deps, opts: opts}
}

func (o *Orchestrator) Run() error {
	if o.opts.Debug {
		log.Println("Starting filedrop in DEBUG mode")
	}

	cfgMgr := o.deps.Config
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Config: %v", err)
	}
	if err := cfgMgr.ParseError(); err != nil {
		o.deps.State.SetConfigError(err.Error())
	}
	cfg := cfgMgr.Get()
	o.applyDebug(cfg.Debug)

	// Journal
	if cfg.Journal.Enabled {
		path := cfg.Journal.Path
		if path == "" {
			path = store.DefaultPath()
		}
		db := store.NewDB()
		if err := db.Open(path); err != nil {
			log.Printf("Failed to open journal: %v", err)
		} else {
			o.deps.Store = db
			defer db.Close()
			go db.Start()
		}
	}
	o.journal = NewJournalController(o.deps, cfg.Journal.RecentLimit)

	// Zone and renderer
	o.zones = NewZoneController(o.deps, o.journal, o.opts.Accept)
	if err := o.zones.Mount(cfg.Zone); err != nil {
		var cfgErr *config.ConfigError
		if !errors.As(err, &cfgErr) {
			return err
		}
		o.deps.State.SetConfigError(err.Error())
	}
	defer o.zones.Unmount()

	r := ui.NewRenderer(o.zones.Bridge(), ui.DefaultSources())
	r.Debug = o.opts.Debug
	o.deps.UI = r

	// Workers
	go o.deps.FS.Start()
	platform.SetDropHandler(o.zones.NativeDrop)
	defer platform.SetDropHandler(nil)

	if w, err := config.NewWatcher(cfgMgr, 200); err != nil {
		log.Printf("Config watcher disabled: %v", err)
	} else {
		o.watcher = w
		defer w.Close()
	}
	go o.processEvents()
	o.journal.Refresh()

	o.deps.Window.Option(
		app.Title(cfg.Window.Title),
		app.Size(unit.Dp(cfg.Window.Width), unit.Dp(cfg.Window.Height)),
	)

	// Event loop
	var ops op.Ops
	for {
		switch e := o.deps.Window.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			o.deps.Tasks.Drain()
			gtx := app.NewContext(&ops, e)

			snap := o.deps.State.GetSnapshot()
			state := ui.State{Journal: snap.Journal, ConfigError: snap.ConfigError}
			o.zones.FillState(&state)

			evt := o.deps.UI.Layout(gtx, &state)
			o.handleUIEvent(evt)
			e.Frame(gtx.Ops)
		default:
			o.handlePlatformEvent(e)
		}
	}
}

func (o *Orchestrator) handleUIEvent(evt ui.UIEvent) {
	switch evt.Action {
	case ui.ActionSetAccept:
		// a pattern picked in the window replaces any -accept override
		o.opts.Accept = nil
		o.zones.acceptOverride = nil
		o.deps.Config.SetAcceptType(evt.Accept)
		o.applyConfig(o.deps.Config.Get())
	case ui.ActionToggleTargetVisible:
		zone := o.deps.Config.GetZone()
		o.deps.Config.SetTargetAlwaysVisible(!zone.TargetAlwaysVisible)
		o.applyConfig(o.deps.Config.Get())
	case ui.ActionClearJournal:
		o.journal.Clear()
	case ui.ActionDismissError:
		o.deps.State.SetConfigError("")
	case ui.ActionOpen:
		if err := platformOpen(evt.Path); err != nil {
			log.Printf("Error opening file: %v", err)
			o.deps.toast("Could not open "+evt.Path, ui.ToastError)
		}
	}
}

// applyConfig runs on the UI goroutine
func (o *Orchestrator) applyConfig(cfg config.Config) {
	if err := o.zones.Apply(cfg); err != nil {
		log.Printf("Config: %v", err)
		o.deps.State.SetConfigError(err.Error())
		return
	}
	o.deps.State.SetConfigError("")
	o.applyDebug(cfg.Debug)
}

func (o *Orchestrator) applyDebug(dc config.DebugConfig) {
	if !debug.Enabled || os.Getenv("FILEDROP_DEBUG") != "" {
		return
	}
	cats := make(map[debug.Category]bool, len(dc.Categories))
	for _, c := range dc.Categories {
		cats[debug.Category(c)] = true
	}
	debug.SetCategories(cats)
}

// processEvents forwards worker results. Anything touching the zone is
// posted to the UI goroutine.
func (o *Orchestrator) processEvents() {
	var storeResp <-chan store.Response
	if o.deps.Store != nil {
		storeResp = o.deps.Store.ResponseChan
	}
	var cfgNotify <-chan config.Config
	if o.watcher != nil {
		cfgNotify = o.watcher.Notify()
	}

	for {
		select {
		case resp := <-o.deps.FS.ResponseChan:
			o.deps.Tasks.Post(func() { o.zones.HandleRealized(resp) })
			o.deps.invalidate()
		case resp := <-storeResp:
			o.journal.HandleResponse(resp)
		case cfg := <-cfgNotify:
			debug.Log(debug.CONFIG, "Config reloaded from disk")
			o.deps.Tasks.Post(func() { o.applyConfig(cfg) })
			o.deps.invalidate()
		}
	}
}

func Main(opts Options) {
	go func() {
		o := NewOrchestrator(opts)
		if err := o.Run(); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}
