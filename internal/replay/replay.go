// Package replay drives a drop zone from a recorded event trace.
//
// A trace describes a host element tree, the zone options, and an ordered
// list of steps. Each step either dispatches one drag event at a node or
// reconfigures the zone. Run reports the phase and callbacks after every
// step, which makes traces usable both as regression fixtures and for
// checking how a platform's event stream is classified.
package replay

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/justyntemme/filedrop/internal/accept"
	"github.com/justyntemme/filedrop/internal/config"
	"github.com/justyntemme/filedrop/internal/dnd"
	"github.com/justyntemme/filedrop/internal/dropzone"
	"github.com/justyntemme/filedrop/internal/frame"
)

// Trace is the YAML document
type Trace struct {
	Name                string        `yaml:"name"`
	Frame               string        `yaml:"frame"` // config syntax: document, window, element:<id>
	Target              string        `yaml:"target"`
	AcceptType          string        `yaml:"acceptType"`
	DropEffect          string        `yaml:"dropEffect"`
	TargetAlwaysVisible bool          `yaml:"targetAlwaysVisible"`
	Tree                []ElementSpec `yaml:"tree"` // children of the document
	Steps               []Step        `yaml:"steps"`
}

// ElementSpec declares one element and its children
type ElementSpec struct {
	ID       string        `yaml:"id"`
	Children []ElementSpec `yaml:"children"`
}

// Step is one event dispatch or one reconfiguration
type Step struct {
	Type          string     `yaml:"type"` // dragenter, dragleave, dragover, drop
	At            string     `yaml:"at"`   // element id, "document", or "window"
	EffectAllowed string     `yaml:"effectAllowed"`
	Items         []ItemSpec `yaml:"items"`
	Files         []FileSpec `yaml:"files"`

	SetFrame  string  `yaml:"setFrame"`  // reconfigure: new frame in config syntax
	SetAccept *string `yaml:"setAccept"` // reconfigure: new accept pattern
}

// ItemSpec is a dragged item descriptor
type ItemSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// FileSpec is a realized file for drop steps
type FileSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Size int64  `yaml:"size"`
}

// Result describes the zone after one step
type Result struct {
	Index            int
	Step             string
	Phase            dnd.Phase
	Balance          int
	Callbacks        []string
	DefaultPrevented bool
	DroppedFiles     int
}

func (r Result) String() string {
	cbs := "-"
	if len(r.Callbacks) > 0 {
		cbs = strings.Join(r.Callbacks, ",")
	}
	return fmt.Sprintf("%3d  %-28s %-18s balance=%d callbacks=%s", r.Index, r.Step, r.Phase, r.Balance, cbs)
}

// Load reads and decodes a trace file
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a trace, rejecting unknown keys
func Decode(r io.Reader) (*Trace, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var t Trace
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	if t.Frame == "" {
		t.Frame = config.FrameDocument
	}
	if t.DropEffect == "" {
		t.DropEffect = string(dnd.DropCopy)
	}
	if len(t.Tree) == 0 {
		t.Tree = []ElementSpec{{ID: "frame", Children: []ElementSpec{{ID: "target"}}}}
	}
	if t.Target == "" {
		t.Target = "target"
	}
	return &t, nil
}

// Build creates the host tree declared by t
func (t *Trace) Build() *frame.Node {
	w := frame.NewWindow()
	var add func(parent *frame.Node, specs []ElementSpec)
	add = func(parent *frame.Node, specs []ElementSpec) {
		for _, s := range specs {
			add(parent.Append(s.ID), s.Children)
		}
	}
	add(w.Document(), t.Tree)
	return w
}

func lookup(w *frame.Node, id string) (*frame.Node, error) {
	switch id {
	case "window":
		return w, nil
	case "document", "":
		return w.Document(), nil
	}
	if n := w.Find(id); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("no element %q in trace tree", id)
}

// Run mounts a zone for t and plays every step. It stops at the first
// invalid step and returns the results gathered so far.
func Run(t *Trace) ([]Result, error) {
	w := t.Build()
	zc := config.ZoneConfig{
		Frame:               t.Frame,
		AcceptType:          t.AcceptType,
		DropEffect:          t.DropEffect,
		TargetAlwaysVisible: t.TargetAlwaysVisible,
	}
	opts, err := dropzone.OptionsFromConfig(zc, w)
	if err != nil {
		return nil, err
	}
	target, err := lookup(w, t.Target)
	if err != nil {
		return nil, err
	}

	var (
		calls   []string
		dropped int
	)
	cb := dnd.Callbacks{
		OnDrop: func(files dnd.FileList, ev *dnd.Event) {
			calls = append(calls, "drop")
			dropped = len(files)
		},
		OnDragOver:       func(ev *dnd.Event) { calls = append(calls, "dragover") },
		OnDragLeave:      func(ev *dnd.Event) { calls = append(calls, "dragleave") },
		OnFrameDragEnter: func(ev *dnd.Event) { calls = append(calls, "frameenter") },
		OnFrameDragLeave: func(ev *dnd.Event) { calls = append(calls, "frameleave") },
		OnFrameDrop:      func(ev *dnd.Event) { calls = append(calls, "framedrop") },
	}

	zone, err := dropzone.Mount(opts, target, cb)
	if err != nil {
		return nil, err
	}
	defer zone.Unmount()

	results := make([]Result, 0, len(t.Steps))
	for i, st := range t.Steps {
		calls, dropped = nil, 0
		res := Result{Index: i}

		switch {
		case st.SetFrame != "" || st.SetAccept != nil:
			next := zone.Options()
			if st.SetFrame != "" {
				zc.Frame = st.SetFrame
			}
			if st.SetAccept != nil {
				zc.AcceptType = *st.SetAccept
			}
			resolved, err := dropzone.OptionsFromConfig(zc, w)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i, err)
			}
			next.Frame = resolved.Frame
			next.AcceptType = resolved.AcceptType
			if err := zone.SetOptions(next); err != nil {
				return results, fmt.Errorf("step %d: %w", i, err)
			}
			res.Step = "reconfigure " + zc.Frame
		default:
			n, err := lookup(w, st.At)
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i, err)
			}
			typ := dnd.EventType(st.Type)
			switch typ {
			case dnd.DragEnter, dnd.DragLeave, dnd.DragOver, dnd.Drop:
			default:
				return results, fmt.Errorf("step %d: unknown event type %q", i, st.Type)
			}
			ev := dnd.NewEvent(typ, st.transfer())
			n.Dispatch(ev)
			res.Step = fmt.Sprintf("%s@%s", st.Type, n.ID())
			res.DefaultPrevented = ev.DefaultPrevented()
		}

		res.Phase = zone.Phase()
		res.Balance = zone.Balance()
		res.Callbacks = calls
		res.DroppedFiles = dropped
		results = append(results, res)
	}
	return results, nil
}

func (st Step) transfer() *dnd.Transfer {
	effect := st.EffectAllowed
	if effect == "" {
		effect = dnd.EffectAll
	}
	t := &dnd.Transfer{EffectAllowed: effect}
	for _, it := range st.Items {
		t.Items = append(t.Items, accept.Item{Name: it.Name, Type: it.Type})
	}
	for _, f := range st.Files {
		t.Files = append(t.Files, dnd.File{Name: f.Name, Type: f.Type, Size: f.Size})
	}
	return t
}
