// Package host answers trigger and toggle messages from a browser host over
// the native-messaging wire format.
package host

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/pagesimplify/core"
	"github.com/gaurav-prasanna/pagesimplify/core/pipeline"
	"github.com/gaurav-prasanna/pagesimplify/core/render"
	"github.com/gaurav-prasanna/pagesimplify/core/selector"
	"github.com/gaurav-prasanna/pagesimplify/core/simplify"
	"github.com/gaurav-prasanna/pagesimplify/core/toggle"
	"go.uber.org/zap"
)

// Actions understood by the dispatcher.
const (
	ActionSimplify       = "simplify"
	ActionToggleOriginal = "toggleOriginal"
)

// SimplifyResponse answers a simplify trigger.
type SimplifyResponse struct {
	Success   bool   `json:"success"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Attempted int    `json:"attempted"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ToggleResponse answers a toggleOriginal request.
type ToggleResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Settings persists the caller's last choices.
type Settings interface {
	SaveLevel(level string) error
	SaveShowOriginal(show bool) error
}

// Dispatcher routes one decoded message to the pipeline or the toggle.
type Dispatcher struct {
	Tree     core.ContentTree
	Selector *selector.Selector
	Client   core.Simplifier
	Pipeline pipeline.Config
	Settings Settings // optional
	// DefaultLevel is used by triggers without a level, normally the saved
	// setting. Empty means simplify.DefaultLevel.
	DefaultLevel string
	Logger       *zap.Logger
	// PipelineOptions are appended to every pipeline built for a trigger.
	PipelineOptions []pipeline.Option
}

// Handle decodes raw and returns the response to send back, plus whether
// the page was modified.
func (d *Dispatcher) Handle(ctx context.Context, raw []byte) (any, bool) {
	log := d.logger()

	var req struct {
		Action       string `json:"action"`
		Level        string `json:"level"`
		ShowOriginal bool   `json:"showOriginal"`
		Show         *bool  `json:"show"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Warn("malformed message", zap.Error(err))
		return ToggleResponse{Error: fmt.Sprintf("invalid JSON: %v", err)}, false
	}

	switch req.Action {
	case ActionSimplify:
		return d.simplify(ctx, req.Level, req.ShowOriginal)
	case ActionToggleOriginal:
		if req.Show == nil {
			return ToggleResponse{Error: "show is required"}, false
		}
		return d.toggle(*req.Show)
	default:
		log.Warn("unknown action", zap.String("action", req.Action))
		return ToggleResponse{Error: fmt.Sprintf("unknown action %q", req.Action)}, false
	}
}

func (d *Dispatcher) simplify(ctx context.Context, level string, showOriginal bool) (SimplifyResponse, bool) {
	if level == "" {
		level = d.DefaultLevel
	}
	if level == "" {
		level = simplify.DefaultLevel
	}
	level, err := simplify.ParseLevel(level)
	if err != nil {
		return SimplifyResponse{Error: err.Error()}, false
	}

	opts := append([]pipeline.Option{pipeline.WithLogger(d.logger())}, d.PipelineOptions...)
	p := pipeline.New(d.Tree, d.Selector, d.Client, d.Pipeline, opts...)
	out, err := p.Run(ctx, pipeline.Request{Level: level, ShowOriginal: showOriginal})

	resp := SimplifyResponse{
		Succeeded: out.Succeeded,
		Failed:    out.Failed,
		Attempted: out.Attempted,
	}
	if err != nil {
		resp.Error = err.Error()
		return resp, out.Found
	}
	resp.Success = true
	if !out.Found {
		resp.Message = render.NoTextMessage
		return resp, false
	}

	d.DefaultLevel = level
	if d.Settings != nil {
		if err := d.Settings.SaveLevel(level); err != nil {
			d.logger().Warn("cannot save level", zap.Error(err))
		}
	}
	return resp, true
}

func (d *Dispatcher) toggle(show bool) (ToggleResponse, bool) {
	n := toggle.SetOriginalVisible(d.Tree, show)
	d.logger().Debug("toggled originals", zap.Bool("show", show), zap.Int("annotations", n))

	if d.Settings != nil {
		if err := d.Settings.SaveShowOriginal(show); err != nil {
			return ToggleResponse{Error: fmt.Sprintf("saving setting: %v", err)}, n > 0
		}
	}
	return ToggleResponse{Success: true}, n > 0
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
