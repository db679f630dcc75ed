// Package batch uploads a guest's selected files one at a time through the
// upload URL issuer, tracking each file's status.
package batch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// RenderFunc receives the batch state after every change. The state is
// owned by the orchestrator; renderers must not keep or mutate it.
type RenderFunc func(*State)

// Orchestrator runs a batch strictly sequentially: each file's URL request
// and write finish before the next file starts.
type Orchestrator struct {
	issuer Issuer
	writer Writer
	render RenderFunc
	log    *slog.Logger
}

// NewOrchestrator creates an Orchestrator. render and log may be nil.
func NewOrchestrator(issuer Issuer, writer Writer, render RenderFunc, log *slog.Logger) *Orchestrator {
	if render == nil {
		render = func(*State) {}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{issuer: issuer, writer: writer, render: render, log: log}
}

// Run validates the selection and uploads files in order. A rejected event
// code halts the batch and leaves the remaining files pending; any other
// failure is recorded on its file and the batch moves on. The returned
// error covers only selection problems.
func (o *Orchestrator) Run(ctx context.Context, eventCode string, files []File) (*State, error) {
	if err := ValidateSelection(files); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(eventCode)
	if code == "" {
		return nil, ErrNoEventCode
	}

	state := newState(files)
	state.Uploading = true
	o.render(state)

	for i, f := range files {
		if ctx.Err() != nil {
			state.Canceled = true
			break
		}

		state.Statuses[i].Status = StatusUploading
		o.render(state)

		err := o.uploadOne(ctx, code, f)
		if err == nil {
			state.Statuses[i].Status = StatusSuccess
			o.log.Info("uploaded", "file", f.Name)
			o.render(state)
			continue
		}

		state.Statuses[i].Status = StatusError
		state.Statuses[i].Error = err.Error()
		o.log.Warn("upload failed", "file", f.Name, "error", err)

		if errors.Is(err, ErrInvalidEventCode) {
			state.CodeError = ErrInvalidEventCode.Error()
			break
		}
		o.render(state)
	}

	state.Uploading = false
	o.render(state)
	return state, nil
}

func (o *Orchestrator) uploadOne(ctx context.Context, code string, f File) error {
	url, err := o.issuer.RequestURL(ctx, URLRequest{
		FileName:    f.Name,
		ContentType: f.ContentType,
		EventCode:   code,
	})
	if err != nil {
		return err
	}
	return o.writer.Put(ctx, url, f)
}
