package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/guestdrop/service/internal/batch"
)

type UploadOptions struct {
	files []batch.File

	Server  string
	Code    string
	Timeout time.Duration
	Verbose bool

	iooption.IOStreams
}

var (
	uploadLong = templates.LongDesc(`
		Upload up to 50 photos or videos. Each file gets its own short-lived
		upload URL and is sent before the next one starts. A rejected event
		code stops the batch; other failures are reported per file.`)

	uploadExample = templates.Examples(`
		# Upload two photos
		guestdrop upload --code party2026 IMG_0001.jpg IMG_0002.jpg

		# Read the code from the environment and use a custom server
		EVENT_CODE=party2026 guestdrop upload --server https://drop.example.com *.mp4`)
)

func NewUploadOptions(streams iooption.IOStreams) *UploadOptions {
	return &UploadOptions{
		IOStreams: streams,
	}
}

func NewUploadCommand(o *UploadOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "upload [FILE]...",
		DisableFlagsInUseLine: true,
		Short:                 "Upload photos and videos to the event",
		Long:                  uploadLong,
		Example:               uploadExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}

	cmd.Flags().StringVarP(&o.Server, "server", "s", "http://localhost:8080", "Base URL of the upload service")
	cmd.Flags().StringVarP(&o.Code, "code", "c", os.Getenv("EVENT_CODE"), "Event code (default: $EVENT_CODE)")
	cmd.Flags().DurationVarP(&o.Timeout, "timeout", "t", 30*time.Second, "Timeout for each upload URL request and for the storage response after a file is sent")
	cmd.Flags().BoolVarP(&o.Verbose, "verbose", "v", false, "Log each upload")

	return cmd
}

func (o *UploadOptions) Complete(cmd *cobra.Command, args []string) error {
	o.files = make([]batch.File, 0, len(args))
	for _, path := range args {
		f, err := batch.FromPath(path)
		if err != nil {
			return err
		}
		o.files = append(o.files, f)
	}
	return nil
}

func (o *UploadOptions) Validate() error {
	if err := batch.ValidateSelection(o.files); err != nil {
		return err
	}
	if strings.TrimSpace(o.Code) == "" {
		return batch.ErrNoEventCode
	}
	return nil
}

func (o *UploadOptions) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	level := log.WarnLevel
	if o.Verbose {
		level = log.DebugLevel
	}
	logger := slog.New(log.NewWithOptions(o.ErrOut, log.Options{
		ReportTimestamp: true,
		Level:           level,
	}))

	client := batch.NewHTTPClient(o.Server, o.Timeout)
	renderer := newStatusRenderer(o.Out)
	orchestrator := batch.NewOrchestrator(client, client, renderer.Render, logger)

	fmt.Fprintf(o.Out, "Uploading %d file(s) to %s\n", len(o.files), o.Server)
	state, err := orchestrator.Run(ctx, o.Code, o.files)
	if err != nil {
		return err
	}

	if state.CodeError != "" {
		return errors.New(state.CodeError)
	}
	if state.HasErrors() || state.Canceled {
		return errors.New(state.Summary())
	}
	return nil
}
