package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliflag "github.com/tomasbasham/cli-runtime/flag"
	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/printer"
	"github.com/tomasbasham/cli-runtime/templates"
)

var (
	rootLong = templates.LongDesc(`
		Share photos and videos from an event. Files are uploaded one at a
		time straight to the event's storage, gated by the event code.`)

	// Injected at build time using ldflags.
	version = ""
	commit  = ""
)

// DropOptions defines the options for the root command.
type DropOptions struct {
	iooption.IOStreams
}

// NewDropOptions provides an initialised DropOptions instance.
func NewDropOptions(streams iooption.IOStreams) *DropOptions {
	return &DropOptions{
		IOStreams: streams,
	}
}

// NewRootCommand creates the root command with default arguments.
func NewRootCommand() *cobra.Command {
	options := NewDropOptions(iooption.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})

	return NewRootCommandWithArgs(options)
}

// NewRootCommandWithArgs creates the root command and its nested children.
func NewRootCommandWithArgs(o *DropOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "guestdrop [command]",
		Version:               versionInfo(),
		DisableFlagsInUseLine: true,
		Short:                 "Upload event photos and videos",
		Long:                  rootLong,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}

	printerOpts := printer.WarningPrinterOptions{Color: true}
	warnings := printer.NewWarningPrinter(o.ErrOut, printerOpts)
	cmd.SetGlobalNormalizationFunc(cliflag.WarnWordSepNormalizeFunc(warnings))

	cmd.AddCommand(NewUploadCommand(NewUploadOptions(o.IOStreams)))

	cmd.SetGlobalNormalizationFunc(cliflag.WordSepNormalizeFunc())

	return cmd
}

func versionInfo() string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("%s (commit: %s)", version, commit)
}
