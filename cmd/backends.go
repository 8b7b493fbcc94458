package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smazurov/soundnode/pkg/soundio"
)

// CreateBackendsCmd creates the backends command. registry is called after
// flags and config have been applied.
func CreateBackendsCmd(registry func() *soundio.Registry) *cobra.Command {
	var availableOnly bool

	cmd := &cobra.Command{
		Use:   "backends",
		Short: "List compiled-in audio backends",
		Long: `Lists every audio backend compiled into this binary in connection priority order, ` +
			`and whether each one can be used on this system right now. The names are the values accepted by --backend.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return WriteBackends(c.OutOrStdout(), registry(), availableOnly)
		},
	}
	cmd.Flags().BoolVarP(&availableOnly, "available", "a", false, "Only list backends usable on this system")
	return cmd
}

// WriteBackends writes one line per backend: its name and availability.
func WriteBackends(w io.Writer, registry *soundio.Registry, availableOnly bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, kind := range registry.Compiled() {
		available := registry.IsAvailable(kind)
		if availableOnly && !available {
			continue
		}
		status := "unavailable"
		if available {
			status = "available"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", kind, status); err != nil {
			return err
		}
	}
	return tw.Flush()
}
