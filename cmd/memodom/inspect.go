package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/memodom/internal/errors"
	"github.com/vango-dev/memodom/pkg/journal"
	"github.com/vango-dev/memodom/pkg/vdom"
)

func inspectCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "inspect <bundle>",
		Short: "Decode a recorded journal bundle",
		Long: `Decode a journal bundle written by 'memodom demo --journal' or
archived to S3, and print every batch.

Examples:
  memodom inspect session.mdj
  memodom inspect --summary session.mdj`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("M050").
					WithDetail("inspect needs exactly one bundle file").
					WithExample("memodom inspect session.mdj")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.New("M051").Wrap(err)
			}
			return inspect(cmd.OutOrStdout(), data, summary)
		},
	}

	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Print op counts instead of every change")

	return cmd
}

func inspect(w io.Writer, data []byte, summary bool) error {
	batches, err := journal.Split(data)
	if err != nil {
		return err
	}
	total := 0
	for _, b := range batches {
		total += len(b.Changes)
		fmt.Fprintf(w, "batch %d: %d changes\n", b.Seq, len(b.Changes))
		if summary {
			fmt.Fprintf(w, "  %s\n", opSummary(b.Changes))
			continue
		}
		for _, c := range b.Changes {
			fmt.Fprintf(w, "  %s\n", formatChange(c))
		}
	}
	fmt.Fprintf(w, "%d batches, %d changes\n", len(batches), total)
	return nil
}

// formatChange prints the fields an op uses.
func formatChange(c vdom.Change) string {
	switch c.Op {
	case vdom.OpCreateElement:
		return fmt.Sprintf("%-15s #%d <%s>", c.Op, c.ID, c.Value)
	case vdom.OpCreateText, vdom.OpSetText:
		return fmt.Sprintf("%-15s #%d %q", c.Op, c.ID, c.Value)
	case vdom.OpSetAttribute:
		return fmt.Sprintf("%-15s #%d %s=%q", c.Op, c.ID, c.Key, c.Value)
	case vdom.OpRemoveAttribute, vdom.OpAddListener, vdom.OpRemoveListener:
		return fmt.Sprintf("%-15s #%d %s", c.Op, c.ID, c.Key)
	case vdom.OpInsertChild:
		return fmt.Sprintf("%-15s #%d -> #%d[%d]", c.Op, c.ID, c.Parent, c.Index)
	case vdom.OpRemoveChild:
		return fmt.Sprintf("%-15s #%d from #%d", c.Op, c.ID, c.Parent)
	case vdom.OpSaveTemplate, vdom.OpCloneNode:
		return fmt.Sprintf("%-15s template %d #%d", c.Op, c.Template, c.ID)
	default:
		return c.Op.String()
	}
}
