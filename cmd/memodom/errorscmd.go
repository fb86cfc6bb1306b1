package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/memodom/internal/errors"
)

func errorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "errors [code]",
		Short: "List error codes or explain one",
		Long: `Without an argument, list every registered error code. With a code,
print its explanation in the --output format.

Examples:
  memodom errors
  memodom errors M006 --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listCodes(cmd.OutOrStdout())
			}
			return explainCode(cmd.OutOrStdout(), args[0], errorOutput())
		},
	}
}

func listCodes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, code := range errors.Codes() {
		t, _ := errors.GetTemplate(code)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", code, t.Category, t.Message)
	}
	return tw.Flush()
}

func explainCode(w io.Writer, code string, out errors.Output) error {
	if _, ok := errors.GetTemplate(code); !ok {
		return errors.New("M050").
			WithDetail(fmt.Sprintf("%q is not a registered error code", code)).
			WithSuggestion("Run memodom errors to list the codes")
	}
	errors.Fprint(w, errors.New(code), out)
	return nil
}
