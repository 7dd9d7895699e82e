package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/betl-dev/betl/internal/banks"
)

func newBanksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported banks and their export layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBanks(cmd.OutOrStdout(), banks.DefaultRegistry())
		},
	}
}

func runBanks(out io.Writer, reg *banks.Registry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BANK\tFORMAT\tSKIP\tWORKSHEET\tACCOUNT")
	for _, id := range reg.Banks() {
		d, _ := reg.Get(string(id))
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", d.Bank, d.Format, d.SkipRows, worksheet(d), d.Account)
	}
	return tw.Flush()
}

// worksheet describes where a bank's worksheet name comes from when
// --sheet is not given.
func worksheet(d banks.Definition) string {
	switch {
	case d.Policy == banks.SectionNone:
		return "-"
	case d.Policy == banks.SectionDefault:
		return d.DefaultSection
	case d.Hint == banks.HintFileStem:
		return "file name"
	case d.Hint == banks.HintFixed:
		return d.HintSection
	default:
		return "--sheet required"
	}
}
