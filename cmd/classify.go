package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/navinject/internal/nav"
)

var classifyCmd = &cobra.Command{
	Use:     "classify PATH...",
	Short:   "Show how pages are classified and where their fragment is fetched from",
	Example: `  navinject classify / /index.html /github-io/about.html`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cfg.InjectorOptions()
		mode, err := nav.ParsePathMode(string(opts.PathMode))
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tKIND\tFRAGMENT")
		for _, p := range args {
			kind := nav.Classify(p, opts.Links.RootFile)
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p, kind, nav.ResolveFragmentPath(p, kind, opts.FragmentPath, mode))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
