package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/typematrix/internal/catalog"
)

// CategoryInfo describes one value category on the selected target.
type CategoryInfo struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Width   int      `json:"width_bits"`
	Samples []string `json:"samples"`
}

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List value categories with their widths and samples",
		Long: `List every value category with its storage width on the selected
target, its sample count and its samples.

Examples:
  typematrix categories
  typematrix categories --target 386 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCategories(rootOpts, cmd)
		},
	}
}

func describeCategories(t catalog.Target) ([]CategoryInfo, error) {
	infos := make([]CategoryInfo, 0, len(catalog.All()))
	for _, c := range catalog.All() {
		samples, err := catalog.SamplesFor(c)
		if err != nil {
			return nil, err
		}
		rendered := make([]string, len(samples))
		for i, v := range samples {
			rendered[i] = catalog.Render(v)
		}
		infos = append(infos, CategoryInfo{
			Name:    c.String(),
			Kind:    string(c.Kind()),
			Width:   c.Width(t),
			Samples: rendered,
		})
	}
	return infos, nil
}

func listCategories(opts *RootOptions, cmd *cobra.Command) error {
	infos, err := describeCategories(opts.Settings.Target)
	if err != nil {
		return WrapExitError(ExitCommandError, "catalog", err)
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(infos)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "CATEGORY\tKIND\tBITS (%s)\tSAMPLES\tVALUES\n", opts.Settings.Target.Arch)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%v\n", info.Name, info.Kind, info.Width, len(info.Samples), info.Samples)
	}
	return tw.Flush()
}
