package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw965/mnistm/dataset"
)

var flagInfoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the dataset schema and metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := dataset.Describe()
		out := cmd.OutOrStdout()
		if flagInfoJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		fmt.Fprintf(out, "name:            %s (%s)\n", info.Name, info.Version)
		fmt.Fprintf(out, "homepage:        %s\n", info.Homepage)
		fmt.Fprintf(out, "image shape:     %v\n", info.Features.Image.Shape)
		fmt.Fprintf(out, "num classes:     %d\n", info.Features.Label.NumClasses)
		fmt.Fprintf(out, "supervised keys: (%s, %s)\n", info.SupervisedKeys[0], info.SupervisedKeys[1])
		fmt.Fprintf(out, "description:     %s\n", info.Description)
		fmt.Fprintf(out, "manual download: %s\n", info.ManualDownloadInstructions)
		return nil
	},
}

var splitsCmd = &cobra.Command{
	Use:   "splits",
	Short: "Show the paths the adapter expects for each split",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newAdapter(fs)
		out := cmd.OutOrStdout()
		for _, desc := range m.Splits() {
			fmt.Fprintf(out, "%s\timages=%s\tlabels=%s\n", desc.Name, desc.ImagesDir, desc.LabelsPath)
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&flagInfoJSON, "json", false, "output the schema as JSON")
	RootCmd.AddCommand(infoCmd)
	RootCmd.AddCommand(splitsCmd)
}
