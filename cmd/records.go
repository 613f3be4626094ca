package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/sw965/mnistm/blas32/tensor/3d"
	"github.com/sw965/mnistm/dataset"
)

// fs はコマンドが読むファイルシステム。テストでは MemMapFs に差し替える。
var fs afero.Fs = afero.NewOsFs()

var (
	flagSplit string
	flagLimit int
	flagOut   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the (index, label, shape) of each record of a split",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newAdapter(fs)
		desc, err := splitFromFlag(m, flagSplit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for example, err := range m.Generate(desc) {
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d\t%d\t%v\n", example.Index, example.Record.Label, example.Record.Image.Shape())
			// 次の行を読む前に止める。
			if flagLimit > 0 && example.Index+1 >= flagLimit {
				break
			}
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Materialize a split into a gob file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagOut == "" {
			return fmt.Errorf("--out is required")
		}
		m := newAdapter(fs)
		desc, err := splitFromFlag(m, flagSplit)
		if err != nil {
			return err
		}
		split, err := m.Load(desc)
		if err != nil {
			return err
		}
		if err := dataset.SaveGob(split, flagOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d records written to %s\n", split.Len(), flagOut)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the per-channel mean and standard deviation of a split",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newAdapter(fs)
		desc, err := splitFromFlag(m, flagSplit)
		if err != nil {
			return err
		}
		split, err := m.Load(desc)
		if err != nil {
			return err
		}
		means, stds, err := tensor3d.ChannelStats(split.Images)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for ch := range means {
			fmt.Fprintf(out, "channel %d\tmean=%.4f\tstd=%.4f\n", ch, means[ch], stds[ch])
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that every record of a split decodes to the declared shape",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newAdapter(fs)
		desc, err := splitFromFlag(m, flagSplit)
		if err != nil {
			return err
		}
		report, err := m.Check(desc)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d records\n", report.Split, report.Total)
		for label, n := range report.PerClass {
			fmt.Fprintf(out, "  class %d: %d\n", label, n)
		}
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, exportCmd, statsCmd, checkCmd} {
		c.Flags().StringVarP(&flagSplit, "split", "s", string(dataset.Train), "split name (train or test)")
		RootCmd.AddCommand(c)
	}
	generateCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "stop after n records (0 for all)")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "destination gob file")
}
