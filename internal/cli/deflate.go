package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zsrspell/zelda64-tools/lib/zelda64"
)

var (
	deflateOutput     string
	deflateExclusions []int
)

var deflateCmd = &cobra.Command{
	Use:   "deflate <rom>",
	Short: "Recompress a 64 MiB decompressed ROM to its 32 MiB form",
	Long: `Recompress a fully decompressed Zelda64 ROM back into a 32 MiB physical
image. Use --exclude with the index of a DMA record to lay it out
uncompressed instead of recompressing it (as inflate's exclusions report),
or a negative index (encoded as the bitwise complement plus one of the
target, i.e. -target) to drop that record's file entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		out, warnings, err := zelda64.Deflate(data, deflateExclusions, nil)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}

		outPath := deflateOutput
		if outPath == "" {
			outPath = args[0] + ".compressed.z64"
		}
		if err := os.WriteFile(outPath, out, 0644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}

		fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(out))
		return nil
	},
}

func init() {
	deflateCmd.Flags().StringVarP(&deflateOutput, "output", "o", "", "Output file path (default: <input>.compressed.z64)")
	deflateCmd.Flags().IntSliceVar(&deflateExclusions, "exclude", nil, "DMA record index to copy uncompressed (negative to drop)")
	rootCmd.AddCommand(deflateCmd)
}
