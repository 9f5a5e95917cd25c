package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zsrspell/zelda64-tools/lib/zelda64"
)

var inflateOutput string

var inflateCmd = &cobra.Command{
	Use:   "inflate <rom>",
	Short: "Decompress a 32 MiB compressed ROM to its 64 MiB form",
	Long: `Expand a Yaz0-compressed Zelda64 ROM into the fully decompressed 64 MiB
image the game engine runs against, rewriting every DMA record to its new
virtual-addressed location and recomputing the header checksums.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		result, err := zelda64.Inflate(data)
		if err != nil {
			return err
		}

		out := inflateOutput
		if out == "" {
			out = args[0] + ".decompressed.z64"
		}
		if err := os.WriteFile(out, result.Data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		fmt.Printf("Wrote %s (%d bytes, %d exclusions)\n", out, len(result.Data), len(result.Exclusions))
		return nil
	},
}

func init() {
	inflateCmd.Flags().StringVarP(&inflateOutput, "output", "o", "", "Output file path (default: <input>.decompressed.z64)")
	rootCmd.AddCommand(inflateCmd)
}
