package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zsrspell/zelda64-tools/lib/zpf"
)

var patchOutput string

var patchCmd = &cobra.Command{
	Use:   "patch <rom> <patch.zpf>",
	Short: "Apply a ZPFv1 patch to a decompressed ROM",
	Long: `Apply a ZPFv1 differential patch to a decompressed Zelda64 ROM, producing
a new ROM of identical size with the patch's DMA table edits and XOR-coded
data blocks applied.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rom, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		patch, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[1], err)
		}

		out, err := zpf.Apply(rom, patch)
		if err != nil {
			return err
		}

		outPath := patchOutput
		if outPath == "" {
			outPath = args[0] + ".patched.z64"
		}
		if err := os.WriteFile(outPath, out, 0644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}

		fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(out))
		return nil
	},
}

func init() {
	patchCmd.Flags().StringVarP(&patchOutput, "output", "o", "", "Output file path (default: <input>.patched.z64)")
	rootCmd.AddCommand(patchCmd)
}
