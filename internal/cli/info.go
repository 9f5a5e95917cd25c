package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zsrspell/zelda64-tools/lib/rom"
)

var infoNormalize bool

var infoCmd = &cobra.Command{
	Use:   "info <rom>",
	Short: "Print detected ROM properties",
	Long: `Parse a ROM and report its byte order, CIC boot variant, DMA table
location and record count, game title, and DMA non-overlap status —
without transforming it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		r, err := rom.Open(data, infoNormalize)
		if err != nil {
			return err
		}
		info := r.Info()

		fmt.Printf("Title:       %s\n", info.Title)
		fmt.Printf("Game code:   %s\n", info.GameCode)
		fmt.Printf("Byte order:  %s\n", info.ByteOrder)
		fmt.Printf("CIC:         %d\n", info.CICVersion)
		fmt.Printf("DMA offset:  %#x\n", info.DMAOffset)
		fmt.Printf("DMA records: %d\n", info.DMACount)

		if err := r.VerifyNonOverlapping(); err != nil {
			fmt.Printf("DMA overlap: %v\n", err)
		} else {
			fmt.Println("DMA overlap: none")
		}

		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoNormalize, "normalize", false, "Normalize byte order in place before inspecting")
	rootCmd.AddCommand(infoCmd)
}
