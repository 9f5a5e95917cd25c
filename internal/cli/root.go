// Package cli implements the zelda64 command-line tool: thin cobra
// commands wrapping the lib/rom, lib/yaz0, lib/zelda64, and lib/zpf
// transformations.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zelda64",
	Short: "Inspect, inflate, deflate, and patch Zelda64-family N64 ROMs",
	Long: `zelda64 operates on Zelda64-family (Ocarina of Time, Majora's Mask, and
siblings) N64 ROM images: inflating a compressed 32 MiB ROM to its fully
decompressed 64 MiB form, applying a ZPFv1 differential patch, and
deflating a decompressed ROM back to a 32 MiB compressed image.`,
	SilenceUsage: true,
}

// Execute runs the zelda64 command tree.
func Execute() error {
	return rootCmd.Execute()
}
