package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/campus-runner/internal/games/campus/sim"
)

var charactersCmd = &cobra.Command{
	Use:   "characters",
	Short: "Show the playable majors",
	Long: `List every playable major with its modifiers.

Pass the name to 'campus play --character <name>' to skip the picker.`,
	Args: cobra.NoArgs,
	Run:  runCharacters,
}

func runCharacters(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "  %-11s  %-11s  %-5s  %-8s  %-7s  %s\n", "Name", "Major", "Jump", "Recovery", "Stamina", "About")
	fmt.Fprintf(out, "  %-11s  %-11s  %-5s  %-8s  %-7s  %s\n", "----", "-----", "----", "--------", "-------", "-----")
	for _, c := range sim.Characters() {
		mod := c.Modifiers()
		fmt.Fprintf(out, "  %-11s  %-11s  x%-4.1f  x%-7.1f  x%-6.1f  %s\n",
			c, c.Title(), mod.JumpForce, mod.RecoverySpeed, mod.MaxStamina, c.Blurb())
	}
}
