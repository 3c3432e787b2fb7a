package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblemath/internal/config"
	"github.com/vovakirdan/bubblemath/internal/round"
	"github.com/vovakirdan/bubblemath/internal/tier"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show the difficulty tiers",
	Long: `Shows the tier table after --config and --difficulty are applied:
the score each tier unlocks at, its multiplier, bubble timings and
operand ranges.`,
	Args: cobra.NoArgs,
	RunE: runTiers,
}

func runTiers(_ *cobra.Command, _ []string) error {
	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}
	table := cfg.Table()

	fmt.Println("Difficulty tiers:")
	fmt.Println()
	fmt.Printf("  %-4s  %-6s  %-5s  %-6s  %-8s  %-8s  %s\n",
		"Tier", "From", "x", "Digits", "Spawn", "Life", "Operands")
	fmt.Printf("  %-4s  %-6s  %-5s  %-6s  %-8s  %-8s  %s\n",
		"----", "----", "-", "------", "-----", "----", "--------")

	for i := range tier.Count {
		t := tier.Tier(i)
		p := table.Params(t)
		fmt.Printf("  %-4s  %-6d  %-5g  %-6s  %-8s  %-8s  %s\n",
			t, t.Threshold(), p.ScoreMultiplier,
			fmt.Sprintf("%d-%d", p.DigitMin, p.DigitMax),
			p.SpawnInterval, p.Lifetime, operands(p))
	}

	fmt.Println()
	if preset, _ := config.ParsePreset(flagDifficulty); config.IsFixedPreset(preset) {
		fmt.Println("Fixed difficulty: every tier plays like the first one.")
	} else {
		fmt.Println("A tier unlocks once the score reaches its threshold.")
	}
	return nil
}

// operands formats the start range of each operation.
func operands(p tier.Params) string {
	ranges := []struct {
		op round.Operation
		r  tier.Range
	}{
		{round.Add, p.Add},
		{round.Sub, p.Sub},
		{round.Mul, p.Mul},
		{round.Div, p.Div},
	}
	parts := make([]string, 0, len(ranges))
	for _, x := range ranges {
		parts = append(parts, fmt.Sprintf("%s[%d,%d]", x.op, x.r.Min, x.r.Max))
	}
	return strings.Join(parts, " ")
}
