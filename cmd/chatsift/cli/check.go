package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sifthq/chatsift/internal/blockrules"
	"github.com/spf13/cobra"
)

var checkText string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run a single message text against the rules",
	Long: `Check what verdict a message text would receive without running any
transport. Useful for testing and debugging pattern lists.`,
	Example: `  chatsift check -c rules.yaml --text "!drop plz"
  chatsift check -c rules.yaml --text "hello there"`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkText, "text", "", "message text to check")
	_ = checkCmd.MarkFlagRequired("text")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config/-c is required for check command")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, _, err := buildEngines(cfg)
	if err != nil {
		return err
	}

	input := &blockrules.EvalInput{Text: checkText}

	result, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		return fmt.Errorf("evaluation error: %w", err)
	}

	output := struct {
		Verdict string `json:"verdict"`
		Pattern string `json:"pattern,omitempty"`
		Message string `json:"message,omitempty"`
	}{
		Verdict: string(result.Verdict),
		Pattern: result.Pattern,
		Message: result.Message,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
