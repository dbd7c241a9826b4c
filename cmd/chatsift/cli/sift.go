package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sifthq/chatsift/api"
	"github.com/sifthq/chatsift/internal/feed"
	"github.com/spf13/cobra"
)

var siftSource string

var siftCmd = &cobra.Command{
	Use:   "sift [file]",
	Short: "Filter a JSON feed body from a file or stdin",
	Long: `Filter a single JSON array of chat records and write the surviving
subsequence to stdout. Useful for inspecting what a rule file would do to
a captured feed body.`,
	Example: `  chatsift sift -c rules.yaml feed.json
  curl -s https://chat.example.com/chat/history | chatsift sift -c rules.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSift,
}

func init() {
	siftCmd.Flags().StringVar(&siftSource, "source", "cli", "source label for logs")
	rootCmd.AddCommand(siftCmd)
}

func runSift(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, _, err := buildEngines(cfg)
	if err != nil {
		return err
	}

	// No audit store: sift is a one-shot dry run
	sifter := buildSiftEngine(cfg, engine, nil)

	var body []byte
	if len(args) == 1 {
		body, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading feed body: %w", err)
		}
	} else {
		body, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	records, err := feed.Decode(body)
	if err != nil {
		return fmt.Errorf("decoding feed body: %w", err)
	}

	kept, sum := sifter.FilterRecords(cmd.Context(), api.TransportPipe, siftSource, records)
	encoded, err := feed.Encode(kept)
	if err != nil {
		return fmt.Errorf("encoding filtered feed: %w", err)
	}

	if _, err := os.Stdout.Write(append(encoded, '\n')); err != nil {
		return err
	}

	logger.Info("sift complete", "total", sum.Total, "kept", sum.Kept, "dropped", sum.Dropped)
	return nil
}
