package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sifthq/chatsift/internal/audit"
	"github.com/sifthq/chatsift/internal/pipe"
	"github.com/spf13/cobra"
)

var pipeSource string

var pipeCmd = &cobra.Command{
	Use:   "pipe [flags] [-- <command> [args...]]",
	Short: "Filter an NDJSON record stream",
	Long: `Filter a stream of chat records, one JSON record per line. With a
command, the subprocess is spawned and its stdout filtered; without one,
stdin is filtered to stdout. Blocked records are dropped from the stream,
everything else is forwarded verbatim.`,
	Example: `  chatsift pipe -c rules.yaml -- feedtail --room lobby
  tail -f feed.ndjson | chatsift pipe -c rules.yaml`,
	Args: cobra.ArbitraryArgs,
	RunE: runPipe,
}

func init() {
	pipeCmd.Flags().StringVar(&pipeSource, "source", "", "source label for logs and audit records")
	rootCmd.AddCommand(pipeCmd)
}

func runPipe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, _, err := buildEngines(cfg)
	if err != nil {
		return err
	}

	auditStore, err := audit.NewJSONLStore(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("creating audit store: %w", err)
	}
	defer auditStore.Close()

	sifter := buildSiftEngine(cfg, engine, auditStore)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down pipe")
		cancel()
	}()

	p := pipe.NewPipe(sifter, logger, pipeSource)
	if len(args) == 0 {
		return p.FilterStream(ctx, os.Stdin, os.Stdout)
	}
	return p.Run(ctx, args[0], args[1:])
}
