package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sifthq/chatsift/internal/audit"
	"github.com/sifthq/chatsift/internal/dashboard"
	"github.com/sifthq/chatsift/internal/proxy"
	"github.com/spf13/cobra"
)

var (
	proxyTarget    string
	proxyListen    string
	proxyDashboard bool
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Start the filtering reverse proxy",
	Long: `Start a reverse proxy in front of the chat backend. Responses whose
address contains a feed marker are filtered; everything else passes
through untouched.`,
	Example: `  chatsift proxy -c rules.yaml --target https://chat.example.com --listen :3000
  chatsift proxy -c rules.yaml --target https://chat.example.com --dashboard`,
	RunE: runProxy,
}

func init() {
	proxyCmd.Flags().StringVar(&proxyTarget, "target", "", "chat backend base URL (required)")
	proxyCmd.Flags().StringVar(&proxyListen, "listen", ":3000", "listen address")
	proxyCmd.Flags().BoolVar(&proxyDashboard, "dashboard", false, "also serve the web dashboard")
	_ = proxyCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(proxyCmd)
}

func runProxy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, substr, err := buildEngines(cfg)
	if err != nil {
		return err
	}

	auditStore, err := audit.NewJSONLStore(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("creating audit store: %w", err)
	}
	defer auditStore.Close()

	sifter := buildSiftEngine(cfg, engine, auditStore)

	p, err := proxy.NewProxy(proxyTarget, sifter, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down proxy")
		cancel()
	}()

	if proxyDashboard {
		dash := dashboard.NewServer(cfg.DashboardAddr, auditStore, substr, logger)
		go func() {
			if err := dash.ListenAndServe(ctx); err != nil {
				logger.Error("dashboard error", "error", err)
			}
		}()
	}

	return p.ListenAndServe(ctx, proxyListen)
}
