package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuemby/netvisor/pkg/adminapi"
	"github.com/cuemby/netvisor/pkg/config"
	"github.com/cuemby/netvisor/pkg/events"
	"github.com/cuemby/netvisor/pkg/handler"
	"github.com/cuemby/netvisor/pkg/handler/dnshandler"
	"github.com/cuemby/netvisor/pkg/handler/flowhandler"
	"github.com/cuemby/netvisor/pkg/handler/pcaphandler"
	"github.com/cuemby/netvisor/pkg/log"
	"github.com/cuemby/netvisor/pkg/selfmetrics"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "netvisor",
	Short: "netvisor - sliding-window network observability metrics pipeline",
	Long: `netvisor ingests flow records, packet captures, and DNS
transactions, aggregating them into rotating sliding-window buckets
exposed as Prometheus text and JSON over a small admin HTTP surface.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"netvisor version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the metrics pipeline and admin HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		listenAddr, _ := cmd.Flags().GetString("listen")

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		broker := events.NewBroker()
		broker.Start()
		defer broker.Stop()
		selfmetrics.Subscribe(broker)

		handlers, err := buildHandlers(cfg, broker)
		if err != nil {
			return fmt.Errorf("failed to build handlers: %w", err)
		}
		if len(handlers) == 0 {
			return fmt.Errorf("config %s enables no handlers", configPath)
		}

		for _, h := range handlers {
			if err := h.Start(); err != nil {
				return fmt.Errorf("failed to start handler %s: %w", h.SchemaKey(), err)
			}
			log.WithSchemaKey(h.SchemaKey()).Info().Msg("handler started")
		}
		selfmetrics.HandlersRunning.Set(float64(len(handlers)))
		defer func() {
			for _, h := range handlers {
				_ = h.Stop()
			}
			selfmetrics.HandlersRunning.Set(0)
		}()

		srv := adminapi.New(handlers, cfg.StaticLabels)
		httpSrv := &http.Server{Addr: listenAddr, Handler: srv.Engine()}

		go func() {
			log.Logger.Info().Str("addr", listenAddr).Msg("admin http server listening")
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Logger.Error().Err(err).Msg("admin http server failed")
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Logger.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().String("config", "netvisor.yaml", "Path to the YAML config file")
	serveCmd.Flags().String("listen", ":9191", "Admin HTTP listen address")
}

func buildHandlers(cfg *config.Config, broker *events.Broker) ([]handler.Handler, error) {
	var out []handler.Handler

	if hc, ok := cfg.Handlers["flow"]; ok {
		hc = hc.WithDefaults()
		sampleScaling := true
		if hc.SampleRateScaling != nil {
			sampleScaling = *hc.SampleRateScaling
		}
		h, err := flowhandler.New(flowhandler.Options{
			Periods:           hc.NumPeriods,
			DeepSampleRate:    hc.DeepSampleRate,
			WindowSeconds:     hc.Window,
			TopN:              int(hc.TopN),
			SampleRateScaling: sampleScaling,
			OnlyHosts:         hc.OnlyHosts,
		}, broker)
		if err != nil {
			return nil, fmt.Errorf("flow handler: %w", err)
		}
		out = append(out, h)
	}

	if hc, ok := cfg.Handlers["pcap"]; ok {
		hc = hc.WithDefaults()
		h, err := pcaphandler.New(pcaphandler.Options{
			Periods:        hc.NumPeriods,
			DeepSampleRate: hc.DeepSampleRate,
			WindowSeconds:  hc.Window,
		}, broker)
		if err != nil {
			return nil, fmt.Errorf("pcap handler: %w", err)
		}
		out = append(out, h)
	}

	if hc, ok := cfg.Handlers["dns"]; ok {
		hc = hc.WithDefaults()
		h, err := dnshandler.New(dnshandler.Options{
			Periods:        hc.NumPeriods,
			DeepSampleRate: hc.DeepSampleRate,
			WindowSeconds:  hc.Window,
			TopN:           int(hc.TopN),
		}, broker)
		if err != nil {
			return nil, fmt.Errorf("dns handler: %w", err)
		}
		out = append(out, h)
	}

	return out, nil
}

var replayCmd = &cobra.Command{
	Use:   "replay [pcap file]",
	Short: "Replay a pcap file through the pcap handler and print window counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := pcaphandler.New(pcaphandler.DefaultOptions(), nil)
		if err != nil {
			return err
		}
		if err := h.Start(); err != nil {
			return err
		}
		defer h.Stop()

		n, err := h.ReplayFile(args[0])
		if err != nil {
			return fmt.Errorf("replay failed after %d packets: %w", n, err)
		}
		fmt.Printf("replayed %d packets from %s\n", n, args[0])

		j, err := h.WindowJSON(0, false)
		if err != nil {
			return err
		}
		for k, v := range j {
			fmt.Printf("  %s: %v\n", k, v)
		}
		return nil
	},
}
