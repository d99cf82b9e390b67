package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hn_reader/internal/config"
	"hn_reader/internal/domain"
)

type options struct {
	configPath string
	noColor    bool
	output     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "hnreader",
		Short:        "Read Hacker News from the terminal",
		Long:         "hnreader fetches Top, New or Best stories from the Hacker News API and renders them as they arrive.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	showCmd := &cobra.Command{
		Use:   "show [category]",
		Short: "Fetch one page of stories and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args, opts)
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch [category]",
		Short: "Live view that redraws as stories load and refreshes periodically",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP status API with scheduled refreshes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [category]",
		Short: "Fetch one page of stories and write it as an Atom feed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}

	for _, cmd := range []*cobra.Command{showCmd, watchCmd, serveCmd, exportCmd} {
		cmd.Flags().Int("offset", 0, "index of the first story")
		cmd.Flags().Int("page-size", 0, "number of stories per page, 0 for all")
	}
	for _, cmd := range []*cobra.Command{showCmd, watchCmd} {
		cmd.Flags().Bool("dark", false, "use the dark palette")
		cmd.Flags().Bool("text", false, "show self-text of Ask/Show HN posts")
		cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colors")
	}
	exportCmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(showCmd, watchCmd, serveCmd, exportCmd)
	return rootCmd
}

// loadConfig loads the config file and applies command line overrides.
func loadConfig(cmd *cobra.Command, args []string, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		category, err := domain.ParseCategory(args[0])
		if err != nil {
			return nil, err
		}
		cfg.Refresh.Category = category
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("offset") {
		offset, _ := flags.GetInt("offset")
		cfg.Refresh.Offset = max(offset, 0)
	}
	if flags.Changed("page-size") {
		pageSize, _ := flags.GetInt("page-size")
		cfg.API.PageSize = max(pageSize, 0)
	}
	if flags.Changed("dark") {
		cfg.Display.DarkMode, _ = flags.GetBool("dark")
	}
	if flags.Changed("text") {
		cfg.Display.ShowText, _ = flags.GetBool("text")
	}

	return cfg, nil
}

func setupLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}
