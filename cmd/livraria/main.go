package main

import (
	"context"
	"fmt"
	"os"
	"time"

	catalogapp "github.com/Astemirdum/livraria/catalog/app"
	catalogconfig "github.com/Astemirdum/livraria/catalog/config"
	devapp "github.com/Astemirdum/livraria/devserver/app"
	devconfig "github.com/Astemirdum/livraria/devserver/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env is optional; real environment wins
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "livraria",
		Short:        "Library catalog client and development API",
		SilenceUsage: true,
	}
	root.AddCommand(newClientCmd(), newServeCmd(), newVersionCmd())
	return root
}

func newClientCmd() *cobra.Command {
	var (
		apiURL   string
		timeout  time.Duration
		pageSize int
		logLevel string
		logSink  string
	)
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Interactive catalog shell",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ops := []catalogconfig.Option{
				catalogconfig.WithBaseURL(apiURL),
				catalogconfig.WithTimeout(timeout),
				catalogconfig.WithPageSize(pageSize),
				catalogconfig.WithLogSink(logSink),
			}
			// the shell shares the terminal with stderr logs
			if cmd.Flags().Changed("log-level") || os.Getenv("LOG_LEVEL") == "" {
				level, err := zapcore.ParseLevel(logLevel)
				if err != nil {
					return err
				}
				ops = append(ops, catalogconfig.WithLogLevel(level))
			}
			cfg := catalogconfig.NewConfig(ops...)
			return catalogapp.Run(cmd.Context(), cfg, os.Stdin, os.Stdout)
		},
	}
	f := cmd.Flags()
	f.StringVar(&apiURL, "api", "", "API base URL (LIVRARIA_API_URL)")
	f.DurationVar(&timeout, "timeout", 0, "per-request timeout (LIVRARIA_API_TIMEOUT)")
	f.IntVar(&pageSize, "page-size", 0, "books per page (LIVRARIA_PAGE_SIZE)")
	f.StringVar(&logLevel, "log-level", "warn", "log level")
	f.StringVar(&logSink, "log-file", "", "write logs to this file instead of stderr (LOG_SINK)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		host     string
		port     string
		dsn      string
		noSeed   bool
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development catalog API on SQLite",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ops := []devconfig.Option{
				devconfig.WithAddr(host, port),
				devconfig.WithDSN(dsn),
			}
			if noSeed {
				ops = append(ops, devconfig.WithSeed(false))
			}
			if cmd.Flags().Changed("log-level") {
				level, err := zapcore.ParseLevel(logLevel)
				if err != nil {
					return err
				}
				ops = append(ops, devconfig.WithLogLevel(level))
			}
			return devapp.Run(devconfig.NewConfig(ops...))
		},
	}
	f := cmd.Flags()
	f.StringVar(&host, "host", "", "listen host (LIVRARIA_HTTP_HOST)")
	f.StringVar(&port, "port", "", "listen port (LIVRARIA_HTTP_PORT)")
	f.StringVar(&dsn, "db", "", "go-sqlite3 DSN (LIVRARIA_DB_DSN)")
	f.BoolVar(&noSeed, "no-seed", false, "do not insert the starter books")
	f.StringVar(&logLevel, "log-level", "info", "log level (LOG_LEVEL)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
