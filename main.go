package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yisrael-haber/go-http-response/src"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	src.SetDefaults(v)

	var configPath string

	rootCmd := &cobra.Command{
		Use:           "go-http-server",
		Short:         "Serve a directory over HTTP/1.1, one response per connection",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := src.LoadConfig(v, configPath)
			if err != nil {
				return fmt.Errorf("encountered error while setting port and server location: %w", err)
			}
			return run(cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a config file")
	flags.Int("port", src.DEFAULT_PORT, fmt.Sprintf("TCP port to serve on, %d<PORT<%d", src.MIN_PORT, src.MAX_PORT))
	flags.String("host", src.DEFAULT_HOST, "address to bind")
	flags.String("loc", ".", "directory to serve")
	flags.String("log-level", "info", "log level")

	bindings := map[string]string{
		"server.port":     "port",
		"server.host":     "host",
		"server.location": "loc",
		"logger.level":    "log-level",
	}
	for key, name := range bindings {
		bindFlag(v, key, flags.Lookup(name))
	}

	return rootCmd
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func run(cfg *src.Config) error {
	logger, err := src.NewLogger(cfg.Logger, os.Stderr)
	if err != nil {
		return err
	}

	logger.Infof("Preparing to serve location %s", cfg.Location)
	logger.Infof("Binding to %s", cfg.Address())

	listener, err := src.BindPort(cfg.Address())
	if err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Infof("Received %s, shutting down", sig)
		listener.Close()
	}()

	return src.NewServer(cfg, logger).Serve(listener)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
