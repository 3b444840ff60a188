package src

import (
	"fmt"
	"io"
	"net"

	"github.com/sirupsen/logrus"
)

func BindPort(address string) (net.Listener, error) {
	l, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", address, err)
	}

	return l, nil
}

// NewLogger builds a logrus logger writing to out.
func NewLogger(cfg *LoggerConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return logger, nil
}

// NewServer builds a Server from cfg.
func NewServer(cfg *Config, logger *logrus.Logger) *Server {
	return &Server{
		Root:        cfg.Location,
		MaxFileSize: cfg.MaxFileSize,
		ReadTimeout: cfg.ReadTimeout,
		Logger:      logger,
	}
}
