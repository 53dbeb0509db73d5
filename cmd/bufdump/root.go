package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/bufq/bufq"
	"github.com/bufq/bufq/persist"
)

var rootCmd = &cobra.Command{
	Use:   "bufdump [flags] <stream file>...",
	Short: "decode persisted byte streams as typed records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer logger.Sync()

		order, err := cfg.order()
		if err != nil {
			return err
		}
		cs, err := cfg.decoder()
		if err != nil {
			return err
		}
		fields, err := parseFormat(cfg.Format, order, cs)
		if err != nil {
			return fmt.Errorf("failed to parse format: %v", err)
		}

		readers := make([]*bufq.SegmentedReader, len(args))
		var eg errgroup.Group
		for i, name := range args {
			i, name := i, name
			eg.Go(func() error {
				r, err := loadStream(name, cfg, logger)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				readers[i] = r
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}

		for i, name := range args {
			if err := dump(name, readers[i], fields, logger); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		return nil
	},
}

func init() {
	setFlags(rootCmd, defaultConfig())
}

func newLogger(level string) (*zap.Logger, error) {
	logLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %v", err)
	}

	zapCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(logLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zapCfg.Build()
}

func loadStream(name string, cfg *Config, logger *zap.Logger) (*bufq.SegmentedReader, error) {
	if cfg.Verify {
		r, m, err := persist.LoadVerified(name)
		if err != nil {
			return nil, err
		}
		logger.Info("stream verified",
			zap.String("filename", name),
			zap.String("size", bytefmt.ByteSize(m.TotalBytes)),
			zap.Uint32("chunk_size", m.ChunkSize),
		)
		return r, nil
	}

	r, err := persist.Load(name, cfg.ChunkSize)
	if err != nil {
		return nil, err
	}
	logger.Info("stream loaded",
		zap.String("filename", name),
		zap.String("size", bytefmt.ByteSize(uint64(r.Len()))),
	)
	return r, nil
}

// dump decodes records off the reader until it drains, rendering one
// table row per field. Decoding stops cleanly when the remaining bytes
// cannot fill the next field.
func dump(name string, r *bufq.SegmentedReader, fields []field, logger *zap.Logger) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"RECORD", "FIELD", "VALUE"})
	table.SetAutoWrapText(false)

	record := 0
	for r.Len() > 0 {
		before := r.Len()
		for _, f := range fields {
			value, err := f.read(r)
			if err != nil {
				if errors.Is(err, bufq.ErrOutOfRange) {
					logger.Warn("trailing bytes do not fill a record",
						zap.String("filename", name),
						zap.Int("record", record),
						zap.String("field", f.name),
						zap.Int("remaining", r.Len()),
					)
					table.Render()
					return nil
				}
				return err
			}
			table.Append([]string{strconv.Itoa(record), f.name, value})
		}
		record++
		if r.Len() == before {
			logger.Warn("format consumed no bytes, stopping",
				zap.String("filename", name),
				zap.Int("record", record),
			)
			break
		}
	}

	table.Render()
	logger.Info("stream decoded",
		zap.String("filename", name),
		zap.Int("records", record),
	)
	return nil
}
