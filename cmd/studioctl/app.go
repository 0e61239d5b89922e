package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/config"
	"prelanding-studio/internal/logger"
)

// app - общее состояние команд: конфигурация, клиент сервиса, ввод/вывод.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	cfgPath string
	yes     bool
	debug   bool

	cfg *config.CLIConfig
	api client.StudioClient
	log zerolog.Logger
	// zap логгер для контроллеров; выключен без --debug
	zlog *zap.Logger

	// newClient подменяется в тестах
	newClient func(cfg *config.CLIConfig, log *zap.Logger) (client.StudioClient, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		log:    zerolog.Nop(),
		zlog:   zap.NewNop(),
		newClient: func(cfg *config.CLIConfig, log *zap.Logger) (client.StudioClient, error) {
			return client.NewStudioClient(cfg.APIURL, cfg.Timeout, cfg.APIToken, log)
		},
	}
}

// setup загружает конфигурацию и создаёт клиента. Вызывается перед каждой командой.
func (a *app) setup(cmd *cobra.Command) error {
	if a.api != nil {
		return nil
	}
	path := a.cfgPath
	if path == "" {
		path = config.DefaultCLIConfigPath()
	}
	cfg, usedFile, err := config.LoadCLIConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.initLogger(cfg.LogLevel)
	if usedFile {
		a.log.Debug().Str("path", path).Msg("config file loaded")
	} else {
		a.log.Debug().Msg("config file not found, using environment")
	}

	if a.debug {
		zl, err := logger.New(logger.Config{Level: "debug", Encoding: "console", OutputPath: "stderr"})
		if err != nil {
			return err
		}
		a.zlog = zl
	}

	api, err := a.newClient(cfg, a.zlog)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	a.api = api
	a.log.Debug().Str("api_url", cfg.APIURL).Dur("timeout", cfg.Timeout).Msg("client ready")
	return nil
}

// initLogger настраивает zerolog для человекочитаемой диагностики в stderr.
func (a *app) initLogger(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if a.debug {
		lvl = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{Out: a.errOut, TimeFormat: time.Kitchen}
	a.log = zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}

// Confirm спрашивает y/N в терминале. С --yes подтверждает без вопроса.
func (a *app) Confirm(_ context.Context, prompt string) bool {
	if a.yes {
		return true
	}
	fmt.Fprintf(a.out, "%s [y/N]: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "д", "да":
		return true
	}
	return false
}

func (a *app) outDir(flag string) string {
	if flag != "" {
		return flag
	}
	if a.cfg != nil && a.cfg.OutDir != "" {
		return a.cfg.OutDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
