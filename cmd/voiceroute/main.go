package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voiceroute/voiceroute-go/aec"
	"github.com/voiceroute/voiceroute-go/audio"
	"github.com/voiceroute/voiceroute-go/core"
	"github.com/voiceroute/voiceroute-go/indicator"
	"github.com/voiceroute/voiceroute-go/logger"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:          "voiceroute",
		Short:        "Route voice between the local sound card and the modem card",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(configPath)
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to config file (default searches ./config.yaml, /etc/voiceroute)")
	cmd.PersistentFlags().Bool("debug", false, "force debug logging")
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))

	defaults := core.DefaultConfig()
	flags := cmd.Flags()
	flags.String("local", defaults.Devices.Local, "local sound device name")
	flags.String("remote", defaults.Devices.Remote, "modem sound device name")
	flags.String("aec", defaults.AEC.Mode, "echo conditioner mode (off/nlms/suppress)")
	_ = viper.BindPFlag("devices.local", flags.Lookup("local"))
	_ = viper.BindPFlag("devices.remote", flags.Lookup("remote"))
	_ = viper.BindPFlag("aec.mode", flags.Lookup("aec"))

	cmd.AddCommand(devicesCommand())
	return cmd
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := initLogger(cfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.Logger()
	log.Info("voiceroute started",
		"local", cfg.Devices.Local, "remote", cfg.Devices.Remote, "aec", cfg.AEC.Mode)

	opener, err := audio.NewPortAudioOpener()
	if err != nil {
		return err
	}
	defer func() {
		if err := opener.Close(); err != nil {
			log.Error("failed to shut down audio runtime", "error", err)
		}
	}()

	cond, err := aec.New(cfg.AEC.Mode, aec.Options{Taps: cfg.AEC.Taps, Margin: cfg.AEC.Margin})
	if err != nil {
		return err
	}

	var ind indicator.Indicator = indicator.Nop{}
	if cfg.Indicator.RedPath != "" || cfg.Indicator.GreenPath != "" {
		ind = indicator.NewSysfsLED(cfg.Indicator.RedPath, cfg.Indicator.GreenPath)
	}

	sess, err := core.NewSession(cfg, log, opener, cond, ind)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			log.Info("received signal, terminating", "signal", sig.String())
			sess.Terminate()
			cancel()
		case <-ctx.Done():
		}
	}()

	err = sess.Run(ctx)
	if errors.Is(err, context.Canceled) {
		// Signal arrived while still waiting for a device; normal shutdown.
		return nil
	}
	return err
}

func loadConfig(configPath string) (core.Config, error) {
	cfg := core.DefaultConfig()

	viper.SetConfigType("yaml")
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/voiceroute")
	}
	viper.SetEnvPrefix("VOICEROUTE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file anywhere: defaults plus flags are enough.
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg core.Config) error {
	logCfg := logger.Config{
		Level:   cfg.Logging.Level,
		Outputs: cfg.Logging.Outputs,
	}
	if viper.GetBool("debug") {
		logCfg.Level = "debug"
	}
	return logger.Init(logCfg)
}
