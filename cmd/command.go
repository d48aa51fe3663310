package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"commongames/internal/app/console"
	"commongames/internal/app/pipeline"
	"commongames/internal/app/steam"
	"commongames/internal/configs"
	"commongames/internal/pkg/logx"
	"commongames/internal/telemetry"
)

func newCmd(in io.Reader, out io.Writer) *cobra.Command {
	v := configs.NewViper()

	cmd := &cobra.Command{
		Use:           "commongames",
		Short:         "Picks a random multiplayer game that you and your Steam friends all own.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configs.LoadConfig(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, in, out)
		},
	}

	fs := cmd.Flags()
	configs.RegisterFlags(fs)
	configs.BindFlags(v, fs)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("commongames v{{.Version}}\n")
	cmd.SetIn(in)
	cmd.SetOut(out)

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// run performs one search with cfg, prompting on in and reporting on out.
func run(ctx context.Context, cfg *configs.AppConfig, in io.Reader, out io.Writer) error {
	logx.InitGlobalLogger(cfg.Verbose, cfg.LogFormat)
	logx.Logger().Debug().
		Str("webapi_url", cfg.WebAPIURL).
		Str("store_url", cfg.StoreURL).
		Dur("timeout", cfg.Timeout).
		Float64("store_rate", cfg.StoreRate).
		Int("store_burst", cfg.StoreBurst).
		Int("concurrency", cfg.Concurrency).
		Bool("tracing", cfg.OtelEndpoint != "").
		Msg("Configuration loaded successfully")

	shutdown, err := telemetry.Setup(ctx, cfg.OtelEndpoint, releaseVersion)
	if err != nil {
		logx.Warn("Tracing disabled", "error", err.Error())
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logx.Warn("Failed to flush traces", "error", err.Error())
		}
	}()

	con := console.New(in, out,
		console.WithSelection(cfg.Friends),
		console.WithCandidateList(cfg.List),
	)

	credential := cfg.APIKey
	if credential == "" {
		if credential, err = con.ReadCredential(ctx); err != nil {
			return err
		}
	}

	client, err := steam.NewClient(steam.ServiceConfig{
		WebAPIURL:  cfg.WebAPIURL,
		StoreURL:   cfg.StoreURL,
		Timeout:    cfg.Timeout,
		StoreRate:  cfg.StoreRate,
		StoreBurst: cfg.StoreBurst,
	})
	if err != nil {
		return err
	}

	orchestrator := pipeline.New(pipeline.Deps{
		Friends:     client,
		Resolver:    client,
		Library:     client,
		Catalog:     client,
		Prompter:    con,
		Reporter:    con,
		Concurrency: cfg.Concurrency,
	})

	res, err := orchestrator.Run(ctx, pipeline.Request{
		Credential: credential,
		Primary:    cfg.SteamID,
	})
	if err != nil {
		return err
	}

	logx.Info("Run finished",
		"run_id", res.RunID,
		"contributing", res.Contributing,
		"common_games", res.Common.Len(),
		"pick", res.Pick,
	)
	return nil
}
