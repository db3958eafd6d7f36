package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/kbukum/scribe/bootstrap"
	"github.com/kbukum/scribe/config"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/observability"
	"github.com/kbukum/scribe/provider"
	"github.com/kbukum/scribe/transcription"
	"github.com/kbukum/scribe/transcription/openai"
	"github.com/kbukum/scribe/transcription/whisperx"
	"github.com/kbukum/scribe/util"
	"github.com/kbukum/scribe/version"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type globalFlags struct {
	configFile string
	envFile    string
	backend    string
	baseURL    string
	language   string
	model      string
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var g globalFlags
	fs.StringVar(&g.configFile, "config", "", "config file")
	fs.StringVar(&g.envFile, "env", "", ".env file")
	fs.StringVar(&g.backend, "backend", "", "transcription backend (whisperx, openai)")
	fs.StringVar(&g.baseURL, "url", "", "backend base URL")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] health | transcribe [-o dir] [-json] file... | version\n", serviceName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return exitUsage
	}

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "version":
		fmt.Fprintln(stdout, version.String())
		return exitOK
	case "health":
		return withApp(g, stderr, func(ctx context.Context, env *environment) error {
			return healthCmd(ctx, env, stdout)
		})
	case "transcribe":
		opts, err := parseTranscribeFlags(cmdArgs, stderr)
		if err != nil {
			return exitUsage
		}
		g.language, g.model = opts.language, opts.model
		return withApp(g, stderr, func(ctx context.Context, env *environment) error {
			return transcribeCmd(ctx, env, opts, stdout)
		})
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return exitUsage
	}
}

// environment is what every command runs against.
type environment struct {
	cfg    *AppConfig
	app    *bootstrap.App[*AppConfig]
	client *transcription.Client
}

// withApp loads config, builds the backend and runs task inside the
// bootstrap lifecycle.
func withApp(g globalFlags, stderr io.Writer, task func(ctx context.Context, env *environment) error) int {
	cfg, err := loadConfig(g)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFailure
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFailure
	}

	p, err := newRegistry().Create(cfg.Transcription.Backend, cfg.Transcription.BackendConfig())
	if err != nil {
		fmt.Fprintf(stderr, "backend %s: %v\n", cfg.Transcription.Backend, err)
		return exitFailure
	}

	maxBytes, _ := cfg.Transcription.MaxBytes()
	app.Logger.Debug("transcription backend ready", logger.Fields(
		logger.FieldProvider, p.Name(),
		"max_file_size", util.FormatSize(maxBytes),
	))

	env := &environment{cfg: cfg, app: app}

	app.OnStart(func(ctx context.Context) error {
		shutdown, err := observability.Setup(ctx, serviceName, version.Short(), cfg.Environment, cfg.Observability)
		if err != nil {
			return err
		}
		app.OnStop(bootstrap.Hook(shutdown))

		opts := []transcription.ClientOption{
			transcription.WithLogger(app.Logger),
			transcription.WithMaxFileSize(maxBytes),
		}
		if cfg.Observability.Enabled {
			metrics, err := observability.NewMetrics(observability.Meter(serviceName))
			if err != nil {
				return err
			}
			opts = append(opts, transcription.WithMetrics(metrics), transcription.WithTracing(serviceName))
		}
		env.client = transcription.NewClient(p, opts...)
		app.OnStop(env.client.Close)
		return nil
	})

	if err := app.RunTask(context.Background(), func(ctx context.Context) error {
		return task(ctx, env)
	}); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func loadConfig(g globalFlags) (*AppConfig, error) {
	opts := []config.LoaderOption{
		config.WithDefault("name", serviceName),
		config.WithDefault("transcription.backend", whisperx.ProviderName),
	}
	if g.configFile != "" {
		opts = append(opts, config.WithConfigFile(g.configFile))
	}
	if g.envFile != "" {
		opts = append(opts, config.WithEnvFile(g.envFile))
	}

	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}

	if g.backend != "" {
		cfg.Transcription.Backend = g.backend
	}
	for key, value := range map[string]string{"base_url": g.baseURL, "language": g.language, "model": g.model} {
		if value == "" {
			continue
		}
		switch cfg.Transcription.Backend {
		case openai.ProviderName:
			cfg.Transcription.OpenAI = withKey(cfg.Transcription.OpenAI, key, value)
		default:
			cfg.Transcription.WhisperX = withKey(cfg.Transcription.WhisperX, key, value)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newRegistry() *provider.Registry[transcription.Provider] {
	return transcription.NewRegistry().
		MustRegister(whisperx.ProviderName, whisperx.Factory()).
		MustRegister(openai.ProviderName, openai.Factory())
}

func withKey(m map[string]any, key string, value any) map[string]any {
	if m == nil {
		m = make(map[string]any)
	}
	m[key] = value
	return m
}
