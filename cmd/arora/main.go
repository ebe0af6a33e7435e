package main

import (
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/core"
	"github.com/Shubhamxshah/arora-the-interview-app/internal/utils"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/api"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/database"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/llm"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/queue"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/render"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/storage"
)

type optsGeneral struct {
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type optsDatabase struct {
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" default:"mem://" description:"Interview store: postgres://, badger:///path or mem://"`
}

type optsQueue struct {
	QueueURL string `long:"queue-url" env:"QUEUE_URL" description:"Redis address for asynq workers; empty runs pipelines in-process"`

	QueueTLSCaCert string `long:"queue-tls-ca-cert" env:"QUEUE_TLS_CA_CERT" description:"Path to queue TLS CA certificate"`
	QueueTLSCert   string `long:"queue-tls-cert" env:"QUEUE_TLS_CERT" description:"Path to queue TLS certificate"`
	QueueTLSKey    string `long:"queue-tls-key" env:"QUEUE_TLS_KEY" description:"Path to queue TLS key"`
}

type optsServices struct {
	ConfigPath string `long:"config" env:"CONFIG" description:"Path to yaml deployment config (avatar catalog etc)"`

	RenderURL  string `long:"render-url" env:"RENDER_URL" description:"Avatar render service URL"`
	LLMURL     string `long:"llm-url" env:"LLM_URL" description:"Chat completion service URL"`
	LLMModel   string `long:"llm-model" env:"LLM_MODEL" description:"Chat completion model"`
	StorageURL string `long:"storage-url" env:"STORAGE_URL" description:"Video upload service URL"`
}

func (c *optsGeneral) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildOptions assembles api options from the shared flag groups.
func buildOptions(db *optsDatabase, qu *optsQueue, svc *optsServices, debug bool) (*api.Options, error) {
	tlsCfg, err := utils.TLSConfig(qu.QueueTLSCaCert, qu.QueueTLSCert, qu.QueueTLSKey)
	if err != nil {
		return nil, err
	}
	return &api.Options{
		ConfigPath: svc.ConfigPath,
		Database:   &database.Options{URL: db.DatabaseURL},
		Queue:      &queue.Options{URL: qu.QueueURL, TLSConfig: tlsCfg},
		Render:     &render.Options{URL: svc.RenderURL},
		LLM:        &llm.Options{URL: svc.LLMURL, Model: svc.LLMModel},
		Storage:    &storage.Options{URL: svc.StorageURL},
		Pipeline:   &core.Options{},
		Debug:      debug,
	}, nil
}

func main() {
	parser := flags.NewParser(nil, flags.Default)
	parser.AddCommand("server", docServer, docServer, &optsServer{})
	parser.AddCommand("worker", docWorker, docWorker, &optsWorker{})
	parser.AddCommand("migrate", docMigrate, docMigrate, &optsMigrate{})

	if _, err := parser.Parse(); err != nil {
		switch flagsErr := err.(type) {
		case flags.ErrorType:
			if flagsErr == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		default:
			os.Exit(1)
		}
	}
}
