package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/docverify/internal/document"
	"github.com/zombor/docverify/internal/extraction"
	"github.com/zombor/docverify/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

type config struct {
	mode       string
	inputDir   string
	reportPath string
	ledgerPath string
	key        string

	storage     string
	storagePath string
	minio       extraction.MinIOConfig

	primary        string
	secondary      string
	geminiKey      string
	geminiModel    string
	secondaryModel string
	ollamaURL      string
	ollamaModel    string

	policy           scanning.RetryPolicy
	minInterval      time.Duration
	documentDelay    time.Duration
	confirm          bool
	excludeUnchecked bool

	port      int
	basicAuth extraction.BasicAuth
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("docverify")
	var (
		mode             = fs.StringLong("mode", "serve", "Run mode: 'batch' or 'serve'")
		inputDir         = fs.StringLong("input", "./documents", "Directory of documents to process in batch mode")
		reportPath       = fs.StringLong("report", "document_report.xlsx", "Workbook written at the end of batch mode")
		ledgerPath       = fs.StringLong("ledger", "", "BoltDB file remembering processed documents across runs (optional)")
		dedupKey         = fs.StringLong("dedup-key", "name", "Duplicate detection key: 'name' or 'content'")
		storageType      = fs.StringLong("storage", "local", "Archive backend: 'local', 'minio' or 'none'")
		storagePath      = fs.StringLong("storage-path", "./archive", "Archive directory for local storage")
		minioEndpoint    = fs.StringLong("minio-endpoint", "localhost:9000", "MinIO endpoint")
		minioAccess      = fs.StringLong("minio-access-key", "", "MinIO access key")
		minioSecret      = fs.StringLong("minio-secret-key", "", "MinIO secret key")
		minioBucket      = fs.StringLong("minio-bucket", "docverify", "MinIO bucket")
		minioRegion      = fs.StringLong("minio-region", "", "MinIO region (optional)")
		minioSSL         = fs.BoolLong("minio-ssl", "Connect to MinIO over TLS")
		primary          = fs.StringLong("primary", "gemini", "Primary model provider: 'gemini' or 'ollama'")
		secondary        = fs.StringLong("secondary", "gemini", "Cross-check model provider: 'gemini', 'ollama' or 'none'")
		geminiKey        = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel      = fs.StringLong("gemini-model", "gemini-2.5-pro", "Gemini model for the primary reading")
		secondaryModel   = fs.StringLong("gemini-secondary-model", "gemini-2.5-flash", "Gemini model for the cross-check reading")
		ollamaURL        = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel      = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llama3.2-vision, qwen2-vl)")
		minInterval      = fs.DurationLong("min-interval", scanning.DefaultMinInterval, "Minimum spacing between model calls")
		maxAttempts      = fs.IntLong("max-attempts", scanning.DefaultRetryPolicy().MaxAttempts, "Attempts per model call when throttled")
		baseBackoff      = fs.DurationLong("base-backoff", scanning.DefaultRetryPolicy().BaseDelay, "Initial retry backoff")
		maxBackoff       = fs.DurationLong("max-backoff", scanning.DefaultRetryPolicy().MaxDelay, "Retry backoff cap before jitter")
		documentDelay    = fs.DurationLong("document-delay", extraction.DefaultDocumentDelay, "Base pause between documents in batch mode")
		noConfirm        = fs.BoolLong("no-confirm", "Skip the yes/no confirmation after classification")
		excludeUnchecked = fs.BoolLong("exclude-unchecked", "Leave unknown fields out of the rule score")
		port             = fs.IntLong("port", 8080, "HTTP server port")
		authUser         = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass         = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion      = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("DOCVERIFY"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	policy := scanning.DefaultRetryPolicy()
	policy.MaxAttempts = *maxAttempts
	policy.BaseDelay = *baseBackoff
	policy.MaxDelay = *maxBackoff

	cfg := config{
		mode:        *mode,
		inputDir:    *inputDir,
		reportPath:  *reportPath,
		ledgerPath:  *ledgerPath,
		key:         *dedupKey,
		storage:     *storageType,
		storagePath: *storagePath,
		minio: extraction.MinIOConfig{
			Endpoint:  *minioEndpoint,
			AccessKey: *minioAccess,
			SecretKey: *minioSecret,
			Bucket:    *minioBucket,
			Region:    *minioRegion,
			UseSSL:    *minioSSL,
		},
		primary:          *primary,
		secondary:        *secondary,
		geminiKey:        *geminiKey,
		geminiModel:      *geminiModel,
		secondaryModel:   *secondaryModel,
		ollamaURL:        *ollamaURL,
		ollamaModel:      *ollamaModel,
		policy:           policy,
		minInterval:      *minInterval,
		documentDelay:    *documentDelay,
		confirm:          !*noConfirm,
		excludeUnchecked: *excludeUnchecked,
		port:             *port,
		basicAuth:        extraction.BasicAuth{Username: *authUser, Password: *authPass},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("docverify failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	if cfg.geminiKey == "" {
		cfg.geminiKey = os.Getenv("GEMINI_API_KEY")
	}

	primary, err := newScanner(cfg.primary, cfg.geminiModel, cfg)
	if err != nil {
		return fmt.Errorf("primary scanner: %w", err)
	}
	defer primary.Close()

	var secondary scanning.Scanner
	if cfg.secondary != "none" {
		secondary, err = newScanner(cfg.secondary, cfg.secondaryModel, cfg)
		if err != nil {
			return fmt.Errorf("secondary scanner: %w", err)
		}
		defer secondary.Close()
	} else {
		slog.Info("Cross-validation disabled, running single-model")
	}

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	var archiver *extraction.Archiver
	if storage != nil {
		archiver = extraction.NewArchiver(storage, nil, nil)
	}

	session := extraction.NewSession()
	if cfg.ledgerPath != "" {
		slog.Info("Opening ledger...", "path", cfg.ledgerPath)
		ledger, err := extraction.NewBoltLedger(cfg.ledgerPath)
		if err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		defer ledger.Close()
		session = extraction.NewSessionWithLedger(ledger, nil)
	}

	clock := scanning.SystemClock{}
	invoker := scanning.NewInvoker(scanning.NewRateLimiter(cfg.minInterval, clock), cfg.policy, clock, nil)

	pipeline := extraction.NewPipeline(extraction.PipelineConfig{
		Primary:   primary,
		Secondary: secondary,
		Invoker:   invoker,
		Archiver:  archiver,
		Confirm:   cfg.confirm,
		Scorer: document.Scorer{
			CrossWeight:      document.DefaultScorer.CrossWeight,
			RuleWeight:       document.DefaultScorer.RuleWeight,
			ExcludeUnchecked: cfg.excludeUnchecked,
		},
	})

	var key extraction.KeyFunc
	switch cfg.key {
	case "name":
		key = extraction.KeyByName
	case "content":
		key = extraction.KeyByContent
	default:
		return fmt.Errorf("invalid dedup key %q: valid values are name or content", cfg.key)
	}

	batch := extraction.NewBatch(extraction.BatchConfig{
		Processor: pipeline,
		Clock:     clock,
		Key:       key,
		Delay:     cfg.documentDelay,
		JitterMin: extraction.DefaultDelayJitterMin,
		JitterMax: extraction.DefaultDelayJitterMax,
	})

	switch cfg.mode {
	case "batch":
		return runBatch(ctx, cfg, batch, session, archiver)
	case "serve":
		return serve(ctx, cfg, batch, session, archiver)
	default:
		return fmt.Errorf("invalid mode %q: valid values are batch or serve", cfg.mode)
	}
}

func newScanner(provider, geminiModel string, cfg config) (scanning.Scanner, error) {
	switch provider {
	case "gemini":
		if cfg.geminiKey == "" {
			return nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini scanner...", "model", geminiModel)
		return scanning.NewGemini(cfg.geminiKey, geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", cfg.ollamaURL, "model", cfg.ollamaModel)
		return scanning.NewOllama(cfg.ollamaURL, cfg.ollamaModel)
	default:
		return nil, fmt.Errorf("invalid scanner type %q: valid values are gemini or ollama", provider)
	}
}

func newStorage(ctx context.Context, cfg config) (extraction.Storage, error) {
	switch cfg.storage {
	case "local":
		slog.Info("Initializing local storage...", "path", cfg.storagePath)
		return extraction.NewLocalStorage(cfg.storagePath)
	case "minio":
		slog.Info("Initializing MinIO storage...", "endpoint", cfg.minio.Endpoint, "bucket", cfg.minio.Bucket)
		return extraction.NewMinIOStorage(ctx, cfg.minio)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid storage backend %q: valid values are local, minio or none", cfg.storage)
	}
}

func runBatch(ctx context.Context, cfg config, batch *extraction.Batch, session *extraction.Session, archiver *extraction.Archiver) error {
	docs, err := extraction.ReadDocuments(cfg.inputDir)
	if err != nil {
		return err
	}
	slog.Info("Processing documents", "count", len(docs), "input", cfg.inputDir)

	session = batch.Run(ctx, session, docs)

	workbook, err := extraction.WriteWorkbook(session.Results(), nil)
	if err != nil {
		return fmt.Errorf("generating report: %w", err)
	}
	if err := os.WriteFile(cfg.reportPath, workbook, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if archiver != nil {
		if location, err := archiver.ArchiveReport(ctx, workbook); err != nil {
			slog.Error("Failed to archive report", "error", err)
		} else {
			slog.Info("Report archived", "location", location)
		}
	}

	slog.Info("Batch complete",
		"processed", len(session.Results()),
		"failed", len(session.Failures()),
		"report", cfg.reportPath,
	)
	return ctx.Err()
}

func serve(ctx context.Context, cfg config, batch *extraction.Batch, session *extraction.Session, archiver *extraction.Archiver) error {
	server := extraction.NewServer(extraction.ServerConfig{
		Batch:     batch,
		Session:   session,
		Archiver:  archiver,
		BasicAuth: cfg.basicAuth,
	})

	addr := fmt.Sprintf(":%d", cfg.port)
	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if cfg.basicAuth.Username != "" || cfg.basicAuth.Password != "" {
		slog.Info("Basic auth enabled", "user", cfg.basicAuth.Username)
	}

	if err := server.Start(ctx, addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	slog.Info("Shutting down...")
	return nil
}
