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

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/receipt-mail/internal/mailbox"
	"github.com/zombor/receipt-mail/internal/receipt"
	"github.com/zombor/receipt-mail/internal/rendering"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-mail")
	var (
		port            = fs.IntLong("port", 8080, "HTTP server port")
		dbPath          = fs.StringLong("db", "receipt-mail.db", "Record archive file path")
		artifactPath    = fs.StringLong("artifacts", "./artifacts", "Ephemeral artifact directory path")
		credentialsPath = fs.StringLong("credentials", "credentials.json", "OAuth client secret file path")
		tokenPath       = fs.StringLong("token", "token.json", "Stored OAuth token file path")
		query           = fs.StringLong("query", "subject:receipt", "Mailbox search query")
		authUser        = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass        = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion     = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_MAIL"),
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

	ctx := context.Background()

	// Build the mailbox session; the token source lives here, not in
	// the pipeline.
	slog.Info("Initializing mailbox session...")
	tokenSource, err := mailbox.NewTokenSource(ctx, *credentialsPath, *tokenPath)
	if err != nil {
		slog.Error("Failed to initialize mailbox session", "error", err)
		os.Exit(1)
	}

	mail, err := mailbox.NewGmail(ctx, tokenSource)
	if err != nil {
		slog.Error("Failed to initialize mailbox client", "error", err)
		os.Exit(1)
	}

	// Initialize record archive
	slog.Info("Initializing record archive...")
	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize record archive", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize artifact storage
	slog.Info("Initializing artifact storage...")
	store, err := receipt.NewLocalStorage(*artifactPath)
	if err != nil {
		slog.Error("Failed to initialize artifact storage", "error", err)
		os.Exit(1)
	}

	// Initialize service
	receiptService := receipt.NewService(
		mail,
		rendering.NewFitzExtractor(),
		rendering.NewWKRenderer(),
		store,
		db,
		*query,
	)

	// Initialize server
	basicAuth := receipt.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := receipt.NewServer(receiptService, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "query", *query)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
