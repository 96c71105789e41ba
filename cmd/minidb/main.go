package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-logr/stdr"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/kihiko-jay/mini-rdbms/internal/domain/data"
	"github.com/kihiko-jay/mini-rdbms/internal/engine"
	"github.com/kihiko-jay/mini-rdbms/internal/logging"
	"github.com/kihiko-jay/mini-rdbms/internal/network"
	"github.com/kihiko-jay/mini-rdbms/internal/repl"
	"github.com/kihiko-jay/mini-rdbms/internal/web"
)

func main() {
	serverMode := flag.Bool("server", false, "Run the TCP server")
	port := flag.Int("port", 4444, "TCP server port")
	httpMode := flag.Bool("http", false, "Run the HTTP API server")
	httpAddr := flag.String("http-addr", ":8080", "HTTP listen address")
	connect := flag.String("connect", "", "Connect to a running server instead of starting one")
	seqURL := flag.String("seq-url", "", "Seq ingestion endpoint for structured logs")
	flag.Parse()

	logger, closeFn := logging.SetupLogger(*seqURL)
	defer closeFn()
	slog.SetDefault(logger)

	// Internal telemetry errors go to a plain stderr logger.
	otel.SetLogger(stdr.New(log.New(os.Stderr, "otel ", log.LstdFlags)))

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			slog.Error("tracer shutdown", "error", err)
		}
	}()

	if *connect != "" {
		if err := runClient(*connect); err != nil {
			slog.Error("client failed", "error", err)
			os.Exit(1)
		}
		return
	}

	eng := engine.New()
	eng.AddObserver(engine.NewLoggingObserver())
	defer func() {
		if err := eng.Close(); err != nil {
			slog.Error("engine shutdown", "error", err)
		}
	}()

	switch {
	case *serverMode:
		accessLog, err := zap.NewProduction()
		if err != nil {
			slog.Error("access logger setup failed", "error", err)
			os.Exit(1)
		}
		defer accessLog.Sync()

		srv := network.NewServer(eng, accessLog)
		addr := fmt.Sprintf(":%d", *port)
		slog.Info("Starting server mode...", "addr", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}

	case *httpMode:
		slog.Info("Starting HTTP mode...", "addr", *httpAddr)
		if err := http.ListenAndServe(*httpAddr, web.NewHandler(eng)); err != nil {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}

	default:
		slog.Info("Starting REPL mode...")
		repl.Start(eng)
	}
}

// runClient is a line-oriented shell against a remote server.
func runClient(addr string) error {
	client, err := network.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("Connected to %s\n", addr)
	fmt.Println("Type SQL commands, or exit to quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("db> ")
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "\\q" || line == ".exit" || line == ".quit" {
			return nil
		}

		resp, err := client.Query(line)
		if err != nil {
			return err
		}
		printResponse(os.Stdout, resp)
	}
}

// printResponse rebuilds rows from the wire shape so remote results
// render exactly like local ones.
func printResponse(w io.Writer, resp *network.Response) {
	if resp.Error != "" {
		fmt.Fprintf(w, "SQL Error: %s\n", resp.Error)
		return
	}

	res := &engine.Result{
		Columns:      resp.Columns,
		RowsAffected: resp.RowsAffected,
		Message:      resp.Message,
	}
	for _, vals := range resp.Rows {
		res.Rows = append(res.Rows, data.NewRow(resp.Columns, vals))
	}
	repl.PrintResult(w, res)
}
