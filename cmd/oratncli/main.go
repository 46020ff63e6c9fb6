// Command oratncli is a minimal interactive client for exercising a single
// Oracle TNS/TTC connection: it dials, runs one query, and browses the
// result in a terminal row browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mickamy/ora-ttc/bind"
	"github.com/mickamy/ora-ttc/cursor"
	"github.com/mickamy/ora-ttc/diag"
	"github.com/mickamy/ora-ttc/internal/tui"
	"github.com/mickamy/ora-ttc/metrics"
	"github.com/mickamy/ora-ttc/oraconn"
	"github.com/mickamy/ora-ttc/protocol"
	"github.com/mickamy/ora-ttc/stmt"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("oratncli", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "oratncli — Oracle TNS/TTC row browser\n\nUsage:\n  oratncli [flags] <query>\n\nFlags:\n")
		fs.PrintDefaults()
	}

	host := fs.String("host", "", "database host (required)")
	port := fs.Int("port", oraconn.DefaultPort, "database port")
	service := fs.String("service", "", "service name or SID (required)")
	username := fs.String("user", "", "username (required)")
	password := fs.String("password-env", "ORATNCLI_PASSWORD", "environment variable holding the password")
	statusAddr := fs.String("status", "", "status/metrics HTTP address (e.g. :8091); empty disables it")
	prefetch := fs.Uint("prefetch", 50, "row prefetch count")
	exportDir := fs.String("export-dir", "", "directory export files are written to")
	showVersion := fs.Bool("version", false, "show version and exit")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("oratncli %s\n", version)
		return
	}

	if *host == "" || *service == "" || *username == "" || fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	cfg := oraconn.Config{
		Host:     *host,
		Port:     *port,
		Service:  *service,
		Username: *username,
		Password: os.Getenv(*password),
		Program:  "oratncli",
		Logger:   log.Default(),
	}

	if err := run(cfg, fs.Arg(0), *statusAddr, uint32(*prefetch), *exportDir); err != nil {
		log.Fatal(err)
	}
}

func run(cfg oraconn.Config, query, statusAddr string, prefetch uint32, exportDir string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := oraconn.Dial(ctx, cfg)
	if err != nil {
		return fmt.Errorf("oratncli: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	collector := metrics.NewCollector(prometheus.Labels{"service": cfg.Service})

	if statusAddr != "" {
		var lc net.ListenConfig
		lis, err := lc.Listen(ctx, "tcp", statusAddr)
		if err != nil {
			return fmt.Errorf("oratncli: listen status %s: %w", statusAddr, err)
		}
		statusSrv := diag.New(conn, conn.UnderlyingConn(), collector)
		go func() {
			log.Printf("status server listening on %s", statusAddr)
			if err := statusSrv.Serve(lis); err != nil {
				log.Printf("status serve: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = statusSrv.Shutdown(shutdownCtx)
		}()
	}

	st := stmt.New(query, 0)
	opts := protocol.ExecuteOptions{Prefetch: prefetch, ArraySize: prefetch, RowCount: 1}

	start := time.Now()
	rows, err := conn.Execute(ctx, st, bind.NewEncoder(), nil, opts)
	collector.ObserveRoundTrip(time.Since(start))
	if err != nil {
		return fmt.Errorf("oratncli: execute: %w", err)
	}
	if rows == nil {
		log.Printf("statement executed (no result set)")
		return nil
	}

	columns := waitForColumns(conn)
	model := tui.New(query, columns, rows).WithExportDir(exportDir)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("oratncli: tui: %w", err)
	}
	return nil
}

// waitForColumns polls Connection.Columns briefly: describe info always
// precedes the first row, so by the time the query executor has sent its
// request this resolves almost immediately.
func waitForColumns(conn *oraconn.Connection) []cursor.ColumnDescriptor {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cols := conn.Columns(); cols != nil {
			return cols
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}
