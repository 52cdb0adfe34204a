// Command docx-sanitizer repairs DOCX files that make LibreOffice-based
// conversion hang or crash.
//
// Usage:
//
//	docx-sanitizer [-mode rtl|sdt|all] [-v N] input.docx [output.docx]
//	docx-sanitizer -check-rtl input.docx
//	docx-sanitizer -serve
//
// When output is omitted the input is overwritten in place through an
// atomic temp-file swap. -serve exposes the same operations as MCP tools
// over stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Cortexa-LLC/mcp/src/docx-sanitizer/config"
	"github.com/Cortexa-LLC/mcp/src/docx-sanitizer/sanitizer"
	"github.com/joho/godotenv"
)

// Tool identity constants, shared by the CLI and the MCP server.
const (
	appName    = "docx-sanitizer"
	appVersion = "0.1.0"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(appName, flag.ExitOnError)
	mode := fs.String("mode", "all", "sanitization mode: rtl (compat fix + glossary removal), sdt (unwrap only), all")
	checkRTL := fs.Bool("check-rtl", false, "print whether the document has RTL content and exit")
	verbosity := fs.Int("v", 0, "verbosity: 0=warnings, 1=info, 2=debug")
	serve := fs.Bool("serve", false, "run as an MCP stdio server instead of a one-shot transform")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] input.docx [output.docx]\n\n", appName)
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if *version {
		fmt.Printf("%s v%s\n", appName, appVersion)
		return 0
	}

	// Optional .env in the working directory; real env vars win.
	_ = godotenv.Load()

	logger := newLogger(*verbosity)
	san := sanitizer.New(config.Load(), logger)
	ctx := context.Background()

	if *serve {
		return serveMCP(san, logger)
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}
	input := fs.Arg(0)

	if _, err := os.Stat(input); err != nil {
		logger.Error("file not found", "path", input)
		return 1
	}

	if *checkRTL {
		has, err := san.CheckRTL(ctx, input)
		if err != nil {
			logger.Warn("could not check RTL", "error", err)
		}
		if has {
			fmt.Println("true")
		} else {
			fmt.Println("false")
		}
		return 0
	}

	m, err := sanitizer.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return 2
	}

	output := fs.Arg(1) // empty means overwrite in place
	if err := san.Sanitize(ctx, input, output, m); err != nil {
		logger.Error("sanitize failed", "error", err)
		return 1
	}
	if output == "" {
		output = input
	}
	fmt.Printf("Sanitized DOCX written to: %s\n", output)
	return 0
}

// newLogger builds the leveled stderr diagnostic sink. Verbosity never
// changes transform behavior, only how much the pipeline narrates.
func newLogger(verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
