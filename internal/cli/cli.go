package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"orcgo/internal/config"
	"orcgo/internal/logger"
	"orcgo/internal/orc"
	"orcgo/internal/ratelimit"
)

// Execute dispatches CLI subcommands.
func Execute(args []string) int {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("[orcgo] ")

	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "info":
		return runInfo(args[1:])
	case "dump":
		return runDump(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	case "version", "--version", "-v":
		fmt.Println("orcgo 0.1.0-dev")
		return 0
	default:
		log.Printf("Unknown subcommand: %s", args[0])
		printUsage()
		return 1
	}
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func initLogging(cfg *config.Config, prefix string) {
	if err := logger.Init(cfg.LogDir, cfg.LogLevelValue(), prefix); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}
}

func runInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	var configPath string
	fs.StringVar(&configPath, "config", "", "Configuration file path (YAML)")
	if err := fs.Parse(args); err != nil {
		return errorToExitCode(err)
	}
	path := fs.Arg(0)
	if path == "" {
		fs.Usage()
		log.Println("info requires a file path argument")
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 2
	}
	initLogging(cfg, "orcgo-info")

	f, err := orc.Open(path)
	if err != nil {
		log.Printf("Failed to open %s: %v", path, err)
		return 1
	}
	defer f.Close()

	fmt.Printf("file: %s\n", path)
	fmt.Printf("fields: %s\n", strings.Join(f.FieldNames(), ", "))
	fmt.Printf("stripes: %d\n", f.StripeCount())
	for i := 0; i < f.StripeCount(); i++ {
		si, err := f.StripeInfo(i)
		if err != nil {
			log.Printf("Failed to read stripe %d footer: %v", i, err)
			return 1
		}
		fmt.Printf("  stripe %d: rows=%d dataStart=%d dataLength=%d\n", i, si.RowCount, si.DataStart, si.DataLength)
	}
	return 0
}

func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	var configPath string
	fs.StringVar(&configPath, "config", "", "Configuration file path (YAML)")
	if err := fs.Parse(args); err != nil {
		return errorToExitCode(err)
	}
	path := fs.Arg(0)
	if path == "" {
		fs.Usage()
		log.Println("validate requires a file path argument")
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 2
	}
	initLogging(cfg, "orcgo-validate")

	f, err := orc.Open(path)
	if err != nil {
		log.Printf("Failed to open %s: %v", path, err)
		return 1
	}
	defer f.Close()

	columns := make([]int, len(f.FieldNames()))
	for i := range columns {
		columns[i] = i
	}

	rows := 0
	it := f.Rows(columns)
	for it.Next() {
		rows++
	}
	if err := it.Err(); err != nil {
		log.Printf("Validation failed at row %d: %v", rows, err)
		return 1
	}
	fmt.Printf("%s: ok, %d rows across %d stripes\n", path, rows, f.StripeCount())
	return 0
}

func runDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	var configPath string
	var columnsFlag string
	var rps float64
	var header bool
	var nullLiteral string
	fs.StringVar(&configPath, "config", "", "Configuration file path (YAML)")
	fs.StringVar(&columnsFlag, "columns", "", "Comma-separated field names to dump (default: all)")
	fs.Float64Var(&rps, "rps", 0, "Maximum rows emitted per second (0 = use config value; unlimited if that is 0 too)")
	fs.BoolVar(&header, "header", false, "Print a header line with field names")
	fs.StringVar(&nullLiteral, "null", "", "Literal printed for null values (default from config)")
	if err := fs.Parse(args); err != nil {
		return errorToExitCode(err)
	}
	path := fs.Arg(0)
	if path == "" {
		fs.Usage()
		log.Println("dump requires a file path argument")
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 2
	}
	initLogging(cfg, "orcgo-dump")

	if nullLiteral == "" {
		nullLiteral = cfg.Dump.NullLiteral
	}
	if rps == 0 {
		rps = cfg.Dump.RowsPerSecond
	}

	f, err := orc.Open(path)
	if err != nil {
		log.Printf("Failed to open %s: %v", path, err)
		return 1
	}
	defer f.Close()

	names := f.FieldNames()
	columns, err := resolveColumns(f, columnsFlag)
	if err != nil {
		log.Printf("%v", err)
		return 2
	}

	if header {
		selected := make([]string, len(columns))
		for i, c := range columns {
			selected[i] = names[c]
		}
		fmt.Println(strings.Join(selected, cfg.Dump.Delimiter))
	}

	limiter := ratelimit.New(rps)
	ctx := context.Background()

	it := f.Rows(columns)
	fields := make([]string, len(columns))
	for it.Next() {
		if err := limiter.Wait(ctx); err != nil {
			log.Printf("Rate limiter wait failed: %v", err)
			return 1
		}
		vals := it.Values()
		for i, v := range vals {
			fields[i] = formatValue(v, nullLiteral)
		}
		fmt.Println(strings.Join(fields, cfg.Dump.Delimiter))
	}
	if err := it.Err(); err != nil {
		log.Printf("Dump failed: %v", err)
		return 1
	}
	return 0
}

func resolveColumns(f *orc.File, columnsFlag string) ([]int, error) {
	names := f.FieldNames()
	if columnsFlag == "" {
		columns := make([]int, len(names))
		for i := range columns {
			columns[i] = i
		}
		return columns, nil
	}
	var columns []int
	for _, name := range strings.Split(columnsFlag, ",") {
		name = strings.TrimSpace(name)
		idx := f.FieldIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		columns = append(columns, idx)
	}
	return columns, nil
}

func formatValue(v orc.Value, nullLiteral string) string {
	switch v.Kind {
	case orc.KindNull:
		return nullLiteral
	case orc.KindBool:
		return strconv.FormatBool(v.Bool)
	case orc.KindU64:
		return strconv.FormatUint(v.U64, 10)
	case orc.KindUtf8:
		return v.Utf8
	default:
		return ""
	}
}

func errorToExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	log.Printf("Command execution failed: %v", err)
	return 1
}

func printUsage() {
	binary := filepath.Base(os.Args[0])
	fmt.Printf(`orcgo - Apache ORC file inspector

Usage:
  %[1]s <command> [options] <path.orc>

Available commands:
  info      Print field names and a per-stripe summary
  dump      Print rows as delimited text (--columns, --rps, --header, --null)
  validate  Walk every stripe and column, exit nonzero on first error
  help      Show this message
  version   Show version information

Run '%[1]s <command> -h' for command-specific options.
`, binary)
}
