// Command erpcall compiles an attribute file into an FND_USER_PKG call and
// optionally runs it.
//
//	erpcall -mode create -attrs user.json                  # dry run
//	erpcall -config erpcall.yaml -mode update -attrs - -exec
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	pluralizer "github.com/gertd/go-pluralize"
	_ "github.com/lib/pq"

	"github.com/Konsultn-Engineering/erpcall"
	"github.com/Konsultn-Engineering/erpcall/attribute"
	"github.com/Konsultn-Engineering/erpcall/builder"
	"github.com/Konsultn-Engineering/erpcall/config"
	"github.com/Konsultn-Engineering/erpcall/dialect"
)

var pluralize = pluralizer.NewClient()

type options struct {
	configPath string
	mode       string
	attrsPath  string
	dialect    string
	exec       bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "settings file (YAML)")
	flag.StringVar(&o.mode, "mode", "update", "create or update")
	flag.StringVar(&o.attrsPath, "attrs", "-", "attribute file (JSON), - for stdin")
	flag.StringVar(&o.dialect, "dialect", "", "dialect for dry runs (jdbc, oracle, postgres)")
	flag.BoolVar(&o.exec, "exec", false, "execute the call instead of printing it")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "erpcall:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	if o.dialect != "" {
		cfg.Call.Dialect = o.dialect
	}
	logger, err := config.NewLogger(stderr, cfg.Log)
	if err != nil {
		return err
	}

	mode, err := builder.ParseMode(o.mode)
	if err != nil {
		return err
	}
	attrs, err := readAttributes(o.attrsPath, stdin)
	if err != nil {
		return err
	}

	if !o.exec {
		return dryRun(cfg, mode, attrs, logger, stdout)
	}

	eng, err := erpcall.Open(ctx, *cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	call, err := eng.Compile(mode, attrs...)
	if err != nil {
		return err
	}
	if _, err := eng.Exec(ctx, call); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %s executed with %s\n", call.Procedure, call.ID,
		pluralize.Pluralize("parameter", len(call.Params), true))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Parse(nil)
	}
	return config.Load(path)
}

func readAttributes(path string, stdin io.Reader) ([]attribute.Attribute, error) {
	if path == "-" {
		return decodeAttributes(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeAttributes(f)
}

func dryRun(cfg *config.Config, mode builder.Mode, attrs []attribute.Attribute, logger *slog.Logger, w io.Writer) error {
	table, err := cfg.LoadTable()
	if err != nil {
		return err
	}
	d, ok, err := cfg.Dialect()
	if err != nil {
		return err
	}
	if !ok {
		d = dialect.NewJDBCDialect()
	}
	ids, err := cfg.IDGenerator()
	if err != nil {
		return err
	}

	call, err := builder.Compile(table, d, cfg.Call.Schema, mode, attrs, builder.WithLogger(logger), builder.WithIDGenerator(ids))
	if err != nil {
		return err
	}

	fmt.Fprintln(w, call.CallText)
	fmt.Fprintf(w, "-- %s, %s\n", call.ID, pluralize.Pluralize("parameter", len(call.Params), true))
	for i, p := range call.Params {
		fmt.Fprintf(w, "--   %d: %s\n", i+1, p)
	}
	fmt.Fprintln(w, "-- inline:", call.Inline())
	return nil
}
