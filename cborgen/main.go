package main

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/synadia-labs/cborvisit/cborgen/core"
	"github.com/synadia-labs/cborvisit/internal/logging"
)

// CLI defines the cborgen command-line interface.
//
// A file input produces one companion file, or prints the generated
// source with --stdout. A directory input is walked recursively and every
// eligible source gets its own "*_cbor.go" file; hidden directories,
// vendor and testdata are not entered.
type CLI struct {
	Input   string   `short:"i" help:"Input Go file or directory (recursive)" default:"."`
	Output  string   `short:"o" help:"Output file (file input only; defaults to {input}_cbor.go)"`
	Stdout  bool     `help:"Print generated code instead of writing it (file input only)"`
	Structs []string `short:"s" help:"Only generate for these struct types (may be repeated)"`
	Verbose bool     `short:"v" help:"Enable verbose diagnostics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cborgen"),
		kong.Description("Generate streaming CBOR decoders (DecodeCBOR methods) for Go structs."),
	)

	log := logging.New("cborgen", cli.Verbose)
	ctx.FatalIfErrorf(run(&cli, os.Stdout, log))
}

func run(cli *CLI, stdout io.Writer, log zerolog.Logger) error {
	input := strings.TrimSpace(cli.Input)
	if input == "" {
		input = "."
	}
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	opts := core.Options{Structs: cli.Structs, Log: log}
	if info.IsDir() {
		if cli.Output != "" || cli.Stdout {
			return errors.New("--output and --stdout need a file input")
		}
		n, err := generateTree(input, opts)
		log.Info().Str("dir", input).Int("files", n).Msg("generation complete")
		return err
	}

	if cli.Stdout {
		return printFile(input, stdout, opts)
	}
	out := strings.TrimSpace(cli.Output)
	if out == "" {
		out = companionPath(input)
	}
	return core.Run(input, out, opts)
}

// printFile writes the unformatted generated source for input to w.
func printFile(input string, w io.Writer, opts core.Options) error {
	file, err := parser.ParseFile(token.NewFileSet(), input, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	opts.Package = core.LoadPackage(input, file, opts.Log)
	src, n, err := core.Generate(file, opts)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: no struct types to generate", input)
	}
	_, err = w.Write(src)
	return err
}

// generateTree runs the generator for every eligible source below root
// and reports how many files were processed.
func generateTree(root string, opts core.Options) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %q: %w", path, err)
		}
		if entry.IsDir() {
			if path != root && skipDir(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || !isSource(entry.Name()) {
			return nil
		}
		if err := core.Run(path, companionPath(path), opts); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		n++
		return nil
	})
	return n, err
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}

// isSource excludes tests and previously generated files.
func isSource(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, "_cbor.go")
}

// companionPath derives the "*_cbor.go" filename for a Go source file.
func companionPath(input string) string {
	return strings.TrimSuffix(input, ".go") + "_cbor.go"
}
