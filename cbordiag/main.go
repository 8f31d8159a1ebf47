package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/synadia-labs/cborvisit/internal/config"
	"github.com/synadia-labs/cborvisit/internal/logging"
	"github.com/synadia-labs/cborvisit/internal/source"
	cbor "github.com/synadia-labs/cborvisit/runtime"
)

// Globals holds the flags shared by every command. Flags win over the
// config file, which wins over the library defaults.
type Globals struct {
	Config          string `help:"TOML file with decoder limits" type:"path"`
	Compression     string `short:"c" help:"Input framing: auto, none, zstd or lz4 (default from config, else auto)"`
	MaxDepth        int    `help:"Nesting limit (0 keeps the configured value, -1 disables)"`
	MaxContainerLen int64  `help:"Declared length limit (0 keeps the configured value, -1 disables)"`
	NoValidateUTF8  bool   `name:"no-validate-utf8" help:"Skip UTF-8 validation of text strings"`
	Verbose         bool   `short:"v" help:"Enable verbose diagnostics"`

	log zerolog.Logger
}

// CLI defines the cbordiag command-line interface.
type CLI struct {
	Globals

	Diag     DiagCmd     `cmd:"" default:"withargs" help:"Print one item in diagnostic notation"`
	Validate ValidateCmd `cmd:"" help:"Check that the input holds exactly one well-formed item"`
	Seq      SeqCmd      `cmd:"" help:"Print every item of a CBOR sequence"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "cbordiag:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("cbordiag"),
		kong.Description("Decode CBOR in a streaming fashion and print RFC 8949 diagnostic notation."),
		kong.BindTo(out, (*io.Writer)(nil)),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cli.log = logging.New("cbordiag", cli.Verbose)
	return ctx.Run(&cli.Globals)
}

// open resolves the configuration and returns a decoder over input.
func (g *Globals) open(input string) (*cbor.Decoder, func() error, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.Compression != "" {
		if cfg.Compression, err = source.ParseCompression(g.Compression); err != nil {
			return nil, nil, err
		}
	}
	if g.MaxDepth != 0 {
		cfg.Decode.MaxDepth = g.MaxDepth
	}
	if g.MaxContainerLen != 0 {
		cfg.Decode.MaxContainerLen = g.MaxContainerLen
	}
	if g.NoValidateUTF8 {
		cfg.Decode.SkipUTF8Validation = true
	}

	src, err := source.Open(input, cfg.Compression)
	if err != nil {
		return nil, nil, err
	}
	g.log.Debug().
		Str("input", input).
		Str("compression", string(src.Compression)).
		Int("max_depth", cfg.Decode.MaxDepth).
		Int64("max_container_len", cfg.Decode.MaxContainerLen).
		Msg("opened input")
	if head, _ := src.Peek(64); cbor.IsLikelyJSON(head) {
		g.log.Warn().Str("input", input).Msg("input looks like JSON text, not CBOR")
	}
	return cfg.Decode.NewDecoder(src), src.Close, nil
}

// DiagCmd prints a single item.
type DiagCmd struct {
	Input string `arg:"" optional:"" default:"-" help:"Input file, - for stdin"`
}

// Run implements the diag command.
func (c *DiagCmd) Run(g *Globals, out io.Writer) error {
	d, closeFn, err := g.open(c.Input)
	if err != nil {
		return err
	}
	defer closeFn()

	s, err := cbor.DiagNext(d)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := d.End(); err != nil {
		return fmt.Errorf("after offset %d: %w", d.InputOffset(), err)
	}
	_, err = fmt.Fprintln(out, s)
	return err
}

// ValidateCmd checks well-formedness without printing the item.
type ValidateCmd struct {
	Input string `arg:"" optional:"" default:"-" help:"Input file, - for stdin"`
}

// Run implements the validate command.
func (c *ValidateCmd) Run(g *Globals, out io.Writer) error {
	d, closeFn, err := g.open(c.Input)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := (cbor.Ignored{}).DecodeCBOR(d); err != nil {
		return fmt.Errorf("invalid: %w", err)
	}
	if err := d.End(); err != nil {
		return fmt.Errorf("invalid after offset %d: %w", d.InputOffset(), err)
	}
	g.log.Debug().Int64("bytes", d.InputOffset()).Msg("validated")
	_, err = fmt.Fprintln(out, "ok")
	return err
}

// SeqCmd prints every item of an RFC 8742 sequence, one per line.
type SeqCmd struct {
	Input string `arg:"" optional:"" default:"-" help:"Input file, - for stdin"`

	Limit int `short:"n" help:"Stop after this many items (0 for all)"`
}

// Run implements the seq command.
func (c *SeqCmd) Run(g *Globals, out io.Writer) error {
	d, closeFn, err := g.open(c.Input)
	if err != nil {
		return err
	}
	defer closeFn()

	n := 0
	for c.Limit == 0 || n < c.Limit {
		more, err := d.More()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		s, err := cbor.DiagNext(d)
		if err != nil {
			return fmt.Errorf("item %d: %w", n, err)
		}
		if _, err := fmt.Fprintln(out, s); err != nil {
			return err
		}
		n++
	}
	g.log.Debug().Int("items", n).Int64("bytes", d.InputOffset()).Msg("sequence done")
	return nil
}
