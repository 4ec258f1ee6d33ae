package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/mcncl/flatptr/internal/config"
	"github.com/mcncl/flatptr/internal/encoder"
	"github.com/mcncl/flatptr/internal/errors"
	"github.com/mcncl/flatptr/internal/flattener"
	"github.com/mcncl/flatptr/internal/models"
	"github.com/mcncl/flatptr/internal/parser"
	"github.com/mcncl/flatptr/internal/state"
	"github.com/mcncl/flatptr/internal/transform"
)

// CLI defines the command-line interface
var CLI struct {
	Mode          string `help:"Operation: flatten a nested document into pointer keys, unflatten a pointer map back, or work the planner state store (load-state, save-state, set-photo)." short:"m" enum:"flatten,unflatten,load-state,save-state,set-photo" default:"flatten"`
	Input         string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output        string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	From          string `help:"Input format (json or yaml)." short:"f" default:"json"`
	To            string `help:"Output format (json or yaml)." short:"t" default:"json"`
	Indent        int    `help:"Spaces per indent level in the output; 0 for compact JSON." default:"2"`
	KeyCase       string `help:"Normalize mapping keys before conversion (none, camel, pascal, snake, kebab)." default:"none"`
	Config        string `help:"Path to config file. Defaults to the nearest .flatptr.yml." short:"c" type:"path"`
	Store         string `help:"Path to the planner state file. Overrides the config value." type:"path"`
	PhotoFile     string `help:"Image file to attach in set-photo mode." type:"path"`
	Companionship int    `help:"Companionship index for set-photo mode." default:"0"`
	Missionary    int    `help:"Missionary index for set-photo mode." default:"0"`
	Debug         bool   `help:"Enable debug logging and a dump of the parsed tree." short:"d"`
	Version       bool   `help:"Show version information." short:"v"`
	Interactive   bool   `help:"Run in interactive mode, allowing direct input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Log    *zap.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("flatptr"),
		kong.Description("Convert between nested JSON/YAML documents and flat RFC 6901 pointer maps"),
		kong.UsageOnError(),
	)

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("flatptr version %s\n", Version)
		return
	}

	ctx, err := buildContext()
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: flatptr --help\n")
		os.Exit(1)
	}
}

// buildContext resolves config file plus CLI overrides and sets up
// logging
func buildContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, CLI.From, CLI.To, CLI.KeyCase, CLI.Indent, CLI.Debug)
	if err != nil {
		return nil, errors.NewInputError("invalid configuration", err)
	}

	log := zap.NewNop()
	if cfg.Dev.Debug {
		log, err = zap.NewDevelopment()
		if err != nil {
			return nil, errors.NewInputError("failed to set up debug logging", err)
		}
	}

	return &Context{Config: cfg, Log: log}, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	defer func() { _ = ctx.Log.Sync() }()

	enc := encoder.NewEncoder()
	enc.Indent = ctx.Config.Output.Indent

	switch CLI.Mode {
	case "load-state":
		return runLoadState(ctx, enc)
	case "save-state":
		return runSaveState(ctx)
	case "set-photo":
		return runSetPhoto(ctx)
	}

	input, err := readInput()
	if err != nil {
		return err
	}

	value, err := parser.ParseString(input, ctx.Config.FromFormat())
	if err != nil {
		return err
	}
	ctx.Log.Debug("parsed input", zap.String("mode", CLI.Mode), zap.String("from", ctx.Config.From))

	if ctx.Config.Dev.Debug {
		fmt.Fprint(os.Stderr, spew.Sdump(value))
	}

	caser := transform.Caser(ctx.Config.KeyCase())

	var out string
	switch CLI.Mode {
	case "unflatten":
		var fm models.FlatMap
		fm, err = parser.FlatMapFromValue(value)
		if err != nil {
			return err
		}
		// Key casing applies to reconstructed mapping keys, never to
		// the pointer strings themselves.
		nested := transform.Keys(flattener.Unflatten(fm), caser)
		out, err = enc.EncodeValue(nested, ctx.Config.ToFormat())
	default:
		out, err = enc.EncodeFlat(flattener.Flatten(transform.Keys(value, caser)), ctx.Config.ToFormat())
	}
	if err != nil {
		return err
	}

	return writeOutput(out)
}

// stateStore resolves the planner state file: the --store flag wins,
// then the config file's store.path.
func stateStore(ctx *Context) *state.Store {
	path := CLI.Store
	if path == "" {
		path = ctx.Config.Store.Path
	}
	return state.NewStore(path, ctx.Log)
}

// runLoadState flattens the persisted planner state into the widget
// entries the UI consumes. A missing state file yields the default
// planner rather than an error, mirroring a first visit with an empty
// storage slot.
func runLoadState(ctx *Context, enc *encoder.Encoder) error {
	s, err := stateStore(ctx).Load()
	if err != nil {
		return err
	}
	if s == nil {
		s = state.DefaultAppState()
	}

	entries, err := s.WidgetEntries()
	if err != nil {
		return err
	}
	out, err := enc.EncodeFlat(entries, ctx.Config.ToFormat())
	if err != nil {
		return err
	}
	return writeOutput(out)
}

// runSaveState rebuilds a planner state from flat widget entries and
// persists it.
func runSaveState(ctx *Context) error {
	input, err := readInput()
	if err != nil {
		return err
	}
	value, err := parser.ParseString(input, ctx.Config.FromFormat())
	if err != nil {
		return err
	}
	fm, err := parser.FlatMapFromValue(value)
	if err != nil {
		return err
	}
	s, err := state.AppStateFromWidgetEntries(fm)
	if err != nil {
		return err
	}
	return stateStore(ctx).Save(s)
}

// runSetPhoto attaches an image file to a missionary slot in the
// persisted planner state.
func runSetPhoto(ctx *Context) error {
	if CLI.PhotoFile == "" {
		return errors.NewInputError("set-photo requires --photo-file", errors.ErrNoInput)
	}
	file, err := os.Open(CLI.PhotoFile)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewInputError(fmt.Sprintf("photo file '%s' not found", CLI.PhotoFile), errors.ErrFileNotFound)
		}
		return errors.NewInputError(fmt.Sprintf("failed to open photo file '%s'", CLI.PhotoFile), err)
	}
	defer func() { _ = file.Close() }()

	encoded, err := state.EncodeUpload(file)
	if err != nil {
		return errors.NewInputError("failed to encode photo", err)
	}
	photo := state.CoercePhotoValue(&encoded)
	if photo == nil {
		return errors.NewInputError(fmt.Sprintf("'%s' is not a recognized image format", CLI.PhotoFile), errors.ErrInvalidInput)
	}

	store := stateStore(ctx)
	s, err := store.Load()
	if err != nil {
		return err
	}
	if s == nil {
		s = state.DefaultAppState()
	}
	if CLI.Companionship < 0 || CLI.Companionship >= len(s.Companionships) {
		return errors.NewInputError(fmt.Sprintf("no companionship at index %d", CLI.Companionship), errors.ErrInvalidInput)
	}
	missionaries := s.Companionships[CLI.Companionship].Missionaries
	if CLI.Missionary < 0 || CLI.Missionary >= len(missionaries) {
		return errors.NewInputError(fmt.Sprintf("no missionary at index %d", CLI.Missionary), errors.ErrInvalidInput)
	}
	missionaries[CLI.Missionary].Photo = photo

	return store.Save(s)
}

// readInput reads the document from file or stdin
func readInput() (string, error) {
	if CLI.Input != "" {
		data, err := os.ReadFile(CLI.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.NewInputError(fmt.Sprintf("file '%s' not found", CLI.Input), errors.ErrFileNotFound)
			}
			return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", CLI.Input), err)
		}
		if len(data) == 0 {
			return "", errors.NewInputError(fmt.Sprintf("input file '%s' is empty", CLI.Input), errors.ErrFileEmpty)
		}
		return string(data), nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

// writeOutput writes the rendered document to file or stdout
func writeOutput(out string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(out+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Println(out)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste
// a document and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "flatptr Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your document below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		builder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	input := builder.String()
	if len(input) == 0 {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing...")
	return input, nil
}
