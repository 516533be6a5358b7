package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/shibukawa/structscan/cursor"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
	Stdout  io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config   string      `help:"Configuration file path" default:"structscan.yaml"`
	Verbose  bool        `help:"Enable verbose output" short:"v"`
	Quiet    bool        `help:"Suppress output" short:"q"`
	Generate GenerateCmd `cmd:"" help:"Generate TypeScript, documentation and intermediate files"`
	Inspect  InspectCmd  `cmd:"" help:"Print the scanned declarations"`
	Store    StoreCmd    `cmd:"" help:"Save the scanned declarations into the catalog database"`
	Init     InitCmd     `cmd:"" help:"Write a sample configuration file"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Stdout, "structscan v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("structscan"),
		kong.Description("Scan attribute-annotated struct declarations and generate code from them"),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdout:  os.Stdout,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		printError(os.Stderr, err, appCtx.Verbose)
		os.Exit(1)
	}
}

// printError reports err in red; scan errors show their source context in verbose mode
func printError(w io.Writer, err error, verbose bool) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "Error: %v\n", err)

	var scanErr *cursor.Error
	if verbose && errors.As(err, &scanErr) && scanErr.Context != "" {
		fmt.Fprintf(w, "  near: %s\n", scanErr.Context)
	}
}
