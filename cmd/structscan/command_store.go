package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/structscan/catalog"
)

// StoreCmd represents the store command
type StoreCmd struct {
	Input       string `short:"i" help:"Input file" type:"path"`
	Environment string `name:"env" help:"Database environment to use from config" default:"development"`
}

func (s *StoreCmd) Run(ctx *Context) error {
	config, source, doc, err := loadDocument(ctx, s.Input, "")
	if err != nil {
		return err
	}

	dbConfig, err := config.Database(s.Environment)
	if err != nil {
		return err
	}

	store, err := catalog.Open(dbConfig.Driver, dbConfig.Connection)
	if err != nil {
		return err
	}
	defer store.Close()

	bg := context.Background()

	if err := store.Migrate(bg); err != nil {
		return err
	}

	previous, err := store.Latest(bg, source)
	hasPrevious := err == nil

	if err != nil && !errors.Is(err, catalog.ErrRunNotFound) {
		return err
	}

	run, err := store.Save(bg, source, doc)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Stored %d declaration(s) in %s (%s)", run.Declarations, s.Environment, dbConfig.Driver)
	}

	fmt.Fprintln(ctx.Stdout, run.ID)

	if !hasPrevious || ctx.Quiet {
		return nil
	}

	_, before, err := store.Load(bg, previous.ID)
	if err != nil {
		return err
	}

	printDiff(catalog.Compare(before, doc), previous.ID.String())

	return nil
}

func printDiff(diff catalog.Diff, previous string) {
	if diff.Empty() {
		color.Green("No changes since %s", previous)
		return
	}

	color.Yellow("Changes since %s:", previous)

	for _, name := range diff.Added {
		color.Green("  + %s", name)
	}

	for _, name := range diff.Removed {
		color.Red("  - %s", name)
	}

	for _, name := range diff.Changed {
		color.Yellow("  ~ %s", name)
	}
}
