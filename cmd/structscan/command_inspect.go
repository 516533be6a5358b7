package main

import (
	"github.com/shibukawa/structscan/intermediate"
)

// InspectCmd represents the inspect command
type InspectCmd struct {
	Input  string `short:"i" help:"Input file" type:"path"`
	Format string `help:"Output format (json, yaml, xml)" default:"json"`
	Filter string `help:"CEL expression selecting declarations"`
}

func (i *InspectCmd) Run(ctx *Context) error {
	format, err := intermediate.ParseFormat(i.Format)
	if err != nil {
		return err
	}

	_, source, doc, err := loadDocument(ctx, i.Input, i.Filter)
	if err != nil {
		return err
	}

	return intermediate.FromDocument(source, doc).Encode(ctx.Stdout, format)
}
