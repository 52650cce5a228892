package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/themuffinator/BrumSchtick/mapfile"
	"github.com/themuffinator/BrumSchtick/parser"
)

var (
	cli struct {
		File   string `help:"Map file to parse." arg:"" type:"existingfile"`
		Format string `help:"Map format." default:"standard"`
	}
)

func main() {
	ctx := kong.Parse(&cli)

	format, err := mapfile.ParseFormat(cli.Format)
	ctx.FatalIfErrorf(err)

	raw, err := os.ReadFile(cli.File)
	ctx.FatalIfErrorf(err)

	doc, err := parser.ParseDocument(raw, cli.File, format, format, parser.NopStatus{})
	ctx.FatalIfErrorf(err)

	repr.Println(doc)
}
