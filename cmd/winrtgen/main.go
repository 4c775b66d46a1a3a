package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"winrtgen/cmd/winrtgen/internal/check"
	"winrtgen/cmd/winrtgen/internal/describe"
	"winrtgen/cmd/winrtgen/internal/gen"
	"winrtgen/cmd/winrtgen/internal/serve"
)

type CLI struct {
	Version  VersionCmd   `cmd:"" help:"Print version information."`
	Gen      gen.Cmd      `cmd:"" help:"Generate Rust bindings from a manifest."`
	Check    check.Cmd    `cmd:"" help:"Compose and render everything without writing files."`
	Describe describe.Cmd `cmd:"" help:"Print the composed surface of one type."`
	Serve    serve.Cmd    `cmd:"" help:"Serve the metadata explorer over HTTP."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("winrtgen"),
		kong.Description("Rust binding generator for WinRT metadata."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
