package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/glueregen/cmd/glueregen/commands"
	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
	"git.home.luguber.info/inful/glueregen/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("glueregen"),
		kong.Description("Regenerate the umbrella sources, headers and ffigen configuration of a native binding package."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	global.Logger = slog.Default()

	err := parser.Run(global, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
