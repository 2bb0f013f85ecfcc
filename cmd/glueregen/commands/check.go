package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/glueregen/internal/pipeline"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := pipeline.New(cfg, pipeline.WithLogger(g.logger())).Check(ctx)
	printSummary(os.Stdout, res)
	if err == nil {
		fmt.Println("All generated files are up to date")
	}
	return err
}
