package commands

import (
	stderrors "errors"
	"fmt"

	"git.home.luguber.info/inful/glueregen/internal/config"
	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	fmt.Printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		if stderrors.Is(err, config.ErrConfigExists) {
			return errors.ValidationError("configuration file already exists, use --force to overwrite").
				WithCause(err).
				WithContext("path", root.Config).
				Build()
		}
		return errors.FileSystemError("cannot write configuration").WithCause(err).WithContext("path", root.Config).Build()
	}
	fmt.Println("initialized successfully")
	return nil
}
