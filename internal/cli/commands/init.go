package commands

import (
	"context"
	"fmt"

	"github.com/mdeous/passtis/internal/cli/bootstrap"
	"github.com/mdeous/passtis/internal/config"
	"github.com/mdeous/passtis/internal/store"
)

type initCmd struct{}

func (initCmd) Name() string        { return "init" }
func (initCmd) Description() string { return "Initialize the password store" }
func (initCmd) Usage() string       { return "init <key_id>" }

func (initCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	keyID := args[0]

	_, err := store.Init(ctx, cfg.Dir, keyID, bootstrap.Engine(cfg), store.WithLogger(bootstrap.Logger(cfg)))
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "New store created: %s\n", cfg.Dir)
	return nil
}

func init() { RegisterCmd(initCmd{}) }
