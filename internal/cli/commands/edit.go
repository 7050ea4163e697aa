package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/mdeous/passtis/internal/cli/bootstrap"
	"github.com/mdeous/passtis/internal/config"
	"github.com/mdeous/passtis/internal/vault"
)

type editCmd struct{}

func (editCmd) Name() string { return "edit" }
func (editCmd) Description() string {
	return "Edit an entry (password is always replaced, other fields only when given)"
}
func (editCmd) Usage() string {
	return "edit [--user <u>] [--uri <u>] [--comment <c>] [--group <g>] [--generate] [--echo] <name>"
}

func (editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "new user name (empty keeps the current one)")
	uri := fs.String("uri", "", "new resource URI (empty keeps the current one)")
	comment := fs.String("comment", "", "new comment (empty keeps the current one)")
	group := fs.String("group", defaultGroup, "group the entry belongs to")
	generate := fs.Bool("generate", false, "generate a random password")
	echo := fs.Bool("echo", false, "print the generated password instead of copying it")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return ErrUsage
	}
	name := rest[0]

	v, err := bootstrap.OpenVault(cfg)
	if err != nil {
		return err
	}
	in := vault.SecretInput{
		Username: *user,
		URI:      *uri,
		Comment:  *comment,
		Generate: *generate,
		Echo:     *echo,
	}
	res, err := v.Edit(ctx, *group, name, in, Out)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Entry updated: %s/%s\n", *group, name)
	reportSecret(res, v)
	return nil
}

func init() { RegisterCmd(editCmd{}) }
