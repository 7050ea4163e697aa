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

// defaultGroup receives entries added without an explicit group.
const defaultGroup = "default"

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Add a new entry" }
func (addCmd) Usage() string {
	return "add [--user <u>] [--uri <u>] [--comment <c>] [--group <g>] [--generate] [--echo] <name>"
}

func (addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "user name")
	uri := fs.String("uri", "", "resource URI")
	comment := fs.String("comment", "", "additional entry information")
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
	res, err := v.Add(ctx, *group, name, in, Out)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Entry added: %s/%s\n", *group, name)
	reportSecret(res, v)
	return nil
}

// reportSecret prints where a freshly revealed secret went.
func reportSecret(res vault.SecretResult, v *vault.Vault) {
	if res.EchoPassword != "" {
		fmt.Fprintf(Out, "Password: %s\n", res.EchoPassword)
	}
	if res.Copied {
		fmt.Fprintf(Out, "password copied to clipboard (will be cleared in %s)\n", v.ClipboardTTL())
	}
}

func init() { RegisterCmd(addCmd{}) }
