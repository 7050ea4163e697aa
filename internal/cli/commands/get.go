package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mdeous/passtis/internal/cli/bootstrap"
	"github.com/mdeous/passtis/internal/config"
)

type getCmd struct{}

func (getCmd) Name() string        { return "get" }
func (getCmd) Description() string { return "Fetch an entry from the store" }
func (getCmd) Usage() string {
	return "get [--group <g>] [--echo] [--silent] <name>"
}

func (getCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	group := fs.String("group", defaultGroup, "group the entry belongs to")
	echo := fs.Bool("echo", false, "print the password instead of copying it")
	silent := fs.Bool("silent", false, "do not output anything")
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
	payload, res, err := v.Get(ctx, *group, name, *echo)
	if err != nil {
		return err
	}
	if *silent {
		return nil
	}

	header := fmt.Sprintf("%s %s/%s %s", strings.Repeat("-", 10), *group, name, strings.Repeat("-", 10))
	fmt.Fprintln(Out, header)
	fmt.Fprintf(Out, "%-9s: %s\n", "URI", payload.URI)
	fmt.Fprintf(Out, "%-9s: %s\n", "Username", payload.Username)
	fmt.Fprintf(Out, "%-9s: %s\n", "Comment", payload.Comment)
	if *echo {
		fmt.Fprintf(Out, "%-9s: %s\n", "Password", res.EchoPassword)
	}
	fmt.Fprintln(Out, strings.Repeat("-", len(header)))
	if res.Copied {
		fmt.Fprintf(Out, "password copied to clipboard (will be cleared in %s)\n", v.ClipboardTTL())
	}
	return nil
}

func init() { RegisterCmd(getCmd{}) }
