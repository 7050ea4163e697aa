package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mdeous/passtis/internal/cli/bootstrap"
	"github.com/mdeous/passtis/internal/config"
)

type delCmd struct{}

func (delCmd) Name() string        { return "del" }
func (delCmd) Description() string { return "Delete an entry" }
func (delCmd) Usage() string {
	return "del [--group <g>] [--yes] <name>"
}

func (delCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("del", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	group := fs.String("group", defaultGroup, "group the entry belongs to")
	yes := fs.Bool("yes", false, "do not ask for confirmation")
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

	if !*yes && !confirm(fmt.Sprintf("Delete entry %s/%s? [y/N] ", *group, name)) {
		fmt.Fprintln(Out, "Aborted")
		return nil
	}

	if err := v.Del(*group, name); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Entry removed: %s/%s\n", *group, name)
	return nil
}

// confirm asks a yes/no question on the shared reader; anything but an
// explicit yes counts as no.
func confirm(question string) bool {
	fmt.Fprint(Out, question)
	line, err := bufio.NewReader(In).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() { RegisterCmd(delCmd{}) }
