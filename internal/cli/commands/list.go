package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mdeous/passtis/internal/cli/bootstrap"
	"github.com/mdeous/passtis/internal/config"
	"github.com/mdeous/passtis/internal/store"
)

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "List store entries" }
func (listCmd) Usage() string {
	return "list [--groups <g1,g2,...>]"
}

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	groupsFlag := fs.String("groups", "", "display only entries from these comma-separated groups")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if fs.NArg() != 0 {
		return ErrUsage
	}
	var groups []string
	if *groupsFlag != "" {
		groups = strings.Split(*groupsFlag, ",")
	}

	v, err := bootstrap.OpenVault(cfg)
	if err != nil {
		return err
	}
	listing, err := v.List(groups)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, cfg.Dir)
	renderTree(Out, listing)
	return nil
}

// renderTree prints groups and entries the way the store has always shown
// them: a two-level tree with box-drawing connectors.
func renderTree(out io.Writer, listing []store.GroupListing) {
	for gi, group := range listing {
		lastGroup := gi == len(listing)-1
		connector := "├"
		if lastGroup {
			connector = "└"
		}
		fmt.Fprintf(out, "%s── %s\n", connector, group.Name)

		indent := "│"
		if lastGroup {
			indent = " "
		}
		for ei, entry := range group.Entries {
			connector = "├"
			if ei == len(group.Entries)-1 {
				connector = "└"
			}
			fmt.Fprintf(out, "%s   %s── %s\n", indent, connector, entry)
		}
	}
}

func init() { RegisterCmd(listCmd{}) }
