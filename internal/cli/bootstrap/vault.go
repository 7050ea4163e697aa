// Package bootstrap wires the configuration into ready-to-use
// collaborators for the CLI commands.
package bootstrap

import (
	"io"

	"go.uber.org/zap"

	"github.com/mdeous/passtis/internal/cli/prompt"
	"github.com/mdeous/passtis/internal/clipboard"
	"github.com/mdeous/passtis/internal/config"
	"github.com/mdeous/passtis/internal/gpg"
	"github.com/mdeous/passtis/internal/password"
	"github.com/mdeous/passtis/internal/store"
	"github.com/mdeous/passtis/internal/vault"
)

// Logger builds the CLI logger: development logging with -V, silent
// otherwise.
func Logger(cfg *config.Config) *zap.SugaredLogger {
	if !cfg.Verbose {
		return zap.NewNop().Sugar()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// Engine builds the encryption provider adapter. Used directly by init,
// which runs before a store exists.
func Engine(cfg *config.Config) gpg.Engine {
	return gpg.NewCLI(gpg.WithLogger(Logger(cfg)))
}

// OpenVault opens the configured store and assembles the vault around it.
func OpenVault(cfg *config.Config) (*vault.Vault, error) {
	log := Logger(cfg)
	engine := gpg.NewCLI(gpg.WithLogger(log))

	st, err := store.Open(cfg.Dir, engine, store.WithLogger(log))
	if err != nil {
		return nil, err
	}

	gen, err := password.NewGenerator(password.DefaultPolicy())
	if err != nil {
		return nil, err
	}

	guard := clipboard.NewGuard(cfg.ClipboardTTL)

	readSecret := func(out io.Writer) (string, error) {
		return prompt.Confirmed(prompt.Terminal(), out)
	}

	return vault.New(st, gen, guard, readSecret, log), nil
}
