// Command wfextract recovers the reasoning and the workflow document from a
// streamed model response.
//
// Usage:
//
//	wfextract extract [file]      read a response (stdin when omitted)
//	wfextract serve --addr :8080  expose the pipeline over HTTP
//	wfextract version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leofalp/wfextract/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	envFiles   []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	globals := &globalOptions{}

	root := &cobra.Command{
		Use:   "wfextract",
		Short: "Extract workflow documents from streamed LLM output",
		Long: `wfextract splits a model response into its reasoning ("thoughts") and a
canonical workflow document, recovering the document when the model forgot
the separator, wrapped it in code fences or delivered it bare.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&globals.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringSliceVar(&globals.envFiles, "env-file", []string{".env"}, ".env files to load (missing files are skipped)")

	root.AddCommand(newExtractCmd(globals))
	root.AddCommand(newServeCmd(globals))
	root.AddCommand(newVersionCmd())

	return root
}

// load reads the .env files and the config file.
func (g *globalOptions) load() (*config.Config, error) {
	if err := config.LoadEnvFiles(g.envFiles...); err != nil {
		return nil, err
	}
	return config.Load(g.configPath)
}

// exitError carries a process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return 1
}
