// Package cli implements the interactive assettrack client. It talks to the
// REST API and moves attachment bytes straight to and from object storage.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/assettrack/internal/client/api"
	"github.com/dmitrijs2005/assettrack/internal/client/config"
)

type App struct {
	config   *config.Config
	api      *api.Client
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) *App {
	return newApp(c, os.Stdin, os.Stdout)
}

func newApp(c *config.Config, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

func (a *App) status() string {
	if a.userName == "" {
		return ""
	}
	return "(" + a.userName + ")"
}

func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to the assettrack CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}
