package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	SetStatus(ctx context.Context, args []string) error
	AddMaintenance(ctx context.Context, args []string) error
	Logs(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Files(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
}

// runREPL reads commands until EOF or exit. Command errors are printed and
// the loop carries on. Commands prompt through the same reader, so it must
// not be wrapped in a scanner that reads ahead.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("at%s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, (l)ist, add, delete <id>, status <id>, maint <id>, logs <id>, attach <id>, files <id>, download <id> <attachment id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "l", "list":
			err = a.List(ctx)
		case "add":
			err = a.Add(ctx)
		case "delete":
			err = a.Delete(ctx, args)
		case "status":
			err = a.SetStatus(ctx, args)
		case "maint":
			err = a.AddMaintenance(ctx, args)
		case "logs":
			err = a.Logs(ctx, args)
		case "attach":
			err = a.Attach(ctx, args)
		case "files":
			err = a.Files(ctx, args)
		case "download":
			err = a.Download(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
