package cli

import (
	"bufio"
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	if a.userEmail == "" || !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userEmail)
}

// Root prints a greeting and runs the REPL on the app's input until the
// user exits.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to TaskKeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
