// Package commands interprets the text of each slash command and builds
// the reply.
package commands

import (
	"context"
	"strings"

	"github.com/susu3304/slashbot/internal/slash"
)

// Command handles one authorized slash command request.
type Command interface {
	Name() string
	Execute(ctx context.Context, req slash.Request) slash.Reply
}

func isHelp(text string) bool {
	return text == "" || text == "help"
}

func invalid(name, text string) slash.Reply {
	return slash.Private("invalid request: " + text + "\ntry `/" + name + " help`")
}

func argument(req slash.Request) string {
	return strings.TrimSpace(req.Text)
}
