package commands

import (
	"context"
	"strings"

	"github.com/susu3304/slashbot/internal/directory"
	"github.com/susu3304/slashbot/internal/slash"
)

// PhotoPlaceholder is replaced by the matched name in the photo URL template.
const PhotoPlaceholder = "%name%"

const cceHelp = "Show the picture of a member\n\n" +
	"Commands:\n" +
	"- `/cce help`\n" +
	"shows this help\n" +
	"- `/cce PERSON`\n" +
	"shows the picture of PERSON\n"

// Cce posts the photo of the first member whose name contains the query.
type Cce struct {
	names    *directory.Names
	photoURL string
}

func NewCce(names *directory.Names, photoURL string) *Cce {
	return &Cce{names: names, photoURL: photoURL}
}

func (c *Cce) Name() string { return "cce" }

func (c *Cce) Execute(ctx context.Context, req slash.Request) slash.Reply {
	words := req.Words()
	if len(words) != 1 || words[0] == "help" {
		return slash.Private(cceHelp)
	}

	name, ok := c.names.Find(words[0])
	if !ok {
		return slash.Private("Could not find a member matching: " + words[0])
	}
	return slash.InChannel("![](" + strings.ReplaceAll(c.photoURL, PhotoPlaceholder, name) + ")")
}
