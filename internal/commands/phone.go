package commands

import (
	"context"

	"github.com/susu3304/slashbot/internal/directory"
	"github.com/susu3304/slashbot/internal/mdtable"
	"github.com/susu3304/slashbot/internal/slash"
)

const phoneHelp = "This command allows you to search a phone directory, for instance `/phone Bob` " +
	"returns the phone number of all persons whose name contains Bob in the directory.\n"

// Phone searches the phone directory by the first word of the text.
type Phone struct {
	directory *directory.Directory
}

func NewPhone(d *directory.Directory) *Phone {
	return &Phone{directory: d}
}

func (p *Phone) Name() string { return "phone" }

func (p *Phone) Execute(ctx context.Context, req slash.Request) slash.Reply {
	words := req.Words()
	if len(words) == 0 || words[0] == "help" {
		return slash.Private(phoneHelp)
	}

	table := mdtable.New("Person", "Number")
	for _, e := range p.directory.Lookup(words[0]) {
		table.Append(e.Name, e.Number)
	}
	return slash.InChannel(table.String())
}
