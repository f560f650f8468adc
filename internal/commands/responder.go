package commands

import (
	"context"

	"github.com/susu3304/slashbot/internal/responder"
	"github.com/susu3304/slashbot/internal/slash"
)

// Responder replies with the first configured response whose keyword
// appears in the text, and with nothing otherwise.
type Responder struct {
	rules *responder.Responder
}

func NewResponder(rules *responder.Responder) *Responder {
	return &Responder{rules: rules}
}

func (r *Responder) Name() string { return "responder" }

func (r *Responder) Execute(ctx context.Context, req slash.Request) slash.Reply {
	return slash.Private(r.rules.Match(req.Text))
}
