package commands

import (
	"context"

	"github.com/susu3304/slashbot/internal/mdtable"
	"github.com/susu3304/slashbot/internal/slash"
	"github.com/susu3304/slashbot/internal/split"
	"go.uber.org/zap"
)

const sushiHelp = "This command allows you to split a discount on a shared cost, with optional delivery fee:\n" +
	"Examples:\n" +
	"```/sushi Alice 10 Bob 5 discount 0.2```\n" +
	"applies a discount of 20% so that Alice will have to pay 8 and Bob 4\n" +
	"```/sushi Alice 10 Bob 5 discount 0.2 delivery 2```\n" +
	"same as before but the delivery cost is split evenly between Alice and Bob, who pay 9 and 5, respectively.\n" +
	"Note that `discount` and `delivery` are keywords. Order of pairs does not matter, so the last command is equivalent to:\n" +
	"```/sushi delivery 2 Bob 5 discount 0.2 Alice 10```\n" +
	"You may also let the bot do the sum for you, for instance the command above is equivalent to:\n" +
	"```/sushi delivery 2 Bob 1 1 3 discount 0.2 Alice 1.5 8.5```"

// Sushi splits a shared bill.
type Sushi struct {
	logger *zap.Logger
}

func NewSushi(logger *zap.Logger) *Sushi {
	return &Sushi{logger: logger}
}

func (s *Sushi) Name() string { return "sushi" }

func (s *Sushi) Execute(ctx context.Context, req slash.Request) slash.Reply {
	text := argument(req)
	if isHelp(text) {
		return slash.Private(sushiHelp)
	}

	bill, err := split.Calculate(req.Words())
	if err != nil {
		s.logger.Debug("Rejected split request", zap.String("text", text), zap.Error(err))
		return invalid(s.Name(), text)
	}

	rows := make([]mdtable.Entry, len(bill.Shares))
	for i, share := range bill.Shares {
		rows[i] = mdtable.Entry{Name: share.Name, Value: share.Due}
	}
	table := mdtable.SummaryWithTotal("Who", "How much", rows, bill.Total, split.FormatAmount)
	return slash.InChannel(table + "_Bon appetit!_")
}
