package commands

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/susu3304/slashbot/internal/ledger"
	"github.com/susu3304/slashbot/internal/mdtable"
	"github.com/susu3304/slashbot/internal/slash"
	"go.uber.org/zap"
)

const coffeeHelp = "Commands:\n" +
	"```/coffee 10```\n" +
	"You took 10 coffee tabs (can be negative to fix mistakes).\n" +
	"```/coffee show```\n" +
	"Show the current coffee table\n" +
	"```/coffee reset```\n" +
	"Clear the current coffee table\n" +
	"```/coffee help```\n" +
	"Show this help\n"

// Coffee keeps the coffee tab of every user in a ledger.
type Coffee struct {
	ledger *ledger.Ledger
	logger *zap.Logger
}

func NewCoffee(l *ledger.Ledger, logger *zap.Logger) *Coffee {
	return &Coffee{ledger: l, logger: logger}
}

func (c *Coffee) Name() string { return "coffee" }

func (c *Coffee) Execute(ctx context.Context, req slash.Request) slash.Reply {
	text := argument(req)
	switch text {
	case "", "help":
		return slash.Private(coffeeHelp)
	case "reset":
		c.checkPersist(c.ledger.Clear())
		return slash.InChannel("The coffee table has been cleared")
	case "show":
		return c.show()
	}

	delta, err := strconv.Atoi(text)
	if err != nil {
		return invalid(c.Name(), text)
	}
	if req.UserName == "" {
		return slash.Private("invalid request: missing user name")
	}

	accepted, value, err := c.ledger.Adjust(req.UserName, delta)
	if !accepted {
		return slash.Private("Update refused")
	}
	c.checkPersist(err)
	return slash.InChannel(fmt.Sprintf("Number of coffees of %s updated to %d", req.UserName, value))
}

func (c *Coffee) show() slash.Reply {
	if c.ledger.Empty() {
		return slash.InChannel("There are no pending coffees")
	}
	// Balances may sit near math.MaxInt, so the total is summed in a big.Int.
	t := mdtable.New("name", "coffees")
	total := new(big.Int)
	for _, e := range c.ledger.Entries() {
		t.Append(e.Identity, strconv.Itoa(e.Balance))
		total.Add(total, big.NewInt(int64(e.Balance)))
	}
	t.AppendTotal(total.String())
	return slash.InChannel(t.String())
}

func (c *Coffee) checkPersist(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ledger.ErrPersist) {
		c.logger.Error("Coffee table changed but could not be saved", zap.Error(err))
		return
	}
	c.logger.Error("Coffee table update failed", zap.Error(err))
}
