package commands

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/susu3304/slashbot/internal/slash"
)

const cerinoHelp = "Return a random element from a set\n" +
	"\n" +
	"Commands:\n" +
	"- `/cerino help`\n" +
	"shows this help\n" +
	"- `/cerino X Y Z ...`\n" +
	"return one random element from those passed\n"

// Cerino picks one of the given candidates at random.
type Cerino struct {
	pick func(n int) int
}

// NewCerino uses pick to choose an index in [0, n). A nil pick uses
// math/rand.
func NewCerino(pick func(n int) int) *Cerino {
	if pick == nil {
		pick = rand.Intn
	}
	return &Cerino{pick: pick}
}

func (c *Cerino) Name() string { return "cerino" }

func (c *Cerino) Execute(ctx context.Context, req slash.Request) slash.Reply {
	candidates := req.Words()
	if len(candidates) < 2 || candidates[0] == "help" {
		return slash.Private(cerinoHelp)
	}

	chosen := candidates[c.pick(len(candidates))]
	return slash.InChannel(fmt.Sprintf("Out of the following candidates: %s\nCerinoBot has selected: %s",
		strings.Join(candidates, ","), chosen))
}
