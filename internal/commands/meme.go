package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/susu3304/slashbot/internal/dict"
	"github.com/susu3304/slashbot/internal/slash"
	"go.uber.org/zap"
)

const memeUsage = "Commands:\n" +
	"- `/meme help`\n" +
	"shows this help\n" +
	"- `/meme list`\n" +
	"shows the list of activation phrases\n" +
	"- `/meme add KEY VALUE`\n" +
	"add KEY as activation phrase that will show VALUE, possibly overriding a previous entry\n" +
	"- `/meme del KEY`\n" +
	"delete the activation phase KEY\n" +
	"- `/meme PHRASE`\n" +
	"show a response partially matching the given PHRASE\n"

// Meme posts responses registered under activation phrases.
type Meme struct {
	phrases *dict.Dict
	logger  *zap.Logger
}

func NewMeme(phrases *dict.Dict, logger *zap.Logger) *Meme {
	return &Meme{phrases: phrases, logger: logger}
}

func (m *Meme) Name() string { return "meme" }

func (m *Meme) Execute(ctx context.Context, req slash.Request) slash.Reply {
	words := req.Words()
	if len(words) == 0 {
		return memeError("Show a configurable response in channel")
	}

	switch words[0] {
	case "help":
		return memeError("Show a configurable response in channel")

	case "list":
		keys := m.phrases.Keys()
		if len(keys) == 0 {
			return slash.Private("No activation phrases available")
		}
		lines := make([]string, len(keys))
		for i, k := range keys {
			lines[i] = "- " + k
		}
		return slash.Private("Activation phrases available:\n" + strings.Join(lines, "\n"))

	case "add":
		if len(words) != 3 {
			return memeError("Invalid add command")
		}
		if err := m.phrases.Add(words[1], words[2]); err != nil {
			m.logger.Error("Activation phrase added but could not be saved", zap.String("key", words[1]), zap.Error(err))
		}
		return slash.Private("OK")

	case "del":
		if len(words) != 2 {
			return memeError("Invalid del command")
		}
		deleted, err := m.phrases.Delete(words[1])
		if err != nil {
			m.logger.Error("Activation phrase deleted but could not be saved", zap.String("key", words[1]), zap.Error(err))
		}
		if !deleted {
			return slash.Private(fmt.Sprintf("Activation phrase `%s` not found", words[1]))
		}
		return slash.Private("OK")
	}

	if len(words) != 1 {
		return memeError("Invalid command")
	}
	response, ok := m.phrases.Get(words[0])
	if !ok {
		return slash.Private(fmt.Sprintf("invalid activation phrase `%s`", words[0]))
	}
	return slash.InChannel(response)
}

func memeError(message string) slash.Reply {
	return slash.Private(message + "\n\n" + memeUsage)
}
