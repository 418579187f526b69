package models

import "strings"

// CommandType enumerates the ledger commands accepted over WhatsApp.
type CommandType string

const (
	CommandGoat    CommandType = "goat"
	CommandRecord  CommandType = "record"
	CommandRemove  CommandType = "remove"
	CommandFeed    CommandType = "feed"
	CommandExpense CommandType = "expense"
	CommandIncome  CommandType = "income"
	CommandSummary CommandType = "summary"
	CommandGoats   CommandType = "goats"
	CommandUnknown CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"goat":     CommandGoat,
	"record":   CommandRecord,
	"remove":   CommandRemove,
	"delete":   CommandRemove,
	"feed":     CommandFeed,
	"expense":  CommandExpense,
	"expenses": CommandExpense,
	"income":   CommandIncome,
	"sale":     CommandIncome,
	"summary":  CommandSummary,
	"report":   CommandSummary,
	"goats":    CommandGoats,
	"herd":     CommandGoats,
}

// Command represents a parsed farmer instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// Only the command word is case-folded; arguments keep their spelling so that
// breeds, titles and goat ids survive intact.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(strings.TrimSpace(message))
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if t, ok := commandAliases[head]; ok {
		cmd.Type = t
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
