package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/goatledger/internal/domain/models"
	"github.com/mamadbah2/goatledger/internal/service/ledger"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// ErrAmbiguousGoat is returned when a goat id prefix matches several goats.
var ErrAmbiguousGoat = errors.New("goat id prefix matches several goats")

// minIDPrefix is the shortest goat id prefix accepted in place of a full id.
const minIDPrefix = 4

// Usage lists the accepted commands; it is sent back on unknown input.
const Usage = "Commands:\n" +
	"/goat <age> <weight> <breed> [price] [purpose]\n" +
	"/record <goat id> <weight or -> [note]\n" +
	"/remove <goat id>\n" +
	"/feed <type> <qty> <cost>\n" +
	"/expense <amount> <title>\n" +
	"/income <amount> <title>\n" +
	"/goats\n" +
	"/summary"

// Reporter renders ledger views as text.
type Reporter interface {
	SummaryText() string
	HerdText() string
}

// Dispatcher executes parsed commands against the ledger.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	ledger    ledger.Service
	reporting Reporter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(store ledger.Service, reporting Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger:    store,
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand applies the command and returns the reply text.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandGoat:
		in, err := buildGoatInput(cmd.Args)
		if err != nil {
			return "", err
		}
		goat, _, err := s.ledger.AddGoat(ctx, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Goat added: %s, age %s, %s kg. Id %s.", goat.Breed, goat.Age, goat.Weight, goat.ID), nil

	case models.CommandRecord:
		if len(cmd.Args) < 2 {
			return "", ErrInvalidArguments
		}
		goatID, err := s.resolveGoatID(cmd.Args[0])
		if err != nil {
			return "", err
		}
		in := models.RecordInput{Note: strings.Join(cmd.Args[2:], " ")}
		if cmd.Args[1] != "-" {
			in.Weight = cmd.Args[1]
		}
		if _, err := s.ledger.AddRecord(ctx, goatID, in); err != nil {
			return "", err
		}
		return fmt.Sprintf("Record saved for goat %s.", goatID), nil

	case models.CommandRemove:
		if len(cmd.Args) != 1 {
			return "", ErrInvalidArguments
		}
		goatID, err := s.resolveGoatID(cmd.Args[0])
		if errors.Is(err, ledger.ErrNotFound) {
			return fmt.Sprintf("No goat %s, nothing removed.", cmd.Args[0]), nil
		}
		if err != nil {
			return "", err
		}
		doc, err := s.ledger.DeleteGoat(ctx, goatID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Goat %s removed. %d goats left.", goatID, len(doc.Goats)), nil

	case models.CommandFeed:
		if len(cmd.Args) < 3 {
			return "", ErrInvalidArguments
		}
		last := len(cmd.Args) - 1
		in := models.FeedInput{
			Type: cmd.Args[0],
			Qty:  strings.Join(cmd.Args[1:last], " "),
			Cost: cmd.Args[last],
		}
		doc, err := s.ledger.AddFeedEntry(ctx, in)
		if err != nil {
			return "", err
		}
		entry := doc.FeedEntries[0]
		return fmt.Sprintf("Feed logged: %s %s for %.2f.", entry.Qty, entry.Type, entry.Cost), nil

	case models.CommandExpense, models.CommandIncome:
		in, err := buildEntryInput(cmd.Args)
		if err != nil {
			return "", err
		}
		if cmd.Type == models.CommandExpense {
			doc, err := s.ledger.AddExpense(ctx, in)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Expense logged: %s %.2f.", doc.Expenses[0].Title, doc.Expenses[0].Amount), nil
		}
		doc, err := s.ledger.AddIncome(ctx, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Income logged: %s %.2f.", doc.Income[0].Title, doc.Income[0].Amount), nil

	case models.CommandSummary:
		return s.reporting.SummaryText(), nil

	case models.CommandGoats:
		return s.reporting.HerdText(), nil

	default:
		return "", ErrUnsupportedCommand
	}
}

// resolveGoatID accepts a full goat id or a unique prefix of at least minIDPrefix runes.
func (s *Service) resolveGoatID(ref string) (string, error) {
	doc := s.ledger.Document()
	if _, ok := doc.FindGoat(ref); ok {
		return ref, nil
	}

	if len(ref) >= minIDPrefix {
		match := ""
		for _, g := range doc.Goats {
			if !strings.HasPrefix(g.ID, ref) {
				continue
			}
			if match != "" {
				return "", ErrAmbiguousGoat
			}
			match = g.ID
		}
		if match != "" {
			return match, nil
		}
	}

	return "", &ledger.NotFoundError{Op: "resolve goat", ID: ref}
}

func buildGoatInput(args []string) (models.GoatInput, error) {
	if len(args) < 3 {
		return models.GoatInput{}, ErrInvalidArguments
	}
	in := models.GoatInput{Age: args[0], Weight: args[1], Breed: args[2]}
	if len(args) > 3 {
		in.Price = args[3]
	}
	if len(args) > 4 {
		in.Purpose = strings.Join(args[4:], " ")
	}
	return in, nil
}

func buildEntryInput(args []string) (models.EntryInput, error) {
	if len(args) < 2 {
		return models.EntryInput{}, ErrInvalidArguments
	}
	return models.EntryInput{Amount: args[0], Title: strings.Join(args[1:], " ")}, nil
}
