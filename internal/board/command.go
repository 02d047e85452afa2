package board

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// CommandPrefix marks post content as a moderation command instead of a
// message to store.
const CommandPrefix = "/"

// CommandKind is the closed set of moderation commands.
type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdClear
	CmdDel
	CmdDestroy
)

// Command is the parsed form of a command submission. Exactly one of the
// payload fields is meaningful for its kind.
type Command struct {
	Kind      CommandKind
	Name      string // raw first token, without the prefix
	Positions []int  // CmdDel: 1-based listing positions
	Pattern   string // CmdDestroy: predicate pattern, inner whitespace kept
}

// CommandResult is what a successfully executed command reports back.
// It is returned to the caller in place of a created post; commands are
// never stored on the board.
type CommandResult struct {
	Command   string `json:"command"`
	Message   string `json:"message"`
	Deleted   int    `json:"deleted,omitempty"`
	Processed []int  `json:"processed,omitempty"`
}

// IsCommand reports whether content should be parsed as a command rather
// than stored as a post.
func IsCommand(content string) bool {
	return strings.HasPrefix(content, CommandPrefix)
}

// ParseCommand turns raw command content into its variant. Parsing never
// fails: malformed arguments surface as validation errors at execution,
// and an unrecognized name parses to CmdUnknown.
func ParseCommand(content string) Command {
	rest := strings.TrimSpace(strings.TrimPrefix(content, CommandPrefix))
	if rest == "" {
		return Command{Kind: CmdUnknown}
	}
	fields := strings.Fields(rest)
	name := fields[0]
	argstr := strings.TrimLeft(rest[len(name):], " \t")

	switch name {
	case "clear":
		return Command{Kind: CmdClear, Name: name}
	case "del":
		var positions []int
		for _, arg := range fields[1:] {
			// Non-numeric and non-positive tokens are discarded, not errors.
			if n, err := strconv.Atoi(arg); err == nil && n > 0 {
				positions = append(positions, n)
			}
		}
		return Command{Kind: CmdDel, Name: name, Positions: positions}
	case "destroy":
		// The pattern keeps its internal whitespace; only the gap after
		// the command name is trimmed.
		return Command{Kind: CmdDestroy, Name: name, Pattern: argstr}
	default:
		return Command{Kind: CmdUnknown, Name: name}
	}
}

// requiredRank returns the minimum role a command demands.
func requiredRank(kind CommandKind) Role {
	switch kind {
	case CmdDel:
		return RoleManager
	default:
		// clear and destroy both wipe others' posts wholesale.
		return RoleModerator
	}
}

// Interpreter executes parsed commands against the store, enforcing the
// role hierarchy per command.
type Interpreter struct {
	store *PostStore
	roles *RoleRegistry
	log   *zap.Logger
}

func NewInterpreter(store *PostStore, roles *RoleRegistry, log *zap.Logger) *Interpreter {
	return &Interpreter{store: store, roles: roles, log: log}
}

// Execute runs a command on behalf of the acting identity tag. A
// recognized command from an under-ranked actor fails with a permission
// error and changes nothing; it never falls through to plain posting.
func (i *Interpreter) Execute(cmd Command, actor string) (*CommandResult, error) {
	if cmd.Kind == CmdUnknown {
		return nil, fmt.Errorf("%w: unknown command %q", ErrValidation, cmd.Name)
	}
	if !i.roles.HasAtLeast(actor, requiredRank(cmd.Kind)) {
		return nil, fmt.Errorf("%w: %q requires %s rank", ErrPermission, cmd.Name, requiredRank(cmd.Kind))
	}

	switch cmd.Kind {
	case CmdClear:
		if err := i.store.ClearAll(); err != nil {
			return nil, err
		}
		i.log.Info("board cleared", zap.String("actor", actor))
		return &CommandResult{Command: "clear", Message: "board cleared"}, nil

	case CmdDel:
		if len(cmd.Positions) == 0 {
			return nil, fmt.Errorf("%w: del needs at least one post number", ErrValidation)
		}
		resolved, err := i.store.DeleteByPosition(cmd.Positions)
		if err != nil {
			return nil, err
		}
		i.log.Info("posts deleted", zap.String("actor", actor), zap.Ints("positions", resolved))
		return &CommandResult{
			Command:   "del",
			Message:   fmt.Sprintf("deleted %d post(s)", len(resolved)),
			Deleted:   len(resolved),
			Processed: resolved,
		}, nil

	case CmdDestroy:
		if cmd.Pattern == "" {
			return nil, fmt.Errorf("%w: destroy needs a pattern", ErrValidation)
		}
		matcher, err := NewPatternMatcher(cmd.Pattern)
		if err != nil {
			return nil, err
		}
		deleted, err := i.store.DeleteByPredicate(matcher)
		if err != nil {
			return nil, err
		}
		if deleted == 0 {
			return nil, fmt.Errorf("%w: no posts match %q", ErrNotFound, cmd.Pattern)
		}
		i.log.Info("posts destroyed", zap.String("actor", actor), zap.Int("deleted", deleted))
		return &CommandResult{
			Command: "destroy",
			Message: fmt.Sprintf("destroyed %d post(s)", deleted),
			Deleted: deleted,
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown command %q", ErrValidation, cmd.Name)
}
