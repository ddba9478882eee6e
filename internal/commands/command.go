package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/tutord/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeTop3    Type = "top3"
	TypeUntop   Type = "untop"
	TypeCheck   Type = "check"
	TypeShow    Type = "show"
	TypeArchive Type = "archive"
	TypeProp    Type = "prop"
	TypePin     Type = "pin"
	TypeDelete  Type = "delete"
	TypeRestore Type = "restore"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Name string
}

// Top3Args.Slot is nil when the lowest free slot should be used.
type Top3Args struct {
	Target string
	Slot   *int
}

// TargetArgs names a block by id or unique id prefix.
type TargetArgs struct {
	Target string
}

type Subject string

const (
	SubjectToday    Subject = "today"
	SubjectWeek     Subject = "week"
	SubjectBlocks   Subject = "blocks"
	SubjectHistory  Subject = "history"
	SubjectAll      Subject = "all"
	SubjectTag      Subject = "tag"
	SubjectDate     Subject = "date"
	SubjectCalendar Subject = "calendar"
	SubjectView     Subject = "view"
)

// ShowArgs selects a screen or a filtered list. Ref carries the tag
// reference or custom view id; Date is set for date: subjects.
type ShowArgs struct {
	Subject Subject
	Ref     string
	Date    model.Day
}

type PropArgs struct {
	Target string
	Type   model.PropertyType
	Name   string
}

type Command struct {
	Type  Type
	Raw   string
	Add   *AddArgs
	Top3  *Top3Args
	Show  *ShowArgs
	Prop  *PropArgs
	Block *TargetArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeTop3:
		return parseTop3(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeProp:
		return parseProp(input, args)
	case TypeArchive:
		if len(args) != 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "archive takes no arguments"}
		}
		return Command{Type: TypeArchive, Raw: input}, nil
	case TypeUntop, TypeCheck, TypePin, TypeDelete, TypeRestore:
		return parseTarget(input, Type(head), args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name}}, nil
}

func parseTop3(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "top3 requires a block id and an optional slot 1-3"}
	}
	out := &Top3Args{Target: args[0]}
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 || n > 3 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("slot must be 1, 2 or 3: %q", args[1])}
		}
		slot := n - 1
		out.Slot = &slot
	}
	return Command{Type: TypeTop3, Raw: raw, Top3: out}, nil
}

func parseTarget(raw string, t Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires one block id", t)}
	}
	return Command{Type: t, Raw: raw, Block: &TargetArgs{Target: args[0]}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires one subject"}
	}
	arg := args[0]
	head, ref, hasRef := strings.Cut(arg, ":")
	subject := Subject(strings.ToLower(head))
	out := &ShowArgs{Subject: subject}
	switch subject {
	case SubjectToday, SubjectWeek, SubjectBlocks, SubjectHistory, SubjectAll, SubjectCalendar:
		if hasRef {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no value", subject)}
		}
	case SubjectTag, SubjectView:
		if strings.TrimSpace(ref) == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a value, e.g. %s:math", subject, subject)}
		}
		out.Ref = ref
	case SubjectDate:
		day, err := model.ParseDay(ref)
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("date must be YYYY-MM-DD: %q", ref)}
		}
		out.Date = day
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject: %s", arg)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: out}, nil
}

func parseProp(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "prop requires a block id and a property type"}
	}
	t := model.PropertyType(strings.ToLower(args[1]))
	if !t.IsValid() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown property type: %s", args[1])}
	}
	return Command{Type: TypeProp, Raw: raw, Prop: &PropArgs{
		Target: args[0],
		Type:   t,
		Name:   strings.TrimSpace(strings.Join(args[2:], " ")),
	}}, nil
}
