package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Top3    func(Top3Args) (Result, error)
	Untop   func(TargetArgs) (Result, error)
	Check   func(TargetArgs) (Result, error)
	Show    func(ShowArgs) (Result, error)
	Archive func() (Result, error)
	Prop    func(PropArgs) (Result, error)
	Pin     func(TargetArgs) (Result, error)
	Delete  func(TargetArgs) (Result, error)
	Restore func(TargetArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeTop3:
		if handlers.Top3 == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Top3(*cmd.Top3)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Show(*cmd.Show)
	case TypeArchive:
		if handlers.Archive == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Archive()
	case TypeProp:
		if handlers.Prop == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Prop(*cmd.Prop)
	case TypeUntop, TypeCheck, TypePin, TypeDelete, TypeRestore:
		h := targetHandler(cmd.Type, handlers)
		if h == nil {
			return Result{}, missing(cmd.Type)
		}
		return h(*cmd.Block)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func targetHandler(t Type, h Handlers) func(TargetArgs) (Result, error) {
	switch t {
	case TypeUntop:
		return h.Untop
	case TypeCheck:
		return h.Check
	case TypePin:
		return h.Pin
	case TypeDelete:
		return h.Delete
	case TypeRestore:
		return h.Restore
	default:
		return nil
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
