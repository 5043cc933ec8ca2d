package config

import (
	"fmt"
)

type EditOperations int

const (
	RowInsert EditOperations = 1 << iota
	RowUpdate
	RowIncrement
)

// AllEditOperations enables every write path.
const AllEditOperations = RowInsert | RowUpdate | RowIncrement

func Ops(ops ...string) (EditOperations, error) {
	var o EditOperations
	err := o.Add(ops...)
	return o, err
}

func (o *EditOperations) Set(ops EditOperations)             { *o |= ops }
func (o *EditOperations) Clear(ops EditOperations)           { *o &= ^ops }
func (o EditOperations) IsSupported(ops EditOperations) bool { return o&ops != 0 }

func (o *EditOperations) Add(ops ...string) error {
	for _, op := range ops {
		switch op {
		case "RowInsert":
			o.Set(RowInsert)
		case "RowUpdate":
			o.Set(RowUpdate)
		case "RowIncrement":
			o.Set(RowIncrement)
		default:
			return fmt.Errorf("invalid operation: %s", op)
		}
	}
	return nil
}
