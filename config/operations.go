package config

import (
	"fmt"
)

// Operations are the optional REST operations exposed on top of dataset listing
type Operations int

const (
	DatasetQuery Operations = 1 << iota
	DatasetFacets
	ViewManage
	ViewExport
)

// AllOperations is every supported operation name
var AllOperations = []string{"DatasetQuery", "DatasetFacets", "ViewManage", "ViewExport"}

func Ops(ops ...string) (Operations, error) {
	var o Operations
	err := o.Add(ops...)
	return o, err
}

func (o *Operations) Set(ops Operations)             { *o |= ops }
func (o *Operations) Clear(ops Operations)           { *o &= ^ops }
func (o Operations) IsSupported(ops Operations) bool { return o&ops != 0 }

func (o *Operations) Add(ops ...string) error {
	for _, op := range ops {
		switch op {
		case "DatasetQuery":
			o.Set(DatasetQuery)
		case "DatasetFacets":
			o.Set(DatasetFacets)
		case "ViewManage":
			o.Set(ViewManage)
		case "ViewExport":
			o.Set(ViewExport)
		default:
			return fmt.Errorf("invalid operation: %s", op)
		}
	}
	return nil
}
