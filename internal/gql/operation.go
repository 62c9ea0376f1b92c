package gql

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Operation is a named GraphQL request.
type Operation struct {
	Name     string
	Document string
	Vars     map[string]any
}

// With returns a copy of o bound to vars.
func (o Operation) With(vars map[string]any) Operation {
	o.Vars = maps.Clone(vars)
	return o
}

// Key identifies the cache slot of a read: the operation name plus its
// variables in canonical form.
func (o Operation) Key() string {
	if len(o.Vars) == 0 {
		return o.Name
	}
	// encoding/json sorts map keys, so equal variable sets encode equally.
	b, err := json.Marshal(o.Vars)
	if err != nil {
		return fmt.Sprintf("%s%v", o.Name, o.Vars)
	}
	return o.Name + string(b)
}

func (o Operation) String() string { return o.Name }
