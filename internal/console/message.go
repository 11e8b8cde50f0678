// Package console models the console messages a page emits and prints them
// for the developer running a verifier.
package console

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Message is one console call made by the page runtime.
type Message struct {
	// Type is the severity tag reported by the browser: log, info, warning, error, debug, ...
	Type string
	Text string
	Time time.Time
}

// Arg is a backend-neutral view of one console argument (a CDP RemoteObject).
type Arg struct {
	Type           string
	Subtype        string
	Value          []byte // JSON, empty when the value was not serialised
	Unserializable string // NaN, Infinity, -0, bigint literals
	Description    string
}

// FromArgs builds a Message by rendering args the way a devtools console does
// for primitives, space-joined.
func FromArgs(typ string, args []Arg, at time.Time) Message {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, renderArg(a))
	}
	return Message{
		Type: typ,
		Text: strings.Join(parts, " "),
		Time: at,
	}
}

func renderArg(a Arg) string {
	if a.Unserializable != "" {
		return a.Unserializable
	}

	switch a.Type {
	case "undefined":
		return "undefined"
	case "string", "number", "boolean", "bigint":
		if len(a.Value) > 0 {
			v := gjson.ParseBytes(a.Value)
			if v.Type == gjson.String {
				return v.Str
			}
			return v.Raw
		}
		return a.Description
	case "object":
		if a.Subtype == "null" {
			return "null"
		}
	}

	if a.Description != "" {
		return a.Description
	}
	if len(a.Value) > 0 {
		return gjson.ParseBytes(a.Value).Raw
	}
	return a.Type
}
