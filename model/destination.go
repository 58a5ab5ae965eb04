package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type DestinationKind int

const (
	DESTINATION_UNKNOWN DestinationKind = iota
	DESTINATION_LITERAL
	DESTINATION_CONDITIONAL
	DESTINATION_ROUTES
)

// Sentinels understood by hosts as relative moves inside a flow.
const DESTINATION_NEXT = "next"
const DESTINATION_PREVIOUS = "previous"

// Destination is a navigation target. On the wire it is a plain string
// (screen id, sentinel or url), an {if, then, else} object or a
// {routes, default} table.
type Destination struct {
	Kind    DestinationKind
	Literal string
	If      *Condition
	Then    *Destination
	Else    *Destination
	Routes  []Route
	Default *Destination
}

type Route struct {
	Condition   *Condition   `json:"condition,omitempty"`
	Destination *Destination `json:"destination,omitempty"`
}

func LiteralDestination(target string) *Destination {
	return &Destination{Kind: DESTINATION_LITERAL, Literal: target}
}

type conditionalDestination struct {
	If   *Condition   `json:"if,omitempty"`
	Then *Destination `json:"then,omitempty"`
	Else *Destination `json:"else,omitempty"`
}

type routesDestination struct {
	Routes  []Route      `json:"routes"`
	Default *Destination `json:"default,omitempty"`
}

func (d *Destination) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var literal string
		if err := json.Unmarshal(data, &literal); err != nil {
			return err
		}
		*d = Destination{Kind: DESTINATION_LITERAL, Literal: literal}
		return nil
	}
	if data[0] != '{' {
		return fmt.Errorf("destination must be a string or an object")
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	if _, ok := keys["routes"]; ok {
		var rd routesDestination
		if err := json.Unmarshal(data, &rd); err != nil {
			return err
		}
		*d = Destination{Kind: DESTINATION_ROUTES, Routes: rd.Routes, Default: rd.Default}
		return nil
	}
	_, hasIf := keys["if"]
	_, hasThen := keys["then"]
	if hasIf || hasThen {
		var cd conditionalDestination
		if err := json.Unmarshal(data, &cd); err != nil {
			return err
		}
		*d = Destination{Kind: DESTINATION_CONDITIONAL, If: cd.If, Then: cd.Then, Else: cd.Else}
		return nil
	}
	*d = Destination{Kind: DESTINATION_UNKNOWN}
	return nil
}

func (d Destination) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DESTINATION_LITERAL:
		return json.Marshal(d.Literal)
	case DESTINATION_CONDITIONAL:
		return json.Marshal(conditionalDestination{If: d.If, Then: d.Then, Else: d.Else})
	case DESTINATION_ROUTES:
		routes := d.Routes
		if routes == nil {
			routes = []Route{}
		}
		return json.Marshal(routesDestination{Routes: routes, Default: d.Default})
	}
	return []byte("null"), nil
}
