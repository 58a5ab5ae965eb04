package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const ASSET_URL_PREFIX = "asset:"

// Asset is an embeddable resource referenced from props as "asset:<name>".
type Asset struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// Document is a tree of root elements plus the assets they reference.
// It accepts both {"elements": [...], "assets": [...]} and a bare array.
type Document struct {
	Elements []*Element `json:"elements"`
	Assets   []Asset    `json:"assets,omitempty"`
}

type document Document

func (d *Document) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var elements []*Element
		if err := json.Unmarshal(data, &elements); err != nil {
			return err
		}
		*d = Document{Elements: elements}
		return nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*d = Document(doc)
	return nil
}

// Walk visits elements depth first in pre-order and stops descending into
// an element when fn returns false.
func (d *Document) Walk(fn func(el *Element) bool) {
	walkElements(d.Elements, fn)
}

func walkElements(elements []*Element, fn func(el *Element) bool) {
	for _, el := range elements {
		if el == nil {
			continue
		}
		if fn(el) && !el.Type.IsLeaf() {
			walkElements(el.Children, fn)
		}
	}
}

func (d *Document) FindAsset(name string) (Asset, bool) {
	for _, a := range d.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// Validate checks that every element has an id unique within the tree.
func (d *Document) Validate() error {
	seen := make(map[string]struct{})
	var err error
	d.Walk(func(el *Element) bool {
		if err != nil {
			return false
		}
		if strings.TrimSpace(el.Id) == "" {
			err = fmt.Errorf("element of type %s has no id", el.Type)
			return false
		}
		if _, ok := seen[el.Id]; ok {
			err = fmt.Errorf("element id %s is duplicate", el.Id)
			return false
		}
		seen[el.Id] = struct{}{}
		return true
	})
	return err
}

// Screen is one document of a flow, addressable by navigate destinations.
type Screen struct {
	Id       string     `json:"id"`
	Name     string     `json:"name,omitempty"`
	Elements []*Element `json:"elements"`
	Assets   []Asset    `json:"assets,omitempty"`
}

func (s Screen) Document() *Document {
	return &Document{Elements: s.Elements, Assets: s.Assets}
}
