package render

import "sort"

// Selection is the transient toggle state of one rendered screen. Grouped
// toggles behave like radio buttons (at most one id per group), ungrouped
// toggles like checkboxes.
type Selection struct {
	toggled map[string]bool
	groups  map[string]string
}

func NewSelection() *Selection {
	return &Selection{
		toggled: make(map[string]bool),
		groups:  make(map[string]string),
	}
}

// NewSelectionFrom restores a selection, e.g. from a preview request. Group
// members are always part of the toggled set.
func NewSelectionFrom(toggledIds []string, groupSelections map[string]string) *Selection {
	s := NewSelection()
	for _, id := range toggledIds {
		s.toggled[id] = true
	}
	for group, id := range groupSelections {
		if id == "" {
			continue
		}
		s.groups[group] = id
		s.toggled[id] = true
	}
	return s
}

// Toggle applies a tap on element id and reports whether the state changed.
// Tapping the selected element of a group is a no-op.
func (s *Selection) Toggle(id string, group string) bool {
	if group == "" {
		if s.toggled[id] {
			delete(s.toggled, id)
		} else {
			s.toggled[id] = true
		}
		return true
	}
	prev, ok := s.groups[group]
	if ok && prev == id {
		return false
	}
	if ok {
		delete(s.toggled, prev)
	}
	s.groups[group] = id
	s.toggled[id] = true
	return true
}

func (s *Selection) IsSelected(id string) bool {
	if s == nil {
		return false
	}
	return s.toggled[id]
}

func (s *Selection) HasSelection(group string) bool {
	if s == nil {
		return false
	}
	_, ok := s.groups[group]
	return ok
}

func (s *Selection) Selected(group string) (string, bool) {
	if s == nil {
		return "", false
	}
	id, ok := s.groups[group]
	return id, ok
}

func (s *Selection) ToggledIds() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.toggled))
	for id := range s.toggled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Selection) GroupSelections() map[string]string {
	out := make(map[string]string)
	if s == nil {
		return out
	}
	for g, id := range s.groups {
		out[g] = id
	}
	return out
}
