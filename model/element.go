package model

type ElementType string

const (
	ELEMENT_VSTACK     ElementType = "vstack"
	ELEMENT_HSTACK     ElementType = "hstack"
	ELEMENT_ZSTACK     ElementType = "zstack"
	ELEMENT_SCROLLVIEW ElementType = "scrollview"
	ELEMENT_TEXT       ElementType = "text"
	ELEMENT_IMAGE      ElementType = "image"
	ELEMENT_VIDEO      ElementType = "video"
	ELEMENT_LOTTIE     ElementType = "lottie"
	ELEMENT_ICON       ElementType = "icon"
	ELEMENT_INPUT      ElementType = "input"
	ELEMENT_SPACER     ElementType = "spacer"
	ELEMENT_DIVIDER    ElementType = "divider"
)

func (t ElementType) IsContainer() bool {
	switch t {
	case ELEMENT_VSTACK, ELEMENT_HSTACK, ELEMENT_ZSTACK, ELEMENT_SCROLLVIEW:
		return true
	}
	return false
}

// IsLeaf reports the known types that never carry children. Unknown legacy
// types are not leaves: their children are rendered, walked and tappable.
func (t ElementType) IsLeaf() bool {
	switch t {
	case ELEMENT_TEXT, ELEMENT_IMAGE, ELEMENT_VIDEO, ELEMENT_LOTTIE,
		ELEMENT_ICON, ELEMENT_INPUT, ELEMENT_SPACER, ELEMENT_DIVIDER:
		return true
	}
	return false
}

type PositionType string

const POSITION_RELATIVE PositionType = "relative"
const POSITION_ABSOLUTE PositionType = "absolute"

// Position offsets are either numbers (pixels) or css length strings.
type Position struct {
	Type    PositionType `json:"type,omitempty"`
	Top     any          `json:"top,omitempty"`
	Left    any          `json:"left,omitempty"`
	Right   any          `json:"right,omitempty"`
	Bottom  any          `json:"bottom,omitempty"`
	CenterX bool         `json:"centerX,omitempty"`
	CenterY bool         `json:"centerY,omitempty"`
	ZIndex  *int         `json:"zIndex,omitempty"`
}

type VisibleWhen struct {
	Group        string `json:"group"`
	HasSelection bool   `json:"hasSelection"`
}

type ElementConditions struct {
	ShowIf *Condition `json:"show_if,omitempty"`
}

// Element is a node of a screen tree. Only container types interpret Children.
type Element struct {
	Id          string             `json:"id"`
	Type        ElementType        `json:"type"`
	Style       map[string]any     `json:"style,omitempty"`
	Props       map[string]any     `json:"props,omitempty"`
	Children    []*Element         `json:"children,omitempty"`
	Position    *Position          `json:"position,omitempty"`
	Action      *Action            `json:"action,omitempty"`
	Actions     []*Action          `json:"actions,omitempty"`
	VisibleWhen *VisibleWhen       `json:"visibleWhen,omitempty"`
	Conditions  *ElementConditions `json:"conditions,omitempty"`
}

// GetActions returns the actions list when present, else the single action.
func (e *Element) GetActions() []*Action {
	if len(e.Actions) > 0 {
		return e.Actions
	}
	if e.Action != nil {
		return []*Action{e.Action}
	}
	return nil
}

func (e *Element) HasActions() bool {
	return len(e.GetActions()) > 0
}

// ToggleAction returns the first toggle action of the element, if any.
func (e *Element) ToggleAction() *Action {
	for _, act := range e.GetActions() {
		if act != nil && act.Type == ACTION_TOGGLE {
			return act
		}
	}
	return nil
}

func (e *Element) ShowIf() *Condition {
	if e.Conditions == nil {
		return nil
	}
	return e.Conditions.ShowIf
}

type ActionType string

const (
	ACTION_TAP          ActionType = "tap"
	ACTION_NAVIGATE     ActionType = "navigate"
	ACTION_LINK         ActionType = "link"
	ACTION_TOGGLE       ActionType = "toggle"
	ACTION_DISMISS      ActionType = "dismiss"
	ACTION_SET_VARIABLE ActionType = "set_variable"
)

type Action struct {
	Type        ActionType   `json:"type"`
	Destination *Destination `json:"destination,omitempty"`
	URL         string       `json:"url,omitempty"`
	Group       string       `json:"group,omitempty"`
	Variable    string       `json:"variable,omitempty"`
	Value       any          `json:"value,omitempty"`
}
