package render

type ViewKind string

const (
	VIEW_COLUMN      ViewKind = "column"
	VIEW_ROW         ViewKind = "row"
	VIEW_STACK       ViewKind = "stack"
	VIEW_SCROLL      ViewKind = "scroll"
	VIEW_TEXT        ViewKind = "text"
	VIEW_IMAGE       ViewKind = "image"
	VIEW_VIDEO       ViewKind = "video"
	VIEW_LOTTIE      ViewKind = "lottie"
	VIEW_ICON        ViewKind = "icon"
	VIEW_INPUT       ViewKind = "input"
	VIEW_SPACER      ViewKind = "spacer"
	VIEW_DIVIDER     ViewKind = "divider"
	VIEW_PLACEHOLDER ViewKind = "placeholder"
	VIEW_BOX         ViewKind = "box"
	VIEW_ERROR       ViewKind = "error"
)

// View is one node of a rendered screen. Hosts draw it; taps on Tappable
// views are sent back to the Session by id.
type View struct {
	Id          string         `json:"id,omitempty"`
	Kind        ViewKind       `json:"kind"`
	Style       map[string]any `json:"style,omitempty"`
	Text        string         `json:"text,omitempty"`
	Src         string         `json:"src,omitempty"`
	Label       string         `json:"label,omitempty"`
	Emoji       string         `json:"emoji,omitempty"`
	Icon        string         `json:"icon,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	InputType   string         `json:"input_type,omitempty"`
	Props       map[string]any `json:"props,omitempty"`
	Tappable    bool           `json:"tappable,omitempty"`
	Selected    *bool          `json:"selected,omitempty"`
	Error       string         `json:"error,omitempty"`
	Children    []*View        `json:"children,omitempty"`
}

// Find returns the first view with the given id in views and their subtrees.
func Find(views []*View, id string) *View {
	for _, v := range views {
		if v == nil {
			continue
		}
		if v.Id == id {
			return v
		}
		if found := Find(v.Children, id); found != nil {
			return found
		}
	}
	return nil
}
