package render

import (
	"fmt"
	"strings"

	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/metrics"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/variable"
	"go.uber.org/zap"
)

const (
	SELECTED_BORDER_COLOR   = "#6366F1"
	UNSELECTED_BORDER_COLOR = "#E5E7EB"
	TOGGLE_BORDER_WIDTH     = 2
	VISIBILITY_TRANSITION   = "opacity 200ms ease"
)

// Context carries everything one render pass reads. Variables and Selection
// are owned by the enclosing session; the renderer never writes to them.
type Context struct {
	Hidden       map[string]bool
	Variables    variable.Store
	SetVariable  func(name string, value any)
	ResolveAsset func(url string) (string, bool)
	Selection    *Selection
}

func (c *Context) isHidden(id string) bool {
	return c.Hidden != nil && c.Hidden[id]
}

type Renderer struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewRenderer() *Renderer {
	return &Renderer{log: logger.Named("render"), metrics: metrics.Get()}
}

// Render interprets elements depth first. Elements whose show_if condition
// fails or whose id is hidden are skipped with their subtree. A failing
// element is replaced by an error view; its siblings still render.
func (r *Renderer) Render(elements []*model.Element, ctx *Context) []*View {
	if ctx == nil {
		ctx = &Context{}
	}
	views := make([]*View, 0, len(elements))
	for _, el := range elements {
		if v := r.renderElement(el, ctx); v != nil {
			views = append(views, v)
		}
	}
	return views
}

func (r *Renderer) renderElement(el *model.Element, ctx *Context) (view *View) {
	if el == nil {
		return nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			view = r.errorView(el, fmt.Errorf("%v", rec))
		}
	}()
	if !variable.Evaluate(el.ShowIf(), ctx.Variables) {
		return nil
	}
	if ctx.isHidden(el.Id) {
		return nil
	}
	v, err := r.build(el, ctx)
	if err != nil {
		return r.errorView(el, err)
	}
	return v
}

func (r *Renderer) errorView(el *model.Element, err error) *View {
	r.log.Warn("error rendering element", zap.String("id", el.Id), zap.String("type", string(el.Type)), zap.Error(err))
	r.metrics.RecordRenderError()
	return &View{
		Id:    el.Id,
		Kind:  VIEW_ERROR,
		Error: fmt.Sprintf("%s (%s): %s", el.Id, el.Type, err.Error()),
		Style: map[string]any{
			"border":          "1px dashed #DC2626",
			"color":           "#DC2626",
			"backgroundColor": "#FEF2F2",
			"padding":         8,
			"fontSize":        12,
		},
	}
}

func (r *Renderer) build(el *model.Element, ctx *Context) (*View, error) {
	style := mergeStyle(el)
	view := &View{
		Id:       el.Id,
		Style:    style,
		Tappable: el.HasActions(),
	}
	applyToggleState(el, view, ctx.Selection)
	applyGroupVisibility(el, view, ctx.Selection)

	props := variable.ResolveProps(el.Props, ctx.Variables)
	switch el.Type {
	case model.ELEMENT_VSTACK:
		view.Kind = VIEW_COLUMN
		setDefault(style, "display", "flex")
		setDefault(style, "flexDirection", "column")
		view.Children = r.renderChildren(el, ctx, false)
	case model.ELEMENT_HSTACK:
		view.Kind = VIEW_ROW
		setDefault(style, "display", "flex")
		setDefault(style, "flexDirection", "row")
		view.Children = r.renderChildren(el, ctx, false)
	case model.ELEMENT_ZSTACK:
		view.Kind = VIEW_STACK
		setDefault(style, "position", "relative")
		view.Children = r.renderChildren(el, ctx, true)
	case model.ELEMENT_SCROLLVIEW:
		view.Kind = VIEW_SCROLL
		setDefault(style, "overflowY", "auto")
		view.Children = r.renderChildren(el, ctx, false)
	case model.ELEMENT_TEXT:
		text, err := stringProp(props, "text", "content")
		if err != nil {
			return nil, err
		}
		view.Kind = VIEW_TEXT
		view.Text = text
	case model.ELEMENT_IMAGE, model.ELEMENT_VIDEO, model.ELEMENT_LOTTIE:
		if err := buildMedia(el, props, view, ctx); err != nil {
			return nil, err
		}
	case model.ELEMENT_ICON:
		emoji, err := stringProp(props, "emoji")
		if err != nil {
			return nil, err
		}
		name, err := stringProp(props, "name", "icon")
		if err != nil {
			return nil, err
		}
		view.Kind = VIEW_ICON
		if emoji != "" {
			view.Emoji = emoji
		} else {
			view.Icon = name
		}
	case model.ELEMENT_INPUT:
		placeholder, err := stringProp(props, "placeholder")
		if err != nil {
			return nil, err
		}
		inputType, err := stringProp(props, "type", "inputType")
		if err != nil {
			return nil, err
		}
		if inputType == "" {
			inputType = "text"
		}
		view.Kind = VIEW_INPUT
		view.Placeholder = placeholder
		view.InputType = inputType
	case model.ELEMENT_SPACER:
		view.Kind = VIEW_SPACER
		setDefault(style, "flexGrow", 1)
	case model.ELEMENT_DIVIDER:
		view.Kind = VIEW_DIVIDER
		setDefault(style, "height", 1)
		setDefault(style, "backgroundColor", UNSELECTED_BORDER_COLOR)
	default:
		// Legacy documents still carry types such as "button" or "heading".
		r.log.Debug("unknown element type", zap.String("id", el.Id), zap.String("type", string(el.Type)))
		text, _ := stringProp(props, "text", "label", "content", "title")
		view.Kind = VIEW_BOX
		view.Label = string(el.Type)
		view.Text = text
		view.Children = r.renderChildren(el, ctx, false)
	}
	return view, nil
}

func (r *Renderer) renderChildren(el *model.Element, ctx *Context, stacked bool) []*View {
	children := make([]*View, 0, len(el.Children))
	for _, child := range el.Children {
		v := r.renderElement(child, ctx)
		if v == nil {
			continue
		}
		if stacked && child.Position == nil && v.Kind != VIEW_ERROR {
			if v.Style == nil {
				v.Style = make(map[string]any)
			}
			setDefault(v.Style, "position", "absolute")
			setDefault(v.Style, "top", 0)
			setDefault(v.Style, "left", 0)
		}
		children = append(children, v)
	}
	return children
}

func buildMedia(el *model.Element, props map[string]any, view *View, ctx *Context) error {
	url, err := stringProp(props, "url", "src")
	if err != nil {
		return err
	}
	if strings.HasPrefix(url, model.ASSET_URL_PREFIX) {
		resolved, ok := "", false
		if ctx.ResolveAsset != nil {
			resolved, ok = ctx.ResolveAsset(url)
		}
		if !ok {
			url = ""
		} else {
			url = resolved
		}
	}
	if url == "" {
		view.Kind = VIEW_PLACEHOLDER
		view.Label = placeholderLabel(el.Type, props)
		setDefault(view.Style, "border", "1px dashed #9CA3AF")
		setDefault(view.Style, "display", "flex")
		setDefault(view.Style, "alignItems", "center")
		setDefault(view.Style, "justifyContent", "center")
		return nil
	}
	view.Src = url
	switch el.Type {
	case model.ELEMENT_IMAGE:
		view.Kind = VIEW_IMAGE
		alt, _ := stringProp(props, "alt", "description")
		view.Label = alt
	case model.ELEMENT_VIDEO:
		view.Kind = VIEW_VIDEO
		view.Props = pick(props, "autoplay", "loop", "muted", "controls")
	case model.ELEMENT_LOTTIE:
		view.Kind = VIEW_LOTTIE
		view.Props = pick(props, "autoplay", "loop", "speed")
	}
	return nil
}

// placeholderLabel describes a media slot that has no content yet, as
// generated documents often leave them empty.
func placeholderLabel(t model.ElementType, props map[string]any) string {
	kind := strings.ToUpper(string(t[:1])) + string(t[1:])
	if slot, ok := props["slot"]; ok && slot != nil {
		return fmt.Sprintf("%s %s", kind, variable.Stringify(slot))
	}
	if desc, ok := props["description"].(string); ok && desc != "" {
		return fmt.Sprintf("%s: %s", kind, desc)
	}
	return kind
}

func mergeStyle(el *model.Element) map[string]any {
	style := make(map[string]any, len(el.Style)+4)
	for k, v := range el.Style {
		style[k] = v
	}
	pos := el.Position
	if pos == nil {
		return style
	}
	if pos.Type == model.POSITION_ABSOLUTE {
		style["position"] = "absolute"
	} else if pos.Type == model.POSITION_RELATIVE {
		style["position"] = "relative"
	}
	offsets := map[string]any{"top": pos.Top, "left": pos.Left, "right": pos.Right, "bottom": pos.Bottom}
	for k, v := range offsets {
		if v != nil {
			style[k] = v
		}
	}
	var translate []string
	if pos.CenterX {
		style["left"] = "50%"
		translate = append(translate, "translateX(-50%)")
	}
	if pos.CenterY {
		style["top"] = "50%"
		translate = append(translate, "translateY(-50%)")
	}
	if len(translate) > 0 {
		style["transform"] = strings.Join(translate, " ")
	}
	if pos.ZIndex != nil {
		style["zIndex"] = *pos.ZIndex
	}
	return style
}

// applyToggleState draws a border of the same width in both states so
// selecting an element never shifts the layout.
func applyToggleState(el *model.Element, view *View, selection *Selection) {
	selectedColor, hasSelectedColor := view.Style["selectedBorderColor"]
	delete(view.Style, "selectedBorderColor")
	if el.ToggleAction() == nil {
		return
	}
	selected := selection.IsSelected(el.Id)
	view.Selected = &selected
	if !hasSelectedColor {
		selectedColor = SELECTED_BORDER_COLOR
	}
	unselectedColor, ok := view.Style["borderColor"]
	if !ok {
		unselectedColor = UNSELECTED_BORDER_COLOR
	}
	view.Style["borderStyle"] = "solid"
	view.Style["borderWidth"] = TOGGLE_BORDER_WIDTH
	view.Style["boxSizing"] = "border-box"
	if selected {
		view.Style["borderColor"] = selectedColor
	} else {
		view.Style["borderColor"] = unselectedColor
	}
}

// applyGroupVisibility keeps the element mounted and only fades it out so
// hosts can animate the change.
func applyGroupVisibility(el *model.Element, view *View, selection *Selection) {
	vw := el.VisibleWhen
	if vw == nil {
		return
	}
	view.Style["transition"] = VISIBILITY_TRANSITION
	if selection.HasSelection(vw.Group) == vw.HasSelection {
		return
	}
	view.Style["opacity"] = 0
	view.Style["pointerEvents"] = "none"
	view.Tappable = false
}

func interactive(el *model.Element, selection *Selection) bool {
	vw := el.VisibleWhen
	return vw == nil || selection.HasSelection(vw.Group) == vw.HasSelection
}

// stringProp returns the first present key of props. A present value that
// is neither null nor a string is an error.
func stringProp(props map[string]any, keys ...string) (string, error) {
	for _, key := range keys {
		v, ok := props[key]
		if !ok {
			continue
		}
		switch value := v.(type) {
		case nil:
			return "", nil
		case string:
			return value, nil
		case float64, bool:
			return variable.Stringify(value), nil
		default:
			return "", fmt.Errorf("prop %s should be a string, got %T", key, v)
		}
	}
	return "", nil
}

func pick(props map[string]any, keys ...string) map[string]any {
	var out map[string]any
	for _, k := range keys {
		if v, ok := props[k]; ok {
			if out == nil {
				out = make(map[string]any)
			}
			out[k] = v
		}
	}
	return out
}

func setDefault(style map[string]any, key string, value any) {
	if _, ok := style[key]; !ok {
		style[key] = value
	}
}
