package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// unitless style properties keep bare numbers; every other number is pixels.
var unitless = map[string]bool{
	"opacity":    true,
	"zIndex":     true,
	"flex":       true,
	"flexGrow":   true,
	"flexShrink": true,
	"fontWeight": true,
	"lineHeight": true,
}

// WriteHTML writes views as an HTML fragment for previews.
func WriteHTML(w io.Writer, views []*View) error {
	for _, v := range views {
		if v == nil {
			continue
		}
		if err := html.Render(w, toNode(v)); err != nil {
			return err
		}
	}
	return nil
}

func toNode(v *View) *html.Node {
	var n *html.Node
	switch v.Kind {
	case VIEW_TEXT:
		n = element(atom.P)
		n.AppendChild(text(v.Text))
	case VIEW_IMAGE:
		n = element(atom.Img, html.Attribute{Key: "src", Val: v.Src}, html.Attribute{Key: "alt", Val: v.Label})
	case VIEW_VIDEO:
		n = element(atom.Video, html.Attribute{Key: "src", Val: v.Src})
		for _, k := range []string{"autoplay", "loop", "muted", "controls"} {
			if on, _ := v.Props[k].(bool); on {
				n.Attr = append(n.Attr, html.Attribute{Key: k})
			}
		}
	case VIEW_LOTTIE:
		n = element(atom.Div, html.Attribute{Key: "data-lottie-src", Val: v.Src})
	case VIEW_ICON:
		n = element(atom.Span)
		if v.Emoji != "" {
			n.AppendChild(text(v.Emoji))
		} else {
			n.Attr = append(n.Attr, html.Attribute{Key: "data-icon", Val: v.Icon})
		}
	case VIEW_INPUT:
		n = element(atom.Input,
			html.Attribute{Key: "type", Val: v.InputType},
			html.Attribute{Key: "placeholder", Val: v.Placeholder},
			html.Attribute{Key: "readonly"})
	case VIEW_DIVIDER:
		n = element(atom.Hr)
	case VIEW_PLACEHOLDER:
		n = element(atom.Div)
		n.AppendChild(text(v.Label))
	case VIEW_ERROR:
		n = element(atom.Div, html.Attribute{Key: "role", Val: "alert"})
		n.AppendChild(text(v.Error))
	default:
		n = element(atom.Div)
		if v.Text != "" {
			n.AppendChild(text(v.Text))
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "data-kind", Val: string(v.Kind)})
	if v.Id != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "data-id", Val: v.Id})
	}
	if v.Tappable {
		n.Attr = append(n.Attr, html.Attribute{Key: "data-tappable", Val: "true"})
	}
	if v.Selected != nil {
		n.Attr = append(n.Attr, html.Attribute{Key: "aria-pressed", Val: fmt.Sprint(*v.Selected)})
	}
	if css := styleAttr(v); css != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: css})
	}
	for _, child := range v.Children {
		if child != nil {
			n.AppendChild(toNode(child))
		}
	}
	return n
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func styleAttr(v *View) string {
	var parts []string
	keys := make([]string, 0, len(v.Style))
	for k := range v.Style {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, kebab(k)+":"+cssValue(k, v.Style[k]))
	}
	return strings.Join(parts, ";")
}

func cssValue(key string, v any) string {
	switch value := v.(type) {
	case float64, float32, int, int64, int32:
		if unitless[key] {
			return fmt.Sprint(value)
		}
		return fmt.Sprintf("%vpx", value)
	}
	return fmt.Sprint(v)
}

func kebab(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
