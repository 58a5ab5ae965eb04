package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/variable"
	"go.uber.org/zap"
)

var ErrUnknownElement = errors.New("unknown element")
var ErrNotInteractive = errors.New("element is not interactive")

type IntentType string

const (
	INTENT_NAVIGATE IntentType = "navigate"
	INTENT_LINK     IntentType = "link"
	INTENT_DISMISS  IntentType = "dismiss"
	INTENT_TAP      IntentType = "tap"
)

// Intent is something a tap asks the host to do. The session only signals
// it; screen transitions and opening links belong to the host.
type Intent struct {
	Type        IntentType `json:"type"`
	ElementId   string     `json:"element_id"`
	Destination string     `json:"destination,omitempty"`
	URL         string     `json:"url,omitempty"`
}

// Session is one live screen: its document, the variable store, hidden ids
// and selection state. All mutation goes through Tap and SetVariable, so the
// next Render always sees it. A Session is not safe for concurrent use.
type Session struct {
	renderer  *Renderer
	doc       *model.Document
	index     map[string]*model.Element
	parents   map[string]string
	vars      variable.Store
	hidden    map[string]bool
	selection *Selection
	assets    func(url string) (string, bool)
}

func NewSession(renderer *Renderer, doc *model.Document, vars variable.Store) *Session {
	if doc == nil {
		doc = &model.Document{}
	}
	if vars == nil {
		vars = variable.Store{}
	}
	s := &Session{
		renderer:  renderer,
		doc:       doc,
		index:     make(map[string]*model.Element),
		parents:   make(map[string]string),
		vars:      vars,
		hidden:    make(map[string]bool),
		selection: NewSelection(),
		assets:    AssetResolver(doc.Assets),
	}
	s.indexElements(doc.Elements, "")
	return s
}

func (s *Session) indexElements(elements []*model.Element, parent string) {
	for _, el := range elements {
		if el == nil || el.Id == "" {
			continue
		}
		if _, ok := s.index[el.Id]; ok {
			continue
		}
		s.index[el.Id] = el
		if parent != "" {
			s.parents[el.Id] = parent
		}
		if !el.Type.IsLeaf() {
			s.indexElements(el.Children, el.Id)
		}
	}
}

func (s *Session) Variables() variable.Store {
	return s.vars
}

func (s *Session) Selection() *Selection {
	return s.selection
}

// RestoreSelection replaces the selection state, e.g. from a saved preview.
func (s *Session) RestoreSelection(selection *Selection) {
	if selection != nil {
		s.selection = selection
	}
}

func (s *Session) SetVariable(name string, value any) {
	s.vars.Set(name, value)
}

func (s *Session) Hide(id string) {
	s.hidden[id] = true
}

func (s *Session) Show(id string) {
	delete(s.hidden, id)
}

func (s *Session) Render() []*View {
	return s.renderer.Render(s.doc.Elements, s.context())
}

func (s *Session) context() *Context {
	return &Context{
		Hidden:       s.hidden,
		Variables:    s.vars,
		SetVariable:  s.SetVariable,
		ResolveAsset: s.assets,
		Selection:    s.selection,
	}
}

// Tap runs the actions of the element with the given id in order. Only that
// element's actions run, never those of its ancestors.
func (s *Session) Tap(id string) ([]Intent, error) {
	el, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	if !s.reachable(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotInteractive, id)
	}
	var intents []Intent
	for _, act := range el.GetActions() {
		if act == nil {
			continue
		}
		if intent, ok := s.execute(el, act); ok {
			intents = append(intents, intent)
		}
	}
	return intents, nil
}

// reachable reports whether the element and all its ancestors are rendered
// and accept pointer events.
func (s *Session) reachable(id string) bool {
	for id != "" {
		el := s.index[id]
		if s.hidden[id] || !variable.Evaluate(el.ShowIf(), s.vars) || !interactive(el, s.selection) {
			return false
		}
		id = s.parents[id]
	}
	return true
}

func (s *Session) execute(el *model.Element, act *model.Action) (Intent, bool) {
	switch act.Type {
	case model.ACTION_SET_VARIABLE:
		if act.Variable == "" {
			logger.Warn("set_variable without variable name", zap.String("element", el.Id))
			return Intent{}, false
		}
		s.SetVariable(act.Variable, act.Value)
	case model.ACTION_TOGGLE:
		s.selection.Toggle(el.Id, act.Group)
	case model.ACTION_NAVIGATE:
		dest, ok := variable.ResolveDestination(act.Destination, s.vars)
		if !ok {
			return Intent{}, false
		}
		if isURL(dest) {
			return Intent{Type: INTENT_LINK, ElementId: el.Id, URL: dest}, true
		}
		return Intent{Type: INTENT_NAVIGATE, ElementId: el.Id, Destination: dest}, true
	case model.ACTION_LINK:
		url := variable.ResolveTemplate(act.URL, s.vars)
		if url == "" {
			url, _ = variable.ResolveDestination(act.Destination, s.vars)
		}
		if url == "" {
			return Intent{}, false
		}
		return Intent{Type: INTENT_LINK, ElementId: el.Id, URL: url}, true
	case model.ACTION_DISMISS:
		return Intent{Type: INTENT_DISMISS, ElementId: el.Id}, true
	case model.ACTION_TAP:
		return Intent{Type: INTENT_TAP, ElementId: el.Id}, true
	default:
		logger.Warn("unknown action type", zap.String("element", el.Id), zap.String("type", string(act.Type)))
	}
	return Intent{}, false
}

func isURL(dest string) bool {
	return strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://")
}

// AssetResolver resolves "asset:<name>" references against assets. Other
// urls are returned unchanged.
func AssetResolver(assets []model.Asset) func(url string) (string, bool) {
	byName := make(map[string]string, len(assets))
	for _, a := range assets {
		byName[a.Name] = a.Data
	}
	return func(url string) (string, bool) {
		name, ok := strings.CutPrefix(url, model.ASSET_URL_PREFIX)
		if !ok {
			return url, url != ""
		}
		data, found := byName[name]
		return data, found && data != ""
	}
}
