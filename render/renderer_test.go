package render

import (
	"encoding/json"
	"testing"

	"github.com/mohitkumar/screenflow/model"
	"github.com/mohitkumar/screenflow/variable"
	"github.com/stretchr/testify/require"
)

func parseDocument(t *testing.T, data string) *model.Document {
	t.Helper()
	var doc model.Document
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	return &doc
}

func TestRender(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, r *Renderer){
		"containers and leaves":      testContainersAndLeaves,
		"fault isolation":            testFaultIsolation,
		"panic isolation":            testPanicIsolation,
		"show_if skips subtree":      testShowIfSkipsSubtree,
		"hidden ids":                 testHiddenIds,
		"text templates":             testTextTemplates,
		"media placeholders":         testMediaPlaceholders,
		"asset urls":                 testAssetUrls,
		"zstack default position":    testZStackDefaultPosition,
		"position style":             testPositionStyle,
		"legacy types degrade":       testLegacyTypes,
		"icon prefers emoji":         testIconPrefersEmoji,
		"toggle border is stable":    testToggleBorder,
		"group visibility fades out": testGroupVisibility,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewRenderer())
		})
	}
}

func testContainersAndLeaves(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[
		{"id":"root","type":"vstack","children":[
			{"id":"row","type":"hstack","children":[
				{"id":"t1","type":"text","props":{"text":"Hello"}},
				{"id":"sp","type":"spacer"}
			]},
			{"id":"div","type":"divider"},
			{"id":"in","type":"input","props":{"placeholder":"Email","type":"email"}},
			{"id":"sc","type":"scrollview","children":[{"id":"t2","type":"text","props":{"text":"more"}}]}
		]}
	]`)
	views := r.Render(doc.Elements, &Context{})
	require.Len(t, views, 1)
	root := views[0]
	require.Equal(t, VIEW_COLUMN, root.Kind)
	require.Len(t, root.Children, 4)
	require.Equal(t, VIEW_ROW, root.Children[0].Kind)
	require.Equal(t, "Hello", root.Children[0].Children[0].Text)
	require.Equal(t, VIEW_SPACER, root.Children[0].Children[1].Kind)
	require.Equal(t, VIEW_DIVIDER, root.Children[1].Kind)
	require.Equal(t, "Email", root.Children[2].Placeholder)
	require.Equal(t, "email", root.Children[2].InputType)
	require.Equal(t, VIEW_SCROLL, root.Children[3].Kind)
	require.Equal(t, "more", root.Children[3].Children[0].Text)
}

func testFaultIsolation(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[
		{"id":"before","type":"text","props":{"text":"one"}},
		{"id":"broken","type":"text","props":{"text":{"not":"a string"}}},
		{"id":"after","type":"text","props":{"text":"three"}}
	]`)
	views := r.Render(doc.Elements, &Context{})
	require.Len(t, views, 3)
	require.Equal(t, "one", views[0].Text)
	require.Equal(t, VIEW_ERROR, views[1].Kind)
	require.Equal(t, "broken", views[1].Id)
	require.Contains(t, views[1].Error, "prop text")
	require.Equal(t, "three", views[2].Text)
}

func testPanicIsolation(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[{"id":"box","type":"vstack","children":[
		{"id":"img","type":"image","props":{"url":"asset:logo"}},
		{"id":"ok","type":"text","props":{"text":"fine"}}
	]}]`)
	ctx := &Context{ResolveAsset: func(string) (string, bool) { panic("resolver exploded") }}
	views := r.Render(doc.Elements, ctx)
	require.Len(t, views, 1)
	children := views[0].Children
	require.Len(t, children, 2)
	require.Equal(t, VIEW_ERROR, children[0].Kind)
	require.Contains(t, children[0].Error, "resolver exploded")
	require.Equal(t, "fine", children[1].Text)
}

func testShowIfSkipsSubtree(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[
		{"id":"premium","type":"vstack",
		 "conditions":{"show_if":{"variable":"plan","operator":"equals","value":"pro"}},
		 "children":[{"id":"inner","type":"text","props":{"text":"pro only"}}]},
		{"id":"always","type":"text","props":{"text":"everyone"}}
	]`)
	views := r.Render(doc.Elements, &Context{Variables: variable.Store{"plan": "free"}})
	require.Len(t, views, 1)
	require.Equal(t, "always", views[0].Id)
	require.Nil(t, Find(views, "inner"))

	views = r.Render(doc.Elements, &Context{Variables: variable.Store{"plan": "pro"}})
	require.Len(t, views, 2)
	require.NotNil(t, Find(views, "inner"))
}

func testHiddenIds(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[{"id":"a","type":"vstack","children":[
		{"id":"b","type":"text","props":{"text":"b"}},
		{"id":"c","type":"text","props":{"text":"c"}}]}]`)
	views := r.Render(doc.Elements, &Context{Hidden: map[string]bool{"b": true}})
	require.Len(t, views[0].Children, 1)
	require.Equal(t, "c", views[0].Children[0].Id)
}

func testTextTemplates(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[{"id":"greet","type":"text","props":{"text":"Hello, {user.name}! {missing}"}}]`)
	vars := variable.Store{"user": map[string]any{"name": "Ada"}}
	views := r.Render(doc.Elements, &Context{Variables: vars})
	require.Equal(t, "Hello, Ada! ", views[0].Text)
}

func testMediaPlaceholders(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[
		{"id":"i","type":"image","props":{"slot":2}},
		{"id":"v","type":"video","props":{"description":"intro clip"}},
		{"id":"l","type":"lottie"},
		{"id":"real","type":"video","props":{"url":"https://cdn.example.com/a.mp4","autoplay":true}}
	]`)
	views := r.Render(doc.Elements, &Context{})
	require.Len(t, views, 4)
	require.Equal(t, VIEW_PLACEHOLDER, views[0].Kind)
	require.Equal(t, "Image 2", views[0].Label)
	require.Equal(t, "Video: intro clip", views[1].Label)
	require.Equal(t, "Lottie", views[2].Label)
	require.Equal(t, VIEW_VIDEO, views[3].Kind)
	require.Equal(t, "https://cdn.example.com/a.mp4", views[3].Src)
	require.Equal(t, true, views[3].Props["autoplay"])
}

func testAssetUrls(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `{"elements":[
		{"id":"logo","type":"image","props":{"url":"asset:logo"}},
		{"id":"gone","type":"image","props":{"url":"asset:missing","slot":1}}
	],"assets":[{"name":"logo","type":"image/png","data":"data:image/png;base64,AAAA"}]}`)
	views := r.Render(doc.Elements, &Context{ResolveAsset: AssetResolver(doc.Assets)})
	require.Equal(t, VIEW_IMAGE, views[0].Kind)
	require.Equal(t, "data:image/png;base64,AAAA", views[0].Src)
	require.Equal(t, VIEW_PLACEHOLDER, views[1].Kind)
	require.Equal(t, "Image 1", views[1].Label)
}

func testZStackDefaultPosition(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[{"id":"z","type":"zstack","children":[
		{"id":"bg","type":"image","props":{"url":"https://x/bg.png"}},
		{"id":"badge","type":"text","props":{"text":"new"},"position":{"type":"absolute","right":8,"bottom":8}}
	]}]`)
	views := r.Render(doc.Elements, &Context{})
	bg := Find(views, "bg")
	require.Equal(t, "absolute", bg.Style["position"])
	require.Equal(t, 0, bg.Style["top"])
	require.Equal(t, 0, bg.Style["left"])
	badge := Find(views, "badge")
	require.Equal(t, "absolute", badge.Style["position"])
	require.Equal(t, 8.0, badge.Style["right"])
	require.NotContains(t, badge.Style, "top")
}

func testPositionStyle(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[{"id":"c","type":"text","props":{"text":"x"},"style":{"color":"red"},
		"position":{"type":"absolute","centerX":true,"centerY":true,"zIndex":3}}]`)
	style := r.Render(doc.Elements, &Context{})[0].Style
	require.Equal(t, "red", style["color"])
	require.Equal(t, "absolute", style["position"])
	require.Equal(t, "50%", style["left"])
	require.Equal(t, "50%", style["top"])
	require.Equal(t, "translateX(-50%) translateY(-50%)", style["transform"])
	require.Equal(t, 3, style["zIndex"])
}

func testLegacyTypes(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[
		{"id":"btn","type":"button","props":{"text":"Continue"},"action":{"type":"navigate","destination":"next"}},
		{"id":"h","type":"heading","props":{"text":"Welcome"}}
	]`)
	views := r.Render(doc.Elements, &Context{})
	require.Len(t, views, 2)
	require.Equal(t, VIEW_BOX, views[0].Kind)
	require.Equal(t, "Continue", views[0].Text)
	require.Equal(t, "button", views[0].Label)
	require.True(t, views[0].Tappable)
	require.Equal(t, "Welcome", views[1].Text)
}

func testIconPrefersEmoji(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[
		{"id":"a","type":"icon","props":{"emoji":"🔥","name":"flame"}},
		{"id":"b","type":"icon","props":{"name":"check"}}
	]`)
	views := r.Render(doc.Elements, &Context{})
	require.Equal(t, "🔥", views[0].Emoji)
	require.Empty(t, views[0].Icon)
	require.Equal(t, "check", views[1].Icon)
}

func testToggleBorder(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[
		{"id":"a","type":"text","props":{"text":"A"},"action":{"type":"toggle","group":"g"}},
		{"id":"b","type":"text","props":{"text":"B"},"actions":[{"type":"toggle","group":"g"}],"style":{"selectedBorderColor":"#000"}}
	]`)
	sel := NewSelectionFrom(nil, map[string]string{"g": "b"})
	views := r.Render(doc.Elements, &Context{Selection: sel})
	a, b := views[0], views[1]
	require.False(t, *a.Selected)
	require.True(t, *b.Selected)
	require.Equal(t, UNSELECTED_BORDER_COLOR, a.Style["borderColor"])
	require.Equal(t, "#000", b.Style["borderColor"])
	require.Equal(t, a.Style["borderWidth"], b.Style["borderWidth"])
	require.Equal(t, "border-box", a.Style["boxSizing"])
	require.Equal(t, "border-box", b.Style["boxSizing"])
	require.NotContains(t, b.Style, "selectedBorderColor")
}

func testGroupVisibility(t *testing.T, r *Renderer) {
	doc := parseDocument(t, `[
		{"id":"cta","type":"text","props":{"text":"Continue"},
		 "visibleWhen":{"group":"goal","hasSelection":true},
		 "action":{"type":"navigate","destination":"next"}}
	]`)
	views := r.Render(doc.Elements, &Context{Selection: NewSelection()})
	require.Len(t, views, 1)
	require.Equal(t, 0, views[0].Style["opacity"])
	require.Equal(t, "none", views[0].Style["pointerEvents"])
	require.False(t, views[0].Tappable)

	views = r.Render(doc.Elements, &Context{Selection: NewSelectionFrom(nil, map[string]string{"goal": "x"})})
	require.NotContains(t, views[0].Style, "opacity")
	require.True(t, views[0].Tappable)
	require.Equal(t, VISIBILITY_TRANSITION, views[0].Style["transition"])
}
