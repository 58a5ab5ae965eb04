package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelection(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, s *Selection){
		"group behaves like radio":     testGroupRadio,
		"reselect is a no-op":          testReselectNoop,
		"ungrouped behaves like check": testUngroupedCheck,
		"groups are independent":       testGroupsIndependent,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewSelection())
		})
	}
}

func testGroupRadio(t *testing.T, s *Selection) {
	require.False(t, s.HasSelection("g"))
	require.True(t, s.Toggle("a", "g"))
	require.True(t, s.Toggle("b", "g"))
	id, ok := s.Selected("g")
	require.True(t, ok)
	require.Equal(t, "b", id)
	require.False(t, s.IsSelected("a"))
	require.Equal(t, []string{"b"}, s.ToggledIds())
}

func testReselectNoop(t *testing.T, s *Selection) {
	s.Toggle("a", "g")
	require.False(t, s.Toggle("a", "g"))
	require.True(t, s.IsSelected("a"))
}

func testUngroupedCheck(t *testing.T, s *Selection) {
	s.Toggle("x", "")
	s.Toggle("y", "")
	require.Equal(t, []string{"x", "y"}, s.ToggledIds())
	s.Toggle("x", "")
	require.Equal(t, []string{"y"}, s.ToggledIds())
	require.Empty(t, s.GroupSelections())
}

func testGroupsIndependent(t *testing.T, s *Selection) {
	s.Toggle("a", "g1")
	s.Toggle("b", "g2")
	require.Equal(t, map[string]string{"g1": "a", "g2": "b"}, s.GroupSelections())
	require.True(t, s.IsSelected("a"))
	require.True(t, s.IsSelected("b"))
}

func TestNilSelection(t *testing.T) {
	var s *Selection
	require.False(t, s.IsSelected("a"))
	require.False(t, s.HasSelection("g"))
	_, ok := s.Selected("g")
	require.False(t, ok)
	require.Empty(t, s.GroupSelections())
}

func TestNewSelectionFrom(t *testing.T) {
	s := NewSelectionFrom([]string{"extra"}, map[string]string{"g": "a", "empty": ""})
	require.True(t, s.IsSelected("a"))
	require.True(t, s.IsSelected("extra"))
	require.False(t, s.HasSelection("empty"))
	s.Toggle("b", "g")
	require.False(t, s.IsSelected("a"))
}
