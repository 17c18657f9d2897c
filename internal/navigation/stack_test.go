package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stackOf(tags ...string) *Stack {
	s := NewStack()
	for _, tag := range tags {
		s.Push(Route{Name: tag})
	}
	return s
}

func TestStackPopUpTo(t *testing.T) {
	tests := []struct {
		name      string
		stack     []string
		target    string
		inclusive bool
		want      []string
		found     bool
	}{
		{
			name:   "exclusive keeps target",
			stack:  []string{"Home", "Companions", "CompanionInfo", "Perfil"},
			target: "Companions",
			want:   []string{"Home", "Companions"},
			found:  true,
		},
		{
			name:      "inclusive removes target",
			stack:     []string{"Home", "Companions", "CompanionInfo", "Perfil"},
			target:    "Companions",
			inclusive: true,
			want:      []string{"Home"},
			found:     true,
		},
		{
			name:      "most recent occurrence wins",
			stack:     []string{"Home", "Perfil", "Home", "Perfil"},
			target:    "Home",
			inclusive: true,
			want:      []string{"Home", "Perfil"},
			found:     true,
		},
		{
			name:   "missing target leaves stack",
			stack:  []string{"Splash", "Login"},
			target: "Register",
			want:   []string{"Splash", "Login"},
			found:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stackOf(tt.stack...)
			assert.Equal(t, tt.found, s.PopUpTo(tt.target, tt.inclusive))
			assert.Equal(t, tt.want, names(s.Entries()))
		})
	}
}

func TestStackBasics(t *testing.T) {
	s := NewStack()
	_, ok := s.Top()
	assert.False(t, ok)
	_, ok = s.Pop()
	assert.False(t, ok)

	s.Replace(Route{Name: "Splash"})
	s.Push(Route{Name: "Login"})
	s.Replace(Route{Name: "Register"})
	assert.Equal(t, []string{"Splash", "Register"}, names(s.Entries()))
	assert.True(t, s.Contains("Splash"))
	assert.False(t, s.Contains("Login"))

	top, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, "Register", top.Name)
	assert.Equal(t, 1, s.Len())

	entries := s.Entries()
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Len(t, entries, 1)
}
