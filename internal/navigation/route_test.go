package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRoute(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		name    string
		route   string
		params  Params
		want    Params
		wantErr error
	}{
		{name: "no params", route: RouteHome},
		{
			name:   "path strings are normalised",
			route:  RouteCompanionInfo,
			params: Params{ParamName: "Ana", ParamRating: " 4"},
			want:   Params{ParamName: "Ana", ParamRating: 4},
		},
		{
			name:   "partial params",
			route:  RouteCompanionInfo,
			params: Params{ParamName: "Ana"},
			want:   Params{ParamName: "Ana"},
		},
		{
			name:    "unknown param",
			route:   RouteHome,
			params:  Params{"id": 1},
			wantErr: ErrInvalidParams,
		},
		{
			name:    "wrong kind",
			route:   RouteCompanionInfo,
			params:  Params{ParamName: 12},
			wantErr: ErrInvalidParams,
		},
		{
			name:    "tags are case sensitive",
			route:   "perfil",
			wantErr: ErrUnknownRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := registry.Route(tt.route, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.route, r.Name)
			if tt.want == nil {
				assert.Empty(t, r.Params)
			} else {
				assert.Equal(t, tt.want, r.Params)
			}
		})
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(RouteDef{Name: "Home"}, RouteDef{Name: "Home"})
	assert.Error(t, err)

	_, err = NewRegistry(RouteDef{})
	assert.Error(t, err)
}

func TestRouteString(t *testing.T) {
	r := Route{Name: RouteCompanionInfo, Params: Params{ParamName: "Ana", ParamRating: 4}}
	assert.Equal(t, "CompanionInfo/Ana/4", r.String())
	assert.Equal(t, "Perfil", Route{Name: RoutePerfil}.String())
	assert.Equal(t, "Usuario", Route{Name: RouteCompanionInfo}.Param(ParamName, "Usuario"))
}

func TestIsPrivate(t *testing.T) {
	registry := DefaultRegistry()
	assert.False(t, registry.IsPrivate(RouteLogin))
	assert.True(t, registry.IsPrivate(RoutePerfil))
	assert.True(t, registry.IsPrivate("NotARoute"))
}
