package navigation

// Route tags of the JourneyLink screens
const (
	RouteSplash        = "Splash"
	RouteLogin         = "Login"
	RouteRegister      = "Register"
	RouteVerify        = "Verify"
	RouteMain          = "Main"
	RouteHome          = "Home"
	RouteSeleccion     = "Seleccion"
	RouteCompanions    = "Companions"
	RouteCompanionInfo = "CompanionInfo"
	RouteConfirmacion  = "Confirmacion"
	RoutePago          = "Pago"
	RouteSeguimiento   = "Seguimiento"
	RouteHistorial     = "Historial"
	RoutePerfil        = "Perfil"
)

// CompanionInfo params
const (
	ParamName   = "name"
	ParamRating = "rating"
)

// DefaultRegistry returns the JourneyLink route table
func DefaultRegistry() *Registry {
	return MustRegistry(
		RouteDef{Name: RouteSplash, Privacy: Public},
		RouteDef{Name: RouteLogin, Privacy: Public},
		RouteDef{Name: RouteRegister, Privacy: Public},
		RouteDef{Name: RouteVerify, Privacy: Public},

		RouteDef{Name: RouteMain, Privacy: Private},
		RouteDef{Name: RouteHome, Privacy: Private},
		RouteDef{Name: RouteSeleccion, Privacy: Private},
		RouteDef{Name: RouteCompanions, Privacy: Private},
		RouteDef{Name: RouteCompanionInfo, Privacy: Private, Params: []ParamSpec{
			{Name: ParamName, Kind: StringParam},
			{Name: ParamRating, Kind: IntParam},
		}},
		RouteDef{Name: RouteConfirmacion, Privacy: Private},
		RouteDef{Name: RoutePago, Privacy: Private},
		RouteDef{Name: RouteSeguimiento, Privacy: Private},
		RouteDef{Name: RouteHistorial, Privacy: Private},
		RouteDef{Name: RoutePerfil, Privacy: Private},
	)
}
