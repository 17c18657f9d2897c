package navigation

import (
	"log/slog"
)

// VisitState is the state of a single entry into a route
type VisitState int

const (
	Unresolved VisitState = iota
	RenderingPublic
	RenderingPrivate
	RedirectPending
	Redirected
)

func (s VisitState) String() string {
	switch s {
	case RenderingPublic:
		return "rendering(public)"
	case RenderingPrivate:
		return "rendering(private)"
	case RedirectPending:
		return "redirect_pending"
	case Redirected:
		return "redirected"
	default:
		return "unresolved"
	}
}

// Terminal reports whether a visit ends in this state
func (s VisitState) Terminal() bool {
	return s == RenderingPublic || s == RenderingPrivate || s == Redirected
}

// Rendering reports whether the entered screen is shown
func (s VisitState) Rendering() bool {
	return s == RenderingPublic || s == RenderingPrivate
}

// Decision is the outcome of entering a route.
// Redirect is set only when State is RedirectPending.
type Decision struct {
	State    VisitState
	Redirect *Route
}

// EnterFunc decides what happens when a route is entered
type EnterFunc func(r Route) Decision

// Middleware wraps an EnterFunc, the same way echo middleware wraps a handler
type Middleware func(next EnterFunc) EnterFunc

// RequireSession sends entries to login while session reports no identity.
// The navigator applies it to every route tagged Private.
func RequireSession(session func() *Session, login Route) Middleware {
	return func(next EnterFunc) EnterFunc {
		return func(r Route) Decision {
			if session() == nil {
				target := login
				return Decision{State: RedirectPending, Redirect: &target}
			}
			return next(r)
		}
	}
}

// LogVisits logs every decision at debug level
func LogVisits(logger *slog.Logger) Middleware {
	return func(next EnterFunc) EnterFunc {
		return func(r Route) Decision {
			d := next(r)
			attrs := []any{"route", r.String(), "state", d.State.String()}
			if d.Redirect != nil {
				attrs = append(attrs, "redirect", d.Redirect.Name)
			}
			logger.Debug("route entered", attrs...)
			return d
		}
	}
}

func render(privacy Privacy) EnterFunc {
	state := RenderingPublic
	if privacy == Private {
		state = RenderingPrivate
	}
	return func(Route) Decision {
		return Decision{State: state}
	}
}

// chain applies middleware so the first one listed runs outermost
func chain(h EnterFunc, mws ...Middleware) EnterFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
