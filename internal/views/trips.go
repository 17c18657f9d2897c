package views

import (
	"fmt"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"journeylink_app/internal/models"
	"journeylink_app/internal/navigation"
)

type SeleccionForm struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  string
	Class       string
}

func SeleccionPage(p PageProps, f SeleccionForm) templ.Component {
	return Component(layout(p,
		form("/trips",
			field("From", "origin", "text", f.Origin, h.Required()),
			field("To", "destination", "text", f.Destination, h.Required()),
			field("Departure", "depart_date", "date", f.DepartDate, h.Required()),
			field("Return (optional)", "return_date", "date", f.ReturnDate),
			selectField("Class", "class", models.TravelClasses, f.Class),
			submit("Continue"),
		),
	))
}

type ConfirmacionProps struct {
	Trip     models.Trip
	Relation string
}

func ConfirmacionPage(p PageProps, cp ConfirmacionProps) templ.Component {
	return Component(layout(p,
		tripSummary(cp.Trip),
		form("/trips/confirm",
			h.Input(h.Type("hidden"), h.Name("trip_id"), h.Value(cp.Trip.ID)),
			selectField("Travelling with", "relation", models.CompanionRelations, cp.Relation),
			submit("Confirm"),
		),
	))
}

type PagoProps struct {
	Trip        models.Trip
	CardTypes   []string
	Months      []string
	Years       []string
	CardType    string
	Holder      string
	Month       string
	Year        string
	SnapEnabled bool
}

func PagoPage(p PageProps, pp PagoProps) templ.Component {
	return Component(layout(p,
		h.P(h.Class("total"), g.Textf("Total: $%s MXN", pp.Trip.Price)),
		form("/trips/pay",
			h.Input(h.Type("hidden"), h.Name("trip_id"), h.Value(pp.Trip.ID)),
			selectField("Card", "card_type", pp.CardTypes, pp.CardType),
			field("Card holder", "holder", "text", pp.Holder, h.Required()),
			field("Card number", "number", "text", "", h.Required(), h.AutoComplete("cc-number"), g.Attr("inputmode", "numeric")),
			selectField("Month", "month", pp.Months, pp.Month),
			selectField("Year", "year", pp.Years, pp.Year),
			field("CVV", "cvv", "password", "", h.Required(), h.MaxLength("4")),
			submit("Pay"),
		),
		g.If(pp.SnapEnabled, h.Section(
			h.Class("gateway"),
			h.P(g.Text("Or pay online:")),
			form("/trips/pay/snap",
				h.Input(h.Type("hidden"), h.Name("trip_id"), h.Value(pp.Trip.ID)),
				submit("Pay with Midtrans"),
			),
		)),
	))
}

func SeguimientoPage(p PageProps, trip *models.Trip) templ.Component {
	if trip == nil {
		return Component(layout(p, h.P(h.Class("empty"), g.Text("No saved trips."))))
	}
	return Component(layout(p, tripSummary(*trip)))
}

type HistorialProps struct {
	Trips  []models.Trip
	Filter string
	Query  string
}

func HistorialPage(p PageProps, hp HistorialProps) templ.Component {
	tab := func(value, label string) g.Node {
		cls := "tab"
		if hp.Filter == value {
			cls += " active"
		}
		href := Path(navigation.RouteHistorial) + "?filter=" + value
		return h.A(h.Class(cls), h.Href(href), g.Text(label))
	}

	return Component(layout(p,
		g.El("form",
			h.Method("get"), h.Action(Path(navigation.RouteHistorial)),
			h.Input(h.Type("hidden"), h.Name("filter"), h.Value(hp.Filter)),
			h.Input(h.Type("search"), h.Name("q"), h.Value(hp.Query), h.Placeholder("Search destination")),
		),
		h.Nav(
			h.Class("tabs"),
			tab("all", "All trips"),
			tab("current", "Current trips"),
			tab("past", "Past trips"),
		),
		h.H2(g.Textf("Trips (%d)", len(hp.Trips))),
		h.Ul(
			h.Class("trips"),
			g.Map(hp.Trips, func(t models.Trip) g.Node {
				return h.Li(
					h.Class("card trip"),
					h.Strong(g.Text(t.Destination)),
					h.Span(g.Text(t.DateRange())),
					h.Span(h.Class("status"), g.Text(string(t.Status))),
					linkButton(Path(navigation.RouteSeguimiento)+"?trip="+t.ID, "Track"),
				)
			}),
		),
	))
}

func tripSummary(t models.Trip) g.Node {
	returnDate := t.ReturnDate
	if returnDate == "" {
		returnDate = "-"
	}
	rows := [][2]string{
		{"Origin", t.Origin},
		{"Destination", t.Destination},
		{"Carrier", t.Carrier},
		{"Transport", t.Transport},
		{"Class", t.Class},
		{"Departure", t.DepartDate},
		{"Return", returnDate},
		{"Status", string(t.Status)},
	}
	return h.Section(
		h.Class("card trip-summary"),
		h.H2(g.Text(t.Name())),
		h.Dl(g.Map(rows, func(r [2]string) g.Node {
			return g.Group([]g.Node{h.Dt(g.Text(r[0])), h.Dd(g.Text(r[1]))})
		})),
		h.P(h.Class("total"), g.Text(fmt.Sprintf("Total: $%s MXN", t.Price))),
	)
}
