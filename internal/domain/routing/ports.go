package routing

// Router answers transport queries between locations.
// The engine depends on this port; Network is the production implementation.
type Router interface {
	// TransportTime returns the ticks goods need to travel from one location to another
	TransportTime(from, to string) (int, error)

	// Route returns the transport time together with the ordered location list
	Route(from, to string) (Route, error)
}

// Route is a resolved path between two locations
type Route struct {
	From  string
	To    string
	Ticks int
	// Path lists every location visited, both endpoints included
	Path []string
}
