package routing

import (
	"container/heap"
	"fmt"
	"slices"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/shared"
)

// Network is the precomputed all-pairs shortest path table of a corridor graph.
//
// The table is built once with Dijkstra from every location. Afterwards every
// query is a map lookup and the Network is safe for concurrent readers.
type Network struct {
	local map[string]int
	paths map[string]map[string]shortestPath
}

type shortestPath struct {
	cost int
	path []string
}

type neighbour struct {
	id   string
	cost int
}

// NewNetwork builds the routing table. Unknown corridor endpoints and a
// disconnected graph are configuration errors.
func NewNetwork(locations []catalog.Location, corridors []catalog.Corridor) (*Network, error) {
	n := &Network{
		local: make(map[string]int, len(locations)),
		paths: make(map[string]map[string]shortestPath, len(locations)),
	}
	for _, l := range locations {
		n.local[l.ID] = l.LocalTransport
	}

	adjacency := make(map[string][]neighbour, len(locations))
	for _, c := range corridors {
		if _, ok := n.local[c.From]; !ok {
			return nil, shared.NewConfigurationError("corridor", c.From+"-"+c.To, fmt.Sprintf("unknown location %q", c.From))
		}
		if _, ok := n.local[c.To]; !ok {
			return nil, shared.NewConfigurationError("corridor", c.From+"-"+c.To, fmt.Sprintf("unknown location %q", c.To))
		}
		if c.Cost < 0 {
			return nil, shared.NewConfigurationError("corridor", c.From+"-"+c.To, "negative cost")
		}
		adjacency[c.From] = append(adjacency[c.From], neighbour{id: c.To, cost: c.Cost})
		adjacency[c.To] = append(adjacency[c.To], neighbour{id: c.From, cost: c.Cost})
	}
	// Sorted adjacency keeps tie-breaking between equal-cost paths stable
	for id := range adjacency {
		slices.SortFunc(adjacency[id], func(a, b neighbour) int {
			if a.id != b.id {
				if a.id < b.id {
					return -1
				}
				return 1
			}
			return a.cost - b.cost
		})
	}

	ids := make([]string, 0, len(n.local))
	for id := range n.local {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, source := range ids {
		table := dijkstra(source, adjacency)
		if len(table) != len(ids) {
			for _, id := range ids {
				if _, ok := table[id]; !ok {
					return nil, shared.NewConfigurationError("network", source, fmt.Sprintf("location %q is unreachable", id))
				}
			}
		}
		n.paths[source] = table
	}
	return n, nil
}

// dijkstra computes the shortest path from source to every reachable location
func dijkstra(source string, adjacency map[string][]neighbour) map[string]shortestPath {
	dist := map[string]int{source: 0}
	prev := map[string]string{}
	done := map[string]bool{}

	pq := &frontier{{id: source, cost: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(frontierItem)
		if done[cur.id] {
			continue
		}
		done[cur.id] = true
		for _, nb := range adjacency[cur.id] {
			next := cur.cost + nb.cost
			if d, seen := dist[nb.id]; !seen || next < d {
				dist[nb.id] = next
				prev[nb.id] = cur.id
				heap.Push(pq, frontierItem{id: nb.id, cost: next})
			}
		}
	}

	table := make(map[string]shortestPath, len(dist))
	for id, cost := range dist {
		path := []string{id}
		for at := id; at != source; {
			at = prev[at]
			path = append(path, at)
		}
		slices.Reverse(path)
		table[id] = shortestPath{cost: cost, path: path}
	}
	return table
}

// TransportTime = local(from) + path cost + local(to); from == to is local(from) only
func (n *Network) TransportTime(from, to string) (int, error) {
	r, err := n.Route(from, to)
	if err != nil {
		return 0, err
	}
	return r.Ticks, nil
}

// Route returns the transport time and the full location list of the path
func (n *Network) Route(from, to string) (Route, error) {
	localFrom, ok := n.local[from]
	if !ok {
		return Route{}, fmt.Errorf("unknown location %q", from)
	}
	if from == to {
		return Route{From: from, To: to, Ticks: localFrom, Path: []string{from}}, nil
	}
	localTo, ok := n.local[to]
	if !ok {
		return Route{}, fmt.Errorf("unknown location %q", to)
	}
	sp := n.paths[from][to]
	return Route{
		From:  from,
		To:    to,
		Ticks: localFrom + sp.cost + localTo,
		Path:  slices.Clone(sp.path),
	}, nil
}

// PathCost is the corridor-only cost between two locations
func (n *Network) PathCost(from, to string) (int, bool) {
	sp, ok := n.paths[from][to]
	return sp.cost, ok
}

type frontierItem struct {
	id   string
	cost int
}

// frontier is a min-heap on cost, then location id
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].id < f[j].id
}
func (f frontier) Swap(i, j int)  { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)    { *f = append(*f, x.(frontierItem)) }
func (f *frontier) Pop() any {
	old := *f
	item := old[len(old)-1]
	*f = old[:len(old)-1]
	return item
}
