package stationgraph

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/aktarma/aktarma/pkg/tcdd"
)

// Gateway is the slice of the schedule gateway the graph builder needs.
type Gateway interface {
	FetchStationPairs(ctx context.Context) ([]tcdd.StationPair, error)
}

// Node is one station and the set of stations it has through-service to.
type Node struct {
	StationID   int
	StationName string

	connections map[int]bool
}

// Connections returns the connected station ids in ascending order.
func (n *Node) Connections() []int {
	ids := make([]int, 0, len(n.connections))
	for id := range n.connections {
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return ids
}

// Graph is the station connectivity graph built from the adjacency feed.
// Construction is lazy and memoized; the built graph is immutable until
// Reset.
type Graph struct {
	gateway Gateway

	mutex       sync.Mutex
	nodes       map[int]*Node
	initialized bool
}

func NewGraph(gateway Gateway) *Graph {
	return &Graph{
		gateway: gateway,
		nodes:   map[int]*Node{},
	}
}

func (g *Graph) ensureInitialized(ctx context.Context) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.initialized {
		return nil
	}

	pairs, err := g.gateway.FetchStationPairs(ctx)
	if err != nil {
		return err
	}

	g.nodes = map[int]*Node{}

	for _, pair := range pairs {
		if len(pair.Pairs) == 0 {
			continue
		}

		node := &Node{
			StationID:   pair.ID,
			StationName: pair.Name,
			connections: map[int]bool{},
		}

		for _, connectedID := range pair.Pairs {
			node.connections[connectedID] = true
		}

		g.nodes[pair.ID] = node
	}

	// The feed is directional and incomplete: if A lists B, make sure B
	// also lists A. Union with whatever the feed already gave us.
	for stationID, node := range g.nodes {
		for connectedID := range node.connections {
			reverseNode := g.nodes[connectedID]
			if reverseNode == nil {
				reverseNode = &Node{
					StationID:   connectedID,
					connections: map[int]bool{},
				}
				g.nodes[connectedID] = reverseNode
			}

			reverseNode.connections[stationID] = true
		}
	}

	log.Debug().Int("stations", len(g.nodes)).Msg("Built station connectivity graph")

	g.initialized = true

	return nil
}

// ConnectionsOf returns the ids of every station directly connected to the
// given station.
func (g *Graph) ConnectionsOf(ctx context.Context, stationID int) ([]int, error) {
	if err := g.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	node := g.nodes[stationID]
	if node == nil {
		return nil, nil
	}

	return node.Connections(), nil
}

func (g *Graph) IsDirectlyConnected(ctx context.Context, fromID int, toID int) (bool, error) {
	if err := g.ensureInitialized(ctx); err != nil {
		return false, err
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	node := g.nodes[fromID]
	return node != nil && node.connections[toID], nil
}

// TransferCandidates returns stations connected to both the origin and the
// destination - the hub candidates for a one-transfer itinerary.
func (g *Graph) TransferCandidates(ctx context.Context, fromID int, toID int) ([]int, error) {
	if err := g.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode := g.nodes[fromID]
	toNode := g.nodes[toID]
	if fromNode == nil || toNode == nil {
		return nil, nil
	}

	var candidates []int
	for connectedID := range fromNode.connections {
		if connectedID == fromID || connectedID == toID {
			continue
		}

		candidateNode := g.nodes[connectedID]
		if candidateNode != nil && candidateNode.connections[toID] {
			candidates = append(candidates, connectedID)
		}
	}

	slices.Sort(candidates)
	return candidates, nil
}

// StationName returns the display name the adjacency feed carries for a
// station, or empty when the graph has no such node.
func (g *Graph) StationName(ctx context.Context, stationID int) string {
	if err := g.ensureInitialized(ctx); err != nil {
		return ""
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	node := g.nodes[stationID]
	if node == nil {
		return ""
	}

	return node.StationName
}

// HasNode reports whether the station appears in the adjacency feed at
// all.
func (g *Graph) HasNode(ctx context.Context, stationID int) (bool, error) {
	if err := g.ensureInitialized(ctx); err != nil {
		return false, err
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	return g.nodes[stationID] != nil, nil
}

// Reset drops the built graph so the next call rebuilds it from a fresh
// feed fetch.
func (g *Graph) Reset() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.nodes = map[int]*Node{}
	g.initialized = false
}
