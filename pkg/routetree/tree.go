package routetree

import (
	"fmt"
	"strings"
)

// Route describes a registered route. Routes are immutable after Add;
// request-time matching never mutates the tree.
type Route struct {
	// Pattern is the path pattern, e.g. "/product/:id" or "/docs/*rest".
	Pattern string

	// FetcherID optionally names the data fetcher associated with this route.
	FetcherID string

	// Children are nested routes whose patterns are relative to this one.
	Children []Route
}

// Match is the result of resolving a path against the tree.
type Match struct {
	// Pattern is the registered pattern that matched.
	Pattern string

	// FetcherID is the fetcher reference of the matched route.
	FetcherID string

	// Params holds extracted parameter values, keyed by parameter name.
	Params map[string]string
}

// Tree is a radix tree of routes. Safe for concurrent reads after all Add
// calls complete.
type Tree struct {
	root *node
}

// node is a node in the radix tree.
type node struct {
	// segment is the path segment this node matches
	segment string

	// isParam indicates this is a parameter segment (:id)
	isParam bool

	// isCatchAll indicates this is a catch-all segment (*rest)
	isCatchAll bool

	// paramName is the parameter name (without : or *)
	paramName string

	// route is set when a route terminates at this node
	route *Route

	// children are static segment children
	children []*node

	// paramChild is the dynamic parameter child (:id)
	paramChild *node

	// catchAllChild is the catch-all child (*rest)
	catchAllChild *node
}

// New creates an empty route tree.
func New() *Tree {
	return &Tree{root: &node{}}
}

// Add inserts a route and its children into the tree. It returns an error
// if a pattern terminates at a node that already has a route.
func (t *Tree) Add(route Route) error {
	return t.add(route, "")
}

func (t *Tree) add(route Route, prefix string) error {
	pattern := joinPatterns(prefix, route.Pattern)

	n := t.root.insert(pattern)
	if n.route != nil {
		return fmt.Errorf("routetree: duplicate route %q", pattern)
	}
	r := route
	r.Pattern = pattern
	r.Children = nil
	n.route = &r

	for _, child := range route.Children {
		if err := t.add(child, pattern); err != nil {
			return err
		}
	}
	return nil
}

// JoinPatterns joins a parent and child pattern the same way nested routes
// are flattened during Add.
func JoinPatterns(prefix, pattern string) string {
	return joinPatterns(prefix, pattern)
}

// Match resolves a canonical path against the tree.
func (t *Tree) Match(path string) (*Match, bool) {
	params := make(map[string]string)
	n, ok := t.root.match(splitPath(path), params)
	if !ok || n.route == nil {
		return nil, false
	}
	return &Match{
		Pattern:   n.route.Pattern,
		FetcherID: n.route.FetcherID,
		Params:    params,
	}, true
}

// findChild finds a child node with an exact segment match.
func (n *node) findChild(segment string) *node {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a child node for the given segment.
func (n *node) addChild(segment string) *node {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &node{segment: segment}
	n.children = append(n.children, child)
	return child
}

// addParamChild sets the parameter child node.
func (n *node) addParamChild(name string) *node {
	if n.paramChild != nil {
		return n.paramChild
	}
	child := &node{isParam: true, paramName: name}
	n.paramChild = child
	return child
}

// addCatchAllChild sets the catch-all child node.
func (n *node) addCatchAllChild(name string) *node {
	if n.catchAllChild != nil {
		return n.catchAllChild
	}
	child := &node{isCatchAll: true, paramName: name}
	n.catchAllChild = child
	return child
}

// insert adds a pattern to the tree and returns its terminal node.
func (n *node) insert(pattern string) *node {
	current := n
	for _, seg := range splitPath(pattern) {
		if strings.HasPrefix(seg, "*") {
			// Catch-all consumes the rest of the path.
			current = current.addCatchAllChild(seg[1:])
			break
		} else if strings.HasPrefix(seg, ":") {
			current = current.addParamChild(seg[1:])
		} else {
			current = current.addChild(seg)
		}
	}
	return current
}

// match finds a node matching the given path segments, filling params as it
// descends and backtracking on failed parameter matches.
func (n *node) match(segments []string, params map[string]string) (*node, bool) {
	if len(segments) == 0 {
		if n.route != nil {
			return n, true
		}
		return nil, false
	}

	segment := segments[0]
	remaining := segments[1:]

	// Exact match first.
	if child := n.findChild(segment); child != nil {
		if found, ok := child.match(remaining, params); ok {
			return found, true
		}
	}

	// Parameter match.
	if n.paramChild != nil {
		params[n.paramChild.paramName] = segment
		if found, ok := n.paramChild.match(remaining, params); ok {
			return found, true
		}
		// Backtrack on failure.
		delete(params, n.paramChild.paramName)
	}

	// Catch-all match.
	if n.catchAllChild != nil {
		params[n.catchAllChild.paramName] = strings.Join(segments, "/")
		return n.catchAllChild, true
	}

	return nil, false
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// joinPatterns joins a parent pattern and a child pattern.
func joinPatterns(prefix, pattern string) string {
	if prefix == "" {
		if pattern == "" {
			return "/"
		}
		if !strings.HasPrefix(pattern, "/") {
			return "/" + pattern
		}
		return pattern
	}
	joined := strings.TrimSuffix(prefix, "/") + "/" + strings.Trim(pattern, "/")
	return strings.TrimSuffix(joined, "/")
}
