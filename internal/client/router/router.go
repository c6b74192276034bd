// Package router maps URL-style paths such as "/document/42?x=1" to
// handlers. Patterns are literal segments and ":name" placeholders; the
// router holds no state beyond its table.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

var ErrNoRoute = errors.New("no route")

// Params carries the placeholder values and the query string of a resolved
// path.
type Params struct {
	Path  string
	Vars  map[string]string
	Query url.Values
}

func (p Params) Var(name string) string {
	return p.Vars[name]
}

// Int64 parses a placeholder as a positive integer id.
func (p Params) Int64(name string) (int64, error) {
	n, err := strconv.ParseInt(p.Vars[name], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, p.Vars[name])
	}
	return n, nil
}

type Handler[T any] func(Params) T

type route[T any] struct {
	pattern  string
	segments []string
	statics  int
	handler  Handler[T]
}

type Router[T any] struct {
	routes []route[T]
}

func New[T any]() *Router[T] {
	return &Router[T]{}
}

// Handle registers h for pattern. When several patterns match a path, the
// one with more literal segments wins.
func (r *Router[T]) Handle(pattern string, h Handler[T]) {
	segs := split(Clean(pattern))
	statics := 0
	for _, s := range segs {
		if !strings.HasPrefix(s, ":") {
			statics++
		}
	}
	r.routes = append(r.routes, route[T]{pattern: pattern, segments: segs, statics: statics, handler: h})
}

// Patterns lists registered patterns in registration order.
func (r *Router[T]) Patterns() []string {
	out := make([]string, len(r.routes))
	for i, rt := range r.routes {
		out[i] = rt.pattern
	}
	return out
}

// Resolve finds the handler for raw and invokes it.
func (r *Router[T]) Resolve(raw string) (T, Params, error) {
	var zero T

	u, err := url.Parse(raw)
	if err != nil {
		return zero, Params{}, fmt.Errorf("%w: %v", ErrNoRoute, err)
	}
	p := Params{Path: Clean(u.Path), Query: u.Query()}
	segs := split(p.Path)

	best := -1
	for i, rt := range r.routes {
		vars, ok := match(rt.segments, segs)
		if !ok || (best >= 0 && rt.statics <= r.routes[best].statics) {
			continue
		}
		best = i
		p.Vars = vars
	}
	if best < 0 {
		return zero, p, fmt.Errorf("%w: %s", ErrNoRoute, p.Path)
	}
	return r.routes[best].handler(p), p, nil
}

// Clean normalises a path: leading slash, no trailing slash, "/" for empty.
func Clean(p string) string {
	p = path.Clean("/" + p)
	return p
}

func split(p string) []string {
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}

func match(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	vars := map[string]string{}
	for i, ps := range pattern {
		if name, ok := strings.CutPrefix(ps, ":"); ok {
			if segs[i] == "" {
				return nil, false
			}
			vars[name] = segs[i]
			continue
		}
		if ps != segs[i] {
			return nil, false
		}
	}
	return vars, true
}
