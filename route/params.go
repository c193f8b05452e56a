// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package route

import (
	"context"
	"strconv"
)

// Param is one decoded placeholder value.
type Param struct {
	Name  string
	Value string

	num   int64
	isInt bool
}

// Params holds the placeholder values of a matched route in path order.
type Params struct {
	list []Param
}

// Int returns the integer value of an {name:int} placeholder.
func (p Params) Int(name string) (int64, bool) {
	for _, param := range p.list {
		if param.Name == name && param.isInt {
			return param.num, true
		}
	}
	return 0, false
}

// String returns the raw text of any placeholder.
func (p Params) String(name string) (string, bool) {
	for _, param := range p.list {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

func (p Params) Len() int {
	return len(p.list)
}

// All returns a copy of the params in path order.
func (p Params) All() []Param {
	out := make([]Param, len(p.list))
	copy(out, p.list)
	return out
}

type matchKey struct{}

type matchInfo struct {
	name   string
	params Params
}

func withMatch(ctx context.Context, m Match) context.Context {
	return context.WithValue(ctx, matchKey{}, matchInfo{name: m.Name, params: m.Params})
}

// ParamsFrom returns the params stored by Table.ServeHTTP.
func ParamsFrom(ctx context.Context) Params {
	info, _ := ctx.Value(matchKey{}).(matchInfo)
	return info.params
}

// NameFrom returns the name of the route that is serving the request,
// or "" outside of a Table dispatch.
func NameFrom(ctx context.Context) string {
	info, _ := ctx.Value(matchKey{}).(matchInfo)
	return info.name
}

// IntParam builds an integer Param, for dispatching a handler without a Table.
func IntParam(name string, v int64) Param {
	return Param{Name: name, Value: strconv.FormatInt(v, 10), num: v, isInt: true}
}

// WithParams attaches params to ctx as if the named route had matched.
func WithParams(ctx context.Context, name string, params ...Param) context.Context {
	return withMatch(ctx, Match{Name: name, Params: Params{list: params}})
}
