/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package config

import "sort"

// ServerConfiguration is an immutable bag of entries resulting from a
// merge of a site-wide config with host and path filters.
type ServerConfiguration struct {
	Filter  Filter
	Entries []Entry
}

// Get returns the Entry with the given name, or false if absent.
func (c ServerConfiguration) Get(name string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func (c ServerConfiguration) GetString(name, def string) string {
	if e, ok := c.Get(name); ok && len(e.Values) > 0 {
		return e.First().String()
	}
	return def
}

func (c ServerConfiguration) GetBool(name string, def bool) bool {
	if e, ok := c.Get(name); ok && len(e.Values) > 0 && e.First().Kind == KindBool {
		return e.First().Bool
	}
	return def
}

func (c ServerConfiguration) GetInt(name string, def int64) int64 {
	if e, ok := c.Get(name); ok && len(e.Values) > 0 && e.First().Kind == KindInt {
		return e.First().Int
	}
	return def
}

func (c ServerConfiguration) GetList(name string) []Value {
	if e, ok := c.Get(name); ok {
		return e.Values
	}
	return nil
}

// Set is a construction helper; it does not mutate existing entries.
func (c ServerConfiguration) Set(name string, values ...Value) ServerConfiguration {
	out := make([]Entry, 0, len(c.Entries)+1)
	replaced := false
	for _, e := range c.Entries {
		if e.Name == name {
			out = append(out, Entry{Name: name, Values: values})
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, Entry{Name: name, Values: values})
	}
	c.Entries = out
	return c
}

// Root holds every ServerConfiguration discovered in a configuration
// source, from the global (filter-less) entry down to the most specific
// host+path overlay.
type Root struct {
	Configurations []ServerConfiguration
}

// Select picks every ServerConfiguration whose filter matches the given
// request facets, ordered from least to most specific, and overlays them:
// ordered-list entries concatenate in increasing priority, scalar entries
// are overwritten by the more specific configuration. The result is
// deterministic regardless of the iteration order of Root.Configurations.
func (r Root) Select(ip, host string, port int, path string) ServerConfiguration {
	matched := make([]ServerConfiguration, 0, len(r.Configurations))
	for _, c := range r.Configurations {
		if c.Filter.IsGlobal() || c.Filter.Matches(ip, host, port, path) {
			matched = append(matched, c)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Filter.specificity() < matched[j].Filter.specificity()
	})

	out := ServerConfiguration{}
	for _, c := range matched {
		out = overlay(out, c)
	}
	return out
}

// overlay applies `more` (more specific) on top of `base` (less specific).
func overlay(base, more ServerConfiguration) ServerConfiguration {
	result := ServerConfiguration{Filter: more.Filter}
	byName := make(map[string]Entry, len(base.Entries)+len(more.Entries))
	order := make([]string, 0, len(base.Entries)+len(more.Entries))

	for _, e := range base.Entries {
		byName[e.Name] = e
		order = append(order, e.Name)
	}

	for _, e := range more.Entries {
		if prev, ok := byName[e.Name]; ok {
			if prev.IsList() || e.IsList() {
				merged := Entry{Name: e.Name}
				merged.Values = append(merged.Values, prev.Values...)
				merged.Values = append(merged.Values, e.Values...)
				byName[e.Name] = merged
			} else {
				byName[e.Name] = e // scalar: more specific wins
			}
		} else {
			byName[e.Name] = e
			order = append(order, e.Name)
		}
	}

	result.Entries = make([]Entry, 0, len(order))
	for _, n := range order {
		result.Entries = append(result.Entries, byName[n])
	}
	return result
}
