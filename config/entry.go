/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package config models the effective-configuration data model: a bag of
// named, multi-valued entries overlaid by hostname/ip/location filters.
package config

import "strconv"

// ValueKind classifies a Value's underlying type.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindBool
)

// Value is one typed scalar held by an Entry's ordered value list.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
	Bool bool
}

func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Int(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func Null() Value           { return Value{Kind: KindNull} }

func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Entry is a named, ordered, possibly multi-valued configuration entry.
// The same Name may occur in several overlaid configurations; ordered
// lists are concatenated on merge, scalar entries (single value) are
// overwritten by the more specific configuration.
type Entry struct {
	Name   string
	Values []Value
}

func (e Entry) IsList() bool { return len(e.Values) > 1 }

func (e Entry) First() Value {
	if len(e.Values) == 0 {
		return Null()
	}
	return e.Values[0]
}
