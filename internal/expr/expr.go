/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package expr compiles the user's f(x) into a batch evaluator. Parsing and
// execution are delegated to expr-lang; this package only supplies the
// variable, the maths functions and the numeric result contract.
package expr

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var (
	ErrEmpty      = errors.New("no equation passed")
	ErrSyntax     = errors.New("error in expression")
	ErrNotNumeric = errors.New("expression does not evaluate to a number")
)

// Variable is the name of the free variable.
const Variable = "x"

var lhs = regexp.MustCompile(`^\s*(?:y|f\s*\(\s*x\s*\))\s*=\s*`)

// Expression is a compiled f(x). Evaluate is not safe for concurrent use
// on the same Expression.
type Expression struct {
	source  string
	program *vm.Program
	env     map[string]any
}

// Compile parses src. An optional "y =" or "f(x) =" prefix is accepted.
func Compile(src string) (*Expression, error) {
	body := strings.TrimSpace(lhs.ReplaceAllString(src, ""))
	if body == "" {
		return nil, ErrEmpty
	}
	env := newEnv()
	opts := append([]exprlang.Option{exprlang.Env(env)}, functions()...)
	program, err := exprlang.Compile(body, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	e := &Expression{source: body, program: program, env: env}
	// trial evaluation away from common singularities
	for _, x := range []float64{0.5, 1.5} {
		if _, err := e.At(x); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Source is the normalised expression text.
func (e *Expression) Source() string { return e.source }

func (e *Expression) String() string { return "f(x) = " + e.source }

// At evaluates f at one point.
func (e *Expression) At(x float64) (float64, error) {
	e.env[Variable] = x
	out, err := exprlang.Run(e.program, e.env)
	if err != nil {
		return math.NaN(), fmt.Errorf("evaluate at %g: %w", x, err)
	}
	y, ok := toFloat(out)
	if !ok {
		return math.NaN(), fmt.Errorf("%w: got %T", ErrNotNumeric, out)
	}
	return y, nil
}

// Evaluate maps every x to f(x). Points where evaluation fails yield NaN;
// the tessellator deals with those.
func (e *Expression) Evaluate(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i], _ = e.At(x)
	}
	return ys
}

func newEnv() map[string]any {
	return map[string]any{
		Variable: 0.0,
		"pi":     math.Pi,
		"e":      math.E,
		"tau":    2 * math.Pi,
	}
}

func unary(name string, f func(float64) float64) exprlang.Option {
	return exprlang.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		v, ok := toFloat(params[0])
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrNotNumeric)
		}
		return f(v), nil
	})
}

func binary(name string, f func(a, b float64) float64) exprlang.Option {
	return exprlang.Function(name, func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(params))
		}
		a, ok1 := toFloat(params[0])
		b, ok2 := toFloat(params[1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%s: %w", name, ErrNotNumeric)
		}
		return f(a, b), nil
	})
}

// functions are the maths helpers on top of expr-lang's builtins (abs,
// floor, ceil, round, min, max).
func functions() []exprlang.Option {
	return []exprlang.Option{
		unary("sin", math.Sin),
		unary("cos", math.Cos),
		unary("tan", math.Tan),
		unary("asin", math.Asin),
		unary("acos", math.Acos),
		unary("atan", math.Atan),
		unary("sinh", math.Sinh),
		unary("cosh", math.Cosh),
		unary("tanh", math.Tanh),
		unary("exp", math.Exp),
		unary("ln", math.Log),
		unary("log", math.Log10),
		unary("log2", math.Log2),
		unary("sqrt", math.Sqrt),
		unary("cbrt", math.Cbrt),
		unary("sign", sign),
		binary("pow", math.Pow),
		binary("atan2", math.Atan2),
		binary("hypot", math.Hypot),
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
