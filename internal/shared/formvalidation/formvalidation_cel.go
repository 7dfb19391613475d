package formvalidation

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
)

var celProgramCache sync.Map

var newCELEnv = func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("value", cel.StringType),
		cel.Variable("values", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("number", cel.DoubleType),
	)
}

func compileExpr(expr string) (cel.Program, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("expression required")
	}
	if cached, ok := celProgramCache.Load(expr); ok {
		return cached.(cel.Program), nil
	}

	env, err := newCELEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, errors.New("expression must evaluate to a boolean")
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}

	celProgramCache.Store(expr, program)
	return program, nil
}

func evalExpr(program cel.Program, value string, values map[string]string, number float64) (bool, error) {
	if values == nil {
		values = map[string]string{}
	}
	out, _, err := program.Eval(map[string]any{
		"value":  value,
		"values": values,
		"number": number,
	})
	if err != nil {
		return false, err
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, errors.New("expression did not return a boolean")
	}
	return ok, nil
}
