package filtering

import (
	"github.com/google/cel-go/cel"

	"mailtrace/internal/aggregation"
	"mailtrace/pkg/errors"
)

// Expression is a compiled CEL predicate over a delivery record. Available
// variables: id, sender, recipient, size, has_size, status, alternate_relay,
// process_id.
type Expression struct {
	program cel.Program
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("sender", cel.StringType),
		cel.Variable("recipient", cel.StringType),
		cel.Variable("size", cel.IntType),
		cel.Variable("has_size", cel.BoolType),
		cel.Variable("status", cel.StringType),
		cel.Variable("alternate_relay", cel.BoolType),
		cel.Variable("process_id", cel.StringType),
	)
}

// CompileExpression validates and compiles expr. A non-bool result type is
// rejected here, at the boundary, so evaluation never surprises the filter.
func CompileExpression(expr string) (*Expression, error) {
	env, err := newEnv()
	if err != nil {
		return nil, errors.ErrInternal.WithMessage("failed to create CEL environment").WithCause(err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.ErrInvalidCriteria.WithMessage("invalid filter expression").WithCause(issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.ErrInvalidCriteria.WithMessage("filter expression must return bool, got %v", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.ErrInvalidCriteria.WithMessage("failed to build filter expression").WithCause(err)
	}

	return &Expression{program: program}, nil
}

func (e *Expression) Eval(rec *aggregation.DeliveryRecord) (bool, error) {
	var size int64
	if rec.Size != nil {
		size = *rec.Size
	}

	result, _, err := e.program.Eval(map[string]interface{}{
		"id":              rec.ID,
		"sender":          rec.Sender,
		"recipient":       rec.Recipient,
		"size":            size,
		"has_size":        rec.Size != nil,
		"status":          string(rec.Status),
		"alternate_relay": rec.RoutedViaAlternateRelay,
		"process_id":      rec.ProcessID,
	})
	if err != nil {
		return false, err
	}

	ok, isBool := result.Value().(bool)
	if !isBool {
		return false, errors.ErrInvalidCriteria.WithMessage("filter expression did not return bool")
	}
	return ok, nil
}
