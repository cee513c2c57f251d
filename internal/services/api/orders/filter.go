package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/services/api/storage"
	"go.einride.tech/aip/filtering"
	"go.einride.tech/aip/ordering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// filterColumn describes one filterable order field.
type filterColumn struct {
	column string
	kind   *expr.Type
}

var filterFields = map[string]filterColumn{
	"status":         {column: "status", kind: filtering.TypeString},
	"email":          {column: "email", kind: filtering.TypeString},
	"city":           {column: "city", kind: filtering.TypeString},
	"user_id":        {column: "user_id", kind: filtering.TypeString},
	"payment_method": {column: "payment_method", kind: filtering.TypeString},
	"is_guest":       {column: "is_guest", kind: filtering.TypeBool},
	"total":          {column: "total", kind: filtering.TypeFloat},
	"created_at":     {column: "created_at", kind: filtering.TypeTimestamp},
}

// orderByPaths lists the fields accepted by order_by.
var orderByPaths = []string{"created_at", "total", "status"}

// FilterDeclarations returns the field declarations for order filtering.
func FilterDeclarations() (*filtering.Declarations, error) {
	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for name, field := range filterFields {
		opts = append(opts, filtering.DeclareIdent(name, field.kind))
	}
	return filtering.NewDeclarations(opts...)
}

// ParseFilter parses an AIP-160 filter expression into a SQL condition.
// An empty filter yields an empty condition.
func ParseFilter(filterStr string) (storage.SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return storage.SQLCondition{}, nil
	}

	decls, err := FilterDeclarations()
	if err != nil {
		return storage.SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}

	filter, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return storage.SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}

	return translateExpr(filter.CheckedExpr.Expr)
}

// ParseOrderBy parses an AIP-132 order_by string over the sortable order
// fields.
func ParseOrderBy(orderBy string) ([]storage.OrderField, error) {
	if strings.TrimSpace(orderBy) == "" {
		return nil, nil
	}
	var ob ordering.OrderBy
	if err := ob.UnmarshalString(orderBy); err != nil {
		return nil, fmt.Errorf("parse order_by: %w", err)
	}
	if err := ob.ValidateForPaths(orderByPaths...); err != nil {
		return nil, fmt.Errorf("validate order_by: %w", err)
	}
	fields := make([]storage.OrderField, 0, len(ob.Fields))
	for _, field := range ob.Fields {
		fields = append(fields, storage.OrderField{Column: field.Path, Desc: field.Desc})
	}
	return fields, nil
}

func translateExpr(e *expr.Expr) (storage.SQLCondition, error) {
	if e == nil {
		return storage.SQLCondition{}, nil
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return translateCall(kind.CallExpr)
	default:
		return storage.SQLCondition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func translateCall(call *expr.Expr_Call) (storage.SQLCondition, error) {
	switch call.Function {
	case filtering.FunctionAnd, "_&&_":
		return translateJunction(call.Args, "AND")
	case filtering.FunctionOr, "_||_":
		return translateJunction(call.Args, "OR")
	case filtering.FunctionNot, "!_":
		return translateNot(call.Args)
	case filtering.FunctionEquals, "_==_":
		return translateComparison(call.Args, "=")
	case filtering.FunctionNotEquals, "_!=_":
		return translateComparison(call.Args, "!=")
	case filtering.FunctionLessThan, "_<_":
		return translateComparison(call.Args, "<")
	case filtering.FunctionLessEquals, "_<=_":
		return translateComparison(call.Args, "<=")
	case filtering.FunctionGreaterThan, "_>_":
		return translateComparison(call.Args, ">")
	case filtering.FunctionGreaterEquals, "_>=_":
		return translateComparison(call.Args, ">=")
	default:
		return storage.SQLCondition{}, fmt.Errorf("unsupported function: %s", call.Function)
	}
}

func translateJunction(args []*expr.Expr, op string) (storage.SQLCondition, error) {
	if len(args) < 2 {
		return storage.SQLCondition{}, fmt.Errorf("%s requires at least 2 arguments", op)
	}

	clauses := make([]string, 0, len(args))
	var params []any
	for _, arg := range args {
		cond, err := translateExpr(arg)
		if err != nil {
			return storage.SQLCondition{}, err
		}
		clauses = append(clauses, cond.Clause)
		params = append(params, cond.Params...)
	}

	return storage.SQLCondition{
		Clause: "(" + strings.Join(clauses, " "+op+" ") + ")",
		Params: params,
	}, nil
}

func translateNot(args []*expr.Expr) (storage.SQLCondition, error) {
	if len(args) != 1 {
		return storage.SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
	}
	inner, err := translateExpr(args[0])
	if err != nil {
		return storage.SQLCondition{}, err
	}
	return storage.SQLCondition{Clause: "NOT " + inner.Clause, Params: inner.Params}, nil
}

func translateComparison(args []*expr.Expr, op string) (storage.SQLCondition, error) {
	if len(args) != 2 {
		return storage.SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	name, err := extractFieldName(args[0])
	if err != nil {
		return storage.SQLCondition{}, err
	}

	field, ok := filterFields[name]
	if !ok {
		return storage.SQLCondition{}, fmt.Errorf("unknown field: %s", name)
	}

	value, err := extractValue(args[1])
	if err != nil {
		return storage.SQLCondition{}, err
	}

	// is_guest is stored as 0/1.
	if b, ok := value.(bool); ok {
		if b {
			value = 1
		} else {
			value = 0
		}
	}

	return storage.SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", field.column, op),
		Params: []any{value},
	}, nil
}

func extractFieldName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.Name, nil
	default:
		return "", fmt.Errorf("expected identifier, got %T", kind)
	}
}

func extractValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}

	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		return extractConstValue(kind.ConstExpr)
	case *expr.Expr_CallExpr:
		if kind.CallExpr.Function == filtering.FunctionTimestamp && len(kind.CallExpr.Args) == 1 {
			return extractTimestampValue(kind.CallExpr.Args[0])
		}
		return nil, fmt.Errorf("unsupported function in value position: %s", kind.CallExpr.Function)
	default:
		return nil, fmt.Errorf("expected constant or timestamp, got %T", kind)
	}
}

func extractConstValue(c *expr.Constant) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("nil constant")
	}

	switch kind := c.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

// extractTimestampValue returns unix milliseconds to match the stored
// created_at column.
func extractTimestampValue(e *expr.Expr) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("nil timestamp argument")
	}

	kind, ok := e.ExprKind.(*expr.Expr_ConstExpr)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a constant string")
	}
	strVal, ok := kind.ConstExpr.ConstantKind.(*expr.Constant_StringValue)
	if !ok {
		return 0, fmt.Errorf("timestamp argument must be a string")
	}
	t, err := time.Parse(time.RFC3339Nano, strVal.StringValue)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp format: %s", strVal.StringValue)
	}
	return t.UTC().UnixMilli(), nil
}
