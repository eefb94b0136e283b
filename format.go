package consolelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

//	Value is whatever got passed to a console function, narrowed down to the three shapes the formatter cares about
type Value interface {
	value()
}

type String string

type ErrorValue struct {
	Name    string
	Message string
}

type Other struct {
	V any
}

func (String) value()     {}
func (ErrorValue) value() {}
func (Other) value()      {}

const unformattable = "<unformattable>"

//	Wrap classifies an arbitrary go value
func Wrap(val any) Value {
	switch val := val.(type) {
	case Value:
		return val
	case string:
		return String(val)
	case error:
		return wrapError(val)
	default:
		return Other{V: val}
	}
}

//	wrapError falls back to fmt coercion when the error methods panic, typed nil pointers being the usual case
func wrapError(err error) (result Value) {

	defer func() {
		if recover() != nil {
			result = String(fmt.Sprint(err))
		}
	}()

	return ErrorValue{Name: errorName(err), Message: err.Error()}
}

const maxUnwrapDepth = 100

func errorName(err error) string {

	//	unwrap fmt.Errorf chains so that the name points to the root error type
	for depth := 0; depth < maxUnwrapDepth; depth++ {
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}

	typ := reflect.TypeOf(err)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	switch typ.PkgPath() {
	case "errors", "fmt":
		return "Error"
	}

	if name := typ.Name(); name != "" {
		return name
	}

	return "Error"
}

//	Format turns a captured value into a display string. It never panics
func Format(val Value) (result string) {

	defer func() {
		if recover() != nil {
			result = unformattable
		}
	}()

	switch val := val.(type) {
	case String:
		return string(val)
	case ErrorValue:
		return val.Name + ": " + val.Message
	case Other:
		return formatOther(val.V)
	case nil:
		return formatOther(nil)
	default:
		return unformattable
	}
}

func formatOther(val any) (result string) {

	data, err := marshalSafe(val)
	if err == nil {
		return string(data)
	}

	//	fmt would recurse forever on a cyclic value
	var unsupported *json.UnsupportedValueError
	if errors.As(err, &unsupported) && strings.Contains(unsupported.Str, "cycle") {
		return fmt.Sprintf("[%T]", val)
	}

	defer func() {
		if recover() != nil {
			result = unformattable
		}
	}()

	if result = fmt.Sprint(val); result == "" {
		result = unformattable
	}

	return result
}

func marshalSafe(val any) (data []byte, err error) {

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("marshal panic: %v", rec)
		}
	}()

	return json.Marshal(val)
}

//	FormatArgs formats every argument in call order and joins them with a space
func FormatArgs(args ...any) string {

	parts := make([]string, len(args))
	for idx, arg := range args {
		parts[idx] = Format(Wrap(arg))
	}

	return strings.Join(parts, " ")
}
