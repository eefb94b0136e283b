package consolelog

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type parseError struct {
	msg string
}

func (this *parseError) Error() string {
	return this.msg
}

type selfWrapError struct{}

func (this selfWrapError) Error() string {
	return "loop"
}

func (this selfWrapError) Unwrap() error {
	return this
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "hello world", Format(String("hello world")))
	assert.Equal(t, "", Format(String("")))
}

func TestFormatErrorValue(t *testing.T) {
	assert.Equal(t, "TypeError: x", Format(ErrorValue{Name: "TypeError", Message: "x"}))
}

func TestFormatOther(t *testing.T) {
	assert.Equal(t, `{"a":1}`, Format(Other{V: map[string]int{"a": 1}}))
	assert.Equal(t, `[1,2,3]`, Format(Other{V: []int{1, 2, 3}}))
	assert.Equal(t, `42`, Format(Other{V: 42}))
	assert.Equal(t, `null`, Format(Other{V: nil}))
	assert.Equal(t, `true`, Format(Other{V: true}))
}

func TestFormatUnserializable(t *testing.T) {

	t.Run("channel", func(t *testing.T) {
		out := Format(Other{V: make(chan int)})
		assert.NotEmpty(t, out)
	})

	t.Run("nan", func(t *testing.T) {
		assert.Equal(t, "NaN", Format(Other{V: math.NaN()}))
	})

	t.Run("cycle", func(t *testing.T) {
		cyclic := map[string]any{}
		cyclic["self"] = cyclic
		assert.Equal(t, "[map[string]interface {}]", Format(Other{V: cyclic}))
	})

	t.Run("func in map", func(t *testing.T) {
		out := Format(Other{V: map[string]any{"fn": func() {}}})
		assert.Contains(t, out, "map[fn:")
	})
}

func TestWrap(t *testing.T) {

	assert.Equal(t, String("text"), Wrap("text"))
	assert.Equal(t, ErrorValue{Name: "Error", Message: "plain"}, Wrap(errors.New("plain")))
	assert.Equal(t, ErrorValue{Name: "parseError", Message: "bad token"}, Wrap(&parseError{msg: "bad token"}))

	wrapped := fmt.Errorf("loading config: %w", &parseError{msg: "bad token"})
	assert.Equal(t, ErrorValue{Name: "parseError", Message: "loading config: bad token"}, Wrap(wrapped))

	assert.Equal(t, Other{V: 5}, Wrap(5))
	assert.Equal(t, ErrorValue{Name: "TypeError", Message: "x"}, Wrap(ErrorValue{Name: "TypeError", Message: "x"}))
}

func TestFormatArgs(t *testing.T) {
	assert.Equal(t, "", FormatArgs())
	assert.Equal(t, "user 42 {\"id\":1}", FormatArgs("user", 42, map[string]int{"id": 1}))
	assert.Equal(t, "failed Error: boom", FormatArgs("failed", errors.New("boom")))
}

func TestFormatArgsTypedNilError(t *testing.T) {

	var err *parseError

	assert.NotPanics(t, func() {
		assert.Equal(t, "failed <nil>", FormatArgs("failed", err))
	})

	assert.Equal(t, String("<nil>"), Wrap(err))
}

func TestFormatArgsSelfUnwrappingError(t *testing.T) {

	done := make(chan string, 1)
	go func() {
		done <- FormatArgs(selfWrapError{})
	}()

	select {
	case out := <-done:
		assert.Equal(t, "selfWrapError: loop", out)
	case <-time.After(2 * time.Second):
		t.Fatal("FormatArgs did not return for an error that unwraps to itself")
	}
}
