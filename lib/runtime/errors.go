package runtime

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTypeMismatch is matched by every *TypeMismatchError
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrArity is matched by every *ArityError
	ErrArity = errors.New("wrong number of arguments")
)

// TypeMismatchError reports a built-in called with a value of the wrong variant
type TypeMismatchError struct {
	Op   string
	Want []Tag
	Got  Tag
}

func (e *TypeMismatchError) Error() string {
	names := make([]string, len(e.Want))
	for i, t := range e.Want {
		names[i] = t.String()
	}
	want := strings.Join(names, ", ")
	if n := len(names); n > 1 {
		want = strings.Join(names[:n-1], ", ") + " or " + names[n-1]
	}
	article := "a"
	if want != "" && strings.IndexByte("aeiou", want[0]) >= 0 {
		article = "an"
	}
	return fmt.Sprintf("%s() argument must be %s %s, got %s", e.Op, article, want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func mismatch(op string, got Tag, want ...Tag) error {
	return &TypeMismatchError{Op: op, Want: want, Got: got}
}

// ArityError reports a function called with the wrong number of arguments
type ArityError struct {
	Name string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	name := e.Name
	if name == "" {
		name = "<function>"
	}
	return fmt.Sprintf("%s expects %d argument(s), got %d", name, e.Want, e.Got)
}

func (e *ArityError) Is(target error) bool {
	return target == ErrArity
}
