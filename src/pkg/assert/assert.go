package assert

import "fmt"

// Assert panics with the formatted message when the condition is violated.
// Reserved for programming errors, never for expected runtime failures.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

func NoError(err error) {
	if err != nil {
		panic(err)
	}
}
