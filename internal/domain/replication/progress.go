package replication

import "fmt"

// ProgressFunc receives a one-line textual progress message before and
// after each meaningful replication step. It is purely observational and
// never affects control flow.
type ProgressFunc func(message string)

// Emit formats and delivers a progress message. A nil sink drops it.
func (f ProgressFunc) Emit(format string, args ...any) {
	if f == nil {
		return
	}
	f(fmt.Sprintf(format, args...))
}
