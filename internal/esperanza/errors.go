package esperanza

import "fmt"

// panicf raises a contract-violation panic from inside a process_* function.
// process_* functions are only reachable after the matching validate_*
// passed, so reaching here means a caller skipped validation or state was
// corrupted -- not a condition validate_* can reject gracefully (§4.1
// "Failure semantics").
func panicf(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
