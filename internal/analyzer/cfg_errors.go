package analyzer

import "fmt"

// UnboundJumpError reports a break or continue statement with no enclosing
// loop. The input is structurally invalid and no graph is produced.
type UnboundJumpError struct {
	Keyword string
	Line    int
}

func (e *UnboundJumpError) Error() string {
	return fmt.Sprintf("invalid %q outside loop at line %d", e.Keyword, e.Line)
}

// InvalidReturnError reports a return statement outside any function, or
// written directly in a class body. The input is structurally invalid and no
// graph is produced.
type InvalidReturnError struct {
	Line int
}

func (e *InvalidReturnError) Error() string {
	return fmt.Sprintf("invalid return outside of a function at line %d", e.Line)
}
