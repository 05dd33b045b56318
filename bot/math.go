package bot

import (
	"chat-relay/domain"
	"strings"
)

// MathHandler evaluates an arithmetic expression.
//
// Arguments are concatenated before evaluation: the expression may
// arrive as one token ("2+2") or split on spaces ("2 + 2").
type MathHandler struct{}

func (MathHandler) Name() string { return "math" }

func (MathHandler) Execute(args []string, _ domain.Caller) (string, error) {
	if len(args) == 0 {
		return "Usage: @server math <expression> (e.g., 2 + 3 * 4)", nil
	}

	result, err := Evaluate(strings.Join(args, ""))
	if err != nil {
		return "", err
	}
	return FormatResult(result), nil
}
