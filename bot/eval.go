package bot

import (
	apperrors "chat-relay/errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Evaluate computes a flat arithmetic expression: non-negative decimal
// numbers separated by the binary operators + - * /. No parentheses,
// no unary minus. Whitespace is stripped before tokenizing.
//
// Precedence is handled in two passes: multiplication and division are
// folded left to right first, then addition and subtraction over what
// remains. An empty expression evaluates to 0.
func Evaluate(expression string) (float64, error) {
	numbers, operators, err := tokenize(expression)
	if err != nil {
		return 0, err
	}
	if len(numbers) == 0 {
		return 0, nil
	}
	if len(numbers) != len(operators)+1 {
		return 0, fmt.Errorf("%w: operand and operator counts do not match",
			apperrors.ErrInvalidExpression)
	}

	// Pass 1: reduce * and / in place, rescanning the same index after
	// each fold so chains like 2*3*4 collapse left to right.
	for i := 0; i < len(operators); {
		op := operators[i]
		if op != '*' && op != '/' {
			i++
			continue
		}
		left, right := numbers[i], numbers[i+1]
		var folded float64
		if op == '*' {
			folded = left * right
		} else {
			if right == 0 {
				return 0, apperrors.ErrDivisionByZero
			}
			folded = left / right
		}
		numbers[i] = folded
		numbers = append(numbers[:i+1], numbers[i+2:]...)
		operators = append(operators[:i], operators[i+1:]...)
	}

	// Pass 2: fold + and - strictly left to right.
	result := numbers[0]
	for i, op := range operators {
		if op == '+' {
			result += numbers[i+1]
		} else {
			result -= numbers[i+1]
		}
	}
	return result, nil
}

// FormatResult renders a result without a fractional part when it is
// mathematically integral, so 2.5+2.5 prints as 5.
func FormatResult(result float64) string {
	if result == math.Trunc(result) && !math.IsInf(result, 0) {
		return strconv.FormatInt(int64(result), 10)
	}
	return strconv.FormatFloat(result, 'f', -1, 64)
}

func tokenize(expression string) ([]float64, []rune, error) {
	var numbers []float64
	var operators []rune
	var buf strings.Builder

	flush := func() error {
		if buf.Len() == 0 {
			return nil
		}
		n, err := strconv.ParseFloat(buf.String(), 64)
		if err != nil {
			return fmt.Errorf("%w: bad number %q", apperrors.ErrInvalidExpression, buf.String())
		}
		numbers = append(numbers, n)
		buf.Reset()
		return nil
	}

	for _, c := range expression {
		switch {
		case unicode.IsSpace(c):
			// Whitespace carries no meaning in the grammar.
		case unicode.IsDigit(c) || c == '.':
			buf.WriteRune(c)
		case c == '+' || c == '-' || c == '*' || c == '/':
			if buf.Len() == 0 {
				return nil, nil, fmt.Errorf("%w: operator %q has no left operand",
					apperrors.ErrInvalidExpression, string(c))
			}
			if err := flush(); err != nil {
				return nil, nil, err
			}
			operators = append(operators, c)
		default:
			return nil, nil, fmt.Errorf("%w: invalid character %q",
				apperrors.ErrInvalidExpression, string(c))
		}
	}
	if err := flush(); err != nil {
		return nil, nil, err
	}
	return numbers, operators, nil
}
