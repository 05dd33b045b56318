package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrDivisionByZero     = fmt.Errorf("division by zero")
	ErrInvalidExpression  = fmt.Errorf("invalid expression")
	ErrDuplicateCommand   = fmt.Errorf("duplicate command name")
	ErrEmptyUsername      = fmt.Errorf("username cannot be empty")
	ErrUsernameTaken      = fmt.Errorf("username already taken")
	ErrRecipientNotFound  = fmt.Errorf("recipient not found or offline")
	ErrConnectionNotFound = fmt.Errorf("connection not found")
)
