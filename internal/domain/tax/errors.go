package tax

import "errors"

var (
	ErrSettingsNotFound     = errors.New("tax settings not found")
	ErrUnknownTaxStatus     = errors.New("unknown tax status")
	ErrInvalidBracketConfig = errors.New("invalid tax bracket configuration")
	ErrEmployeeNotFound     = errors.New("employee not found")
)
