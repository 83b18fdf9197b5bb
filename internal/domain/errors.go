package domain

import "errors"

var (
	ErrIO         = errors.New("io error")
	ErrParse      = errors.New("parse error")
	ErrStructure  = errors.New("structure error")
	ErrValidation = errors.New("validation error")
	ErrProtocol   = errors.New("protocol error")
	ErrBusy       = errors.New("request is in process")
)
