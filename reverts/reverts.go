// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert so callers can react without parsing messages.
type Kind uint8

const (
	KindGeneric Kind = iota
	KindUnauthorized
	KindLocked
	KindOverflow
	KindInsufficientFunds
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindLocked:
		return "locked"
	case KindOverflow:
		return "overflow"
	case KindInsufficientFunds:
		return "insufficient-funds"
	default:
		return "revert"
	}
}

// ErrRevert is an operation failure surfaced to the caller. The pool state is
// left exactly as it was before the failed call.
type ErrRevert struct {
	kind    Kind
	message string
}

var (
	ErrUnauthorized      = &ErrRevert{kind: KindUnauthorized, message: "unauthorized action"}
	ErrLocked            = &ErrRevert{kind: KindLocked, message: "funds are still locked"}
	ErrOverflow          = &ErrRevert{kind: KindOverflow, message: "reward rate would overflow accumulator"}
	ErrInsufficientFunds = &ErrRevert{kind: KindInsufficientFunds, message: "insufficient funds"}
)

func New(message string) *ErrRevert {
	return &ErrRevert{
		kind:    KindGeneric,
		message: message,
	}
}

// Newf returns a revert of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches reverts by kind, so errors.Is(err, ErrLocked) holds for any
// locked revert regardless of message.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	if t.kind == KindGeneric {
		return e == t
	}
	return e.kind == t.kind
}

// KindOf returns the kind of the first revert in the chain of err.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return KindGeneric, false
	}
	return ve.kind, true
}
