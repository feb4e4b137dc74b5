// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements the full precision 256-bit arithmetic the
// reward accumulator is built on.
package fixedpoint

import (
	"errors"

	"github.com/holiman/uint256"
)

var (
	// Precision scales the reward-per-unit accumulator.
	Precision = uint256.MustFromDecimal("1000000000000000000000000000000") // 1e30

	// MaxUint256 is the largest representable amount.
	MaxUint256 = new(uint256.Int).SetAllOne()

	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
	ErrOverflow       = errors.New("fixedpoint: result exceeds 256 bits")
)

// MulDiv returns floor(a*b/denominator). The product is computed on 512 bits,
// so it never overflows; only a result wider than 256 bits is an error.
func MulDiv(a, b, denominator *uint256.Int) (*uint256.Int, error) {
	if denominator.IsZero() {
		return nil, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, denominator)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Mul returns a*b, failing on overflow.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Add returns a+b, failing on overflow.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Min returns a copy of the smaller value.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a.Clone()
	}
	return b.Clone()
}

// SubFloor returns a-b, or zero when b > a.
func SubFloor(a, b *uint256.Int) *uint256.Int {
	if b.Gt(a) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(a, b)
}
