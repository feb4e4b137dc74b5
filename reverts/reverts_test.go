// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, KindGeneric, revert.Kind())

	revert = Newf(KindInsufficientFunds, "%s: insufficient balance %d", "stake", 7)
	assert.Equal(t, "stake: insufficient balance 7", revert.Error())
	assert.ErrorIs(t, revert, ErrInsufficientFunds)
}

func Test_RevertKinds(t *testing.T) {
	locked := Newf(KindLocked, "stake locked until %d", 100)
	assert.Equal(t, "stake locked until 100", locked.Error())
	assert.ErrorIs(t, locked, ErrLocked)
	assert.NotErrorIs(t, locked, ErrUnauthorized)

	wrapped := errors.Wrap(locked, "withdraw")
	assert.ErrorIs(t, wrapped, ErrLocked)

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindLocked, kind)
	assert.Equal(t, "locked", kind.String())

	_, ok = KindOf(fmt.Errorf("plain"))
	assert.False(t, ok)
	_, ok = KindOf(nil)
	assert.False(t, ok)

	// generic reverts only match themselves
	a, b := New("a"), New("a")
	assert.ErrorIs(t, a, a)
	assert.NotErrorIs(t, a, b)
}
