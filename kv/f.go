// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// defines individual functions.

type (
	GetFunc         func(key []byte) ([]byte, error)
	HasFunc         func(key []byte) (bool, error)
	PutFunc         func(key, val []byte) error
	DeleteFunc      func(key []byte) error
	IsNotFoundFunc  func(err error) bool
	NewIteratorFunc func(r Range) Iterator
)

func (f GetFunc) Get(key []byte) ([]byte, error)       { return f(key) }
func (f HasFunc) Has(key []byte) (bool, error)         { return f(key) }
func (f PutFunc) Put(key, val []byte) error            { return f(key, val) }
func (f DeleteFunc) Delete(key []byte) error           { return f(key) }
func (f IsNotFoundFunc) IsNotFound(err error) bool     { return f(err) }
func (f NewIteratorFunc) NewIterator(r Range) Iterator { return f(r) }
