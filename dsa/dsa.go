// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package dsa signs message hashes and recovers their signers.
package dsa

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/rewardpool/thor"
)

// SignatureLength is the length of a recoverable signature [R || S || V].
const SignatureLength = crypto.SignatureLength

// Signer extracts signer.
func Signer(msgHash thor.Bytes32, sig []byte) (thor.Address, error) {
	pub, err := crypto.SigToPub(msgHash[:], sig)
	if err != nil {
		return thor.Address{}, err
	}
	return thor.Address(crypto.PubkeyToAddress(*pub)), nil
}

// Sign signs msgHash with priv.
func Sign(msgHash thor.Bytes32, priv *ecdsa.PrivateKey) ([]byte, error) {
	return crypto.Sign(msgHash[:], priv)
}

// Address returns the address controlled by priv.
func Address(priv *ecdsa.PrivateKey) thor.Address {
	return thor.Address(crypto.PubkeyToAddress(priv.PublicKey))
}
