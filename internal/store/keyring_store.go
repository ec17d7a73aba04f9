// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package store

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"gorm.io/gorm"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/cryptoengine"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/keyring"
)

const wrapNonceLen = 12

// KeyStore is a gorm-backed keyring.Ring whose key material is encrypted at
// rest under a key wrapping key derived from a root secret via HKDF-SHA256,
// one derivation per key id.
type KeyStore struct {
	db         *gorm.DB
	rootSecret []byte
}

func (k *KeyStore) wrappingKey(id string) ([]byte, error) {
	r := hkdf.New(sha256.New, k.rootSecret, nil, []byte("go-sdls-tc key wrap: "+id))
	wk := make([]byte, cryptoengine.KeyLen)
	if _, err := io.ReadFull(r, wk); err != nil {
		return nil, fmt.Errorf("store: derive wrapping key for %q: %w", id, err)
	}
	return wk, nil
}

// Get implements keyring.Ring, unwrapping the stored key material.
func (k *KeyStore) Get(id string) (keyring.Key, error) {
	var m keyModel
	if err := k.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return keyring.Key{}, fmt.Errorf("%w: %q", keyring.ErrNotFound, id)
		}
		return keyring.Key{}, fmt.Errorf("store: Get(%q): %w", id, err)
	}
	wk, err := k.wrappingKey(id)
	if err != nil {
		return keyring.Key{}, err
	}
	plain, err := cryptoengine.Open(wk, m.WrapNonce, []byte(id), m.WrappedBytes[:len(m.WrappedBytes)-cryptoengine.TagLen], m.WrappedBytes[len(m.WrappedBytes)-cryptoengine.TagLen:])
	if err != nil {
		return keyring.Key{}, fmt.Errorf("store: unwrap key %q: %w", id, err)
	}
	return keyring.Key{ID: m.ID, Bytes: plain, State: keyring.State(m.State)}, nil
}

// Put wraps and persists a key-ring entry.
func (k *KeyStore) Put(key keyring.Key) error {
	wk, err := k.wrappingKey(key.ID)
	if err != nil {
		return err
	}
	nonce := make([]byte, wrapNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("store: generate wrap nonce: %w", err)
	}
	ciphertext, tag, err := cryptoengine.Seal(wk, nonce, []byte(key.ID), key.Bytes)
	if err != nil {
		return fmt.Errorf("store: wrap key %q: %w", key.ID, err)
	}
	m := keyModel{
		ID:           key.ID,
		WrappedBytes: append(ciphertext, tag...),
		WrapNonce:    nonce,
		State:        int(key.State),
	}
	if err := k.db.Save(&m).Error; err != nil {
		return fmt.Errorf("store: Put(%q): %w", key.ID, err)
	}
	return nil
}
