// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package store provides the gorm-backed persistence layer for Security
// Associations and key-ring entries' repository interfaces, implemented
// over either SQLite or PostgreSQL depending on configuration.
package store

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// State wraps the gorm handle shared by the SA repository and key ring
// store, threaded through the CLI's server and one-shot subcommands.
type State struct {
	db *gorm.DB
}

// InitDb opens a database of the given type ("sqlite" or "postgres") at dsn
// and runs schema migration for the SA and key-ring models.
func InitDb(dbType, dsn string) (*State, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store: dsn is required")
	}

	var dialector gorm.Dialector
	switch strings.ToLower(dbType) {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("store: unsupported database type %q (must be 'sqlite' or 'postgres')", dbType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dbType, err)
	}

	if err := db.AutoMigrate(&securityAssociationModel{}, &keyModel{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &State{db: db}, nil
}

// SARepository returns a sa.Repository backed by this State.
func (s *State) SARepository() *SARepository {
	return &SARepository{db: s.db}
}

// KeyRing returns a keyring.Ring (and its write-side companion) backed by
// this State, unwrapping key bytes with the given root secret.
func (s *State) KeyRing(rootSecret []byte) *KeyStore {
	return &KeyStore{db: s.db, rootSecret: rootSecret}
}
