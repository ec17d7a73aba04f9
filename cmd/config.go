// SPDX-FileCopyrightText: (C) 2025 Red Hat Inc.
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/CCSDS-SDLS/go-sdls-tc/internal/store"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/keyring"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/managedparams"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sdls"
)

// DatabaseConfig selects and opens the SA/key-ring persistence backend.
type DatabaseConfig struct {
	Type string `mapstructure:"type"`
	DSN  string `mapstructure:"dsn"`
}

func (dc *DatabaseConfig) getState() (*store.State, error) {
	if dc.DSN == "" {
		return nil, fmt.Errorf("database configuration error: dsn is required")
	}
	return store.InitDb(dc.Type, dc.DSN)
}

// ManagedParamConfig is one managed-parameters registry entry, as read
// from the configuration file.
type ManagedParamConfig struct {
	TFVN             uint8  `mapstructure:"tfvn"`
	SCID             uint16 `mapstructure:"scid"`
	VCID             uint8  `mapstructure:"vcid"`
	HasFECF          bool   `mapstructure:"has_fecf"`
	HasSegmentHeader bool   `mapstructure:"has_segment_header"`
	MaxFrameLength   int    `mapstructure:"max_frame_length"`
}

func (m ManagedParamConfig) toEntry() sdls.ManagedParamEntry {
	return sdls.ManagedParamEntry{
		Key: managedparams.Key{TFVN: m.TFVN, SCID: m.SCID, VCID: m.VCID},
		Entry: managedparams.Entry{
			HasFECF:          m.HasFECF,
			HasSegmentHeader: m.HasSegmentHeader,
			MaxFrameLength:   m.MaxFrameLength,
		},
	}
}

// securityAssociationConfig seeds one Security Association into the store
// at startup. Hex-encoded byte fields (iv, arc, abm) keep the configuration
// file human-editable.
type securityAssociationConfig struct {
	SPI       uint16 `mapstructure:"spi"`
	TFVN      uint8  `mapstructure:"tfvn"`
	SCID      uint16 `mapstructure:"scid"`
	VCID      uint8  `mapstructure:"vcid"`
	MapID     uint8  `mapstructure:"map_id"`
	State     string `mapstructure:"state"`
	EST       bool   `mapstructure:"est"`
	AST       bool   `mapstructure:"ast"`
	ECS       uint8  `mapstructure:"ecs"`
	ACS       uint8  `mapstructure:"acs"`
	ShivfLen  int    `mapstructure:"shivf_len"`
	ShsnfLen  int    `mapstructure:"shsnf_len"`
	ShplfLen  int    `mapstructure:"shplf_len"`
	StmacfLen int    `mapstructure:"stmacf_len"`
	IVHex     string `mapstructure:"iv"`
	ARCHex    string `mapstructure:"arc"`
	ARCW      int    `mapstructure:"arcw"`
	ABMHex    string `mapstructure:"abm"`
	EKID      string `mapstructure:"ekid"`
	AKID      string `mapstructure:"akid"`
}

func parseSAState(s string) (sa.State, error) {
	switch s {
	case "NONE":
		return sa.None, nil
	case "KEYED":
		return sa.Keyed, nil
	case "UNKEYED":
		return sa.Unkeyed, nil
	case "OPERATIONAL", "":
		return sa.Operational, nil
	default:
		return sa.None, fmt.Errorf("unknown SA state %q", s)
	}
}

func (c securityAssociationConfig) toSA() (*sa.SA, error) {
	state, err := parseSAState(c.State)
	if err != nil {
		return nil, fmt.Errorf("spi %d: %w", c.SPI, err)
	}
	iv, err := hex.DecodeString(c.IVHex)
	if err != nil {
		return nil, fmt.Errorf("spi %d: iv: %w", c.SPI, err)
	}
	arc, err := hex.DecodeString(c.ARCHex)
	if err != nil {
		return nil, fmt.Errorf("spi %d: arc: %w", c.SPI, err)
	}
	abm, err := hex.DecodeString(c.ABMHex)
	if err != nil {
		return nil, fmt.Errorf("spi %d: abm: %w", c.SPI, err)
	}
	return &sa.SA{
		SPI:       c.SPI,
		GVCID:     sa.GVCID{TFVN: c.TFVN, SCID: c.SCID, VCID: c.VCID, MapID: c.MapID},
		State:     state,
		EST:       c.EST,
		AST:       c.AST,
		ECS:       c.ECS,
		ACS:       c.ACS,
		ShivfLen:  c.ShivfLen,
		ShsnfLen:  c.ShsnfLen,
		ShplfLen:  c.ShplfLen,
		StmacfLen: c.StmacfLen,
		IV:        iv,
		ARC:       arc,
		ARCW:      c.ARCW,
		ABM:       abm,
		EKID:      c.EKID,
		AKID:      c.AKID,
	}, nil
}

// keyConfig seeds one key-ring entry.
type keyConfig struct {
	ID    string `mapstructure:"id"`
	Hex   string `mapstructure:"bytes"`
	State string `mapstructure:"state"`
}

func parseKeyState(s string) (keyring.State, error) {
	switch s {
	case "PREACTIVE":
		return keyring.PreActive, nil
	case "ACTIVE", "":
		return keyring.Active, nil
	case "DEACTIVATED":
		return keyring.Deactivated, nil
	case "DESTROYED":
		return keyring.Destroyed, nil
	default:
		return keyring.PreActive, fmt.Errorf("unknown key state %q", s)
	}
}

func (c keyConfig) toKey() (keyring.Key, error) {
	state, err := parseKeyState(c.State)
	if err != nil {
		return keyring.Key{}, fmt.Errorf("key %q: %w", c.ID, err)
	}
	b, err := hex.DecodeString(c.Hex)
	if err != nil {
		return keyring.Key{}, fmt.Errorf("key %q: bytes: %w", c.ID, err)
	}
	return keyring.Key{ID: c.ID, Bytes: b, State: state}, nil
}

// SDLSConfig is the full configuration file shape: library behavior flags
// plus the managed parameters, Security Associations, and keys to seed at
// startup. Subcommands decode their viper tree into this struct via nested
// mapstructure tags.
type SDLSConfig struct {
	DB               DatabaseConfig              `mapstructure:"db"`
	HasPusHdr        bool                        `mapstructure:"has_pus_header"`
	ProcessSdlsPdus  bool                        `mapstructure:"process_sdls_pdus"`
	IgnoreSaState    bool                        `mapstructure:"ignore_sa_state"`
	IgnoreAntiReplay bool                        `mapstructure:"ignore_anti_replay"`
	CheckFecf        bool                        `mapstructure:"check_fecf"`
	CreateFecf       bool                        `mapstructure:"create_fecf"`
	VcidBitmask      uint8                       `mapstructure:"vcid_bitmask"`
	ManagedParams    []ManagedParamConfig        `mapstructure:"managed_params"`
	SAs              []securityAssociationConfig `mapstructure:"security_associations"`
	Keys             []keyConfig                 `mapstructure:"keys"`
	KeyRootSecretHex string                      `mapstructure:"key_root_secret"`
}

func (c *SDLSConfig) toSdlsConfig() sdls.Config {
	entries := make([]sdls.ManagedParamEntry, 0, len(c.ManagedParams))
	for _, mp := range c.ManagedParams {
		entries = append(entries, mp.toEntry())
	}
	bitmask := c.VcidBitmask
	if bitmask == 0 {
		bitmask = 0x3F // default: no masking (6-bit VCID field)
	}
	return sdls.Config{
		ProcessSdlsPdus:  c.ProcessSdlsPdus,
		HasPusHdr:        c.HasPusHdr,
		IgnoreSaState:    c.IgnoreSaState,
		IgnoreAntiReplay: c.IgnoreAntiReplay,
		UniqueSaPerMapId: true,
		CheckFecf:        c.CheckFecf,
		CreateFecf:       c.CreateFecf,
		VcidBitmask:      bitmask,
		ManagedParams:    entries,
	}
}

// seed persists the configured Security Associations and keys into st,
// overwriting any existing rows with the same identity.
func (c *SDLSConfig) seed(st *store.State) error {
	repo := st.SARepository()
	for _, s := range c.SAs {
		assoc, err := s.toSA()
		if err != nil {
			return fmt.Errorf("seed security_associations: %w", err)
		}
		if err := repo.Save(assoc); err != nil {
			return fmt.Errorf("seed security_associations: %w", err)
		}
	}

	rootSecret, err := hex.DecodeString(c.KeyRootSecretHex)
	if err != nil {
		return fmt.Errorf("key_root_secret: %w", err)
	}
	ring := st.KeyRing(rootSecret)
	for _, k := range c.Keys {
		key, err := k.toKey()
		if err != nil {
			return fmt.Errorf("seed keys: %w", err)
		}
		if err := ring.Put(key); err != nil {
			return fmt.Errorf("seed keys: %w", err)
		}
	}
	return nil
}
