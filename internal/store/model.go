// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package store

import (
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
)

// securityAssociationModel is the gorm row shape for a Security Association.
// Field names match sa.SA's; gorm's default naming turns them into the
// snake_case column names (spi, map_id, shivf_len, ...) that the queries in
// sa_repository.go use.
type securityAssociationModel struct {
	SPI   uint16 `gorm:"primaryKey"`
	TFVN  uint8
	SCID  uint16 `gorm:"index:idx_gvcid"`
	VCID  uint8  `gorm:"index:idx_gvcid"`
	MapID uint8  `gorm:"index:idx_gvcid"`
	State int

	EST bool
	AST bool
	ECS uint8
	ACS uint8

	ShivfLen  int
	ShsnfLen  int
	ShplfLen  int
	StmacfLen int

	IV   []byte
	ARC  []byte
	ARCW int

	ABM []byte

	EKID string
	AKID string
}

func (securityAssociationModel) TableName() string { return "security_associations" }

func toModel(s *sa.SA) *securityAssociationModel {
	return &securityAssociationModel{
		SPI:       s.SPI,
		TFVN:      s.GVCID.TFVN,
		SCID:      s.GVCID.SCID,
		VCID:      s.GVCID.VCID,
		MapID:     s.GVCID.MapID,
		State:     int(s.State),
		EST:       s.EST,
		AST:       s.AST,
		ECS:       s.ECS,
		ACS:       s.ACS,
		ShivfLen:  s.ShivfLen,
		ShsnfLen:  s.ShsnfLen,
		ShplfLen:  s.ShplfLen,
		StmacfLen: s.StmacfLen,
		IV:        append([]byte{}, s.IV...),
		ARC:       append([]byte{}, s.ARC...),
		ARCW:      s.ARCW,
		ABM:       append([]byte{}, s.ABM...),
		EKID:      s.EKID,
		AKID:      s.AKID,
	}
}

func fromModel(m *securityAssociationModel) *sa.SA {
	return &sa.SA{
		SPI:       m.SPI,
		GVCID:     sa.GVCID{TFVN: m.TFVN, SCID: m.SCID, VCID: m.VCID, MapID: m.MapID},
		State:     sa.State(m.State),
		EST:       m.EST,
		AST:       m.AST,
		ECS:       m.ECS,
		ACS:       m.ACS,
		ShivfLen:  m.ShivfLen,
		ShsnfLen:  m.ShsnfLen,
		ShplfLen:  m.ShplfLen,
		StmacfLen: m.StmacfLen,
		IV:        append([]byte{}, m.IV...),
		ARC:       append([]byte{}, m.ARC...),
		ARCW:      m.ARCW,
		ABM:       append([]byte{}, m.ABM...),
		EKID:      m.EKID,
		AKID:      m.AKID,
	}
}

// keyModel is the gorm row shape for a key-ring entry. WrappedBytes holds
// the key material wrapped at rest (see KeyStore), never the plaintext key.
type keyModel struct {
	ID            string `gorm:"primaryKey"`
	WrappedBytes  []byte
	WrapNonce     []byte
	State         int
}

func (keyModel) TableName() string { return "keys" }
