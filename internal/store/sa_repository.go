// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
)

// SARepository implements sa.Repository over a gorm database handle.
type SARepository struct {
	db *gorm.DB
}

// GetBySPI implements sa.Repository.
func (r *SARepository) GetBySPI(spi uint16) (*sa.SA, error) {
	var m securityAssociationModel
	if err := r.db.First(&m, "spi = ?", spi).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sa.ErrNotFound
		}
		return nil, fmt.Errorf("store: GetBySPI(%d): %w", spi, err)
	}
	return fromModel(&m), nil
}

// GetOperational implements sa.Repository.
func (r *SARepository) GetOperational(g sa.GVCID) (*sa.SA, error) {
	var m securityAssociationModel
	err := r.db.First(&m, "tfvn = ? AND scid = ? AND vcid = ? AND map_id = ? AND state = ?",
		g.TFVN, g.SCID, g.VCID, g.MapID, int(sa.Operational)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sa.ErrNotFound
		}
		return nil, fmt.Errorf("store: GetOperational(%+v): %w", g, err)
	}
	return fromModel(&m), nil
}

// Save implements sa.Repository.
func (r *SARepository) Save(s *sa.SA) error {
	if err := r.db.Save(toModel(s)).Error; err != nil {
		return fmt.Errorf("store: Save(spi=%d): %w", s.SPI, err)
	}
	return nil
}
