// SPDX-FileCopyrightText: (C) 2025 Red Hat Inc.
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
)

var saCmd = &cobra.Command{
	Use:   "sa",
	Short: "Inspect Security Associations",
}

var saGetCmd = &cobra.Command{
	Use:   "get spi",
	Short: "Print the current state of a Security Association by SPI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := rootCmdLoadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := cfg.DB.getState()
		if err != nil {
			return err
		}

		spi, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("spi must be a non-negative integer: %w", err)
		}
		assoc, err := st.SARepository().GetBySPI(uint16(spi))
		if err != nil {
			if errors.Is(err, sa.ErrNotFound) {
				return fmt.Errorf("no security association with spi %d", spi)
			}
			return err
		}

		fmt.Fprintf(os.Stdout, "spi=%d gvcid={tfvn=%d scid=%d vcid=%d map_id=%d} state=%s service=%s arc=%s\n",
			assoc.SPI, assoc.GVCID.TFVN, assoc.GVCID.SCID, assoc.GVCID.VCID, assoc.GVCID.MapID,
			assoc.State, assoc.ServiceType(), hex.EncodeToString(assoc.ARC))
		return nil
	},
}

var saSetStateCmd = &cobra.Command{
	Use:   "set-state spi state",
	Short: "Transition a Security Association to a new lifecycle state (NONE, KEYED, UNKEYED, OPERATIONAL)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := rootCmdLoadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := cfg.DB.getState()
		if err != nil {
			return err
		}

		spi, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("spi must be a non-negative integer: %w", err)
		}
		to, err := parseSAState(args[1])
		if err != nil {
			return err
		}

		repo := st.SARepository()
		assoc, err := repo.GetBySPI(uint16(spi))
		if err != nil {
			if errors.Is(err, sa.ErrNotFound) {
				return fmt.Errorf("no security association with spi %d", spi)
			}
			return err
		}
		if err := sa.Transition(assoc, to); err != nil {
			return err
		}
		if err := repo.Save(assoc); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "spi=%d state=%s\n", assoc.SPI, assoc.State)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saCmd)
	saCmd.AddCommand(saGetCmd)
	saCmd.AddCommand(saSetStateCmd)
}
