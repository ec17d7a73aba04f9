// SPDX-FileCopyrightText: (C) 2025 Red Hat Inc.
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sdls"
)

var applyFrameHex string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run ApplySecurity over a hex-encoded TC frame and print the protected frame",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := rootCmdLoadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := cfg.DB.getState()
		if err != nil {
			return err
		}
		if err := cfg.seed(st); err != nil {
			return err
		}

		ctx, err := sdls.NewContext(cfg.toSdlsConfig())
		if err != nil {
			return err
		}
		rootSecret, err := decodeRootSecret(cfg.KeyRootSecretHex)
		if err != nil {
			return err
		}
		if err := ctx.Init(st.SARepository(), st.KeyRing(rootSecret), nil); err != nil {
			return err
		}

		frame, err := hex.DecodeString(strings.TrimSpace(applyFrameHex))
		if err != nil {
			return fmt.Errorf("--frame must be hex-encoded: %w", err)
		}
		out, err := ctx.ApplySecurity(frame)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, hex.EncodeToString(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVar(&applyFrameHex, "frame", "", "Hex-encoded plaintext TC frame")
	_ = applyCmd.MarkFlagRequired("frame")
}
