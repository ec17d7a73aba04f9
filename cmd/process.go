// SPDX-FileCopyrightText: (C) 2025 Red Hat Inc.
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CCSDS-SDLS/go-sdls-tc/internal/extproc"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sdls"
)

var (
	processFrameHex      string
	processExtendedProcs bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run ProcessSecurity over a hex-encoded protected TC frame and print the cleartext payload",
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
		var dispatcher sdls.PduDispatcher
		if processExtendedProcs {
			dispatcher = &extproc.Dispatcher{}
		}
		if err := ctx.Init(st.SARepository(), st.KeyRing(rootSecret), dispatcher); err != nil {
			return err
		}

		frame, err := hex.DecodeString(strings.TrimSpace(processFrameHex))
		if err != nil {
			return fmt.Errorf("--frame must be hex-encoded: %w", err)
		}
		parsed, err := ctx.ProcessSecurity(frame)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "spi=%d payload=%s\n", parsed.SPI, hex.EncodeToString(parsed.Payload))
		if parsed.ExtendedReply != nil {
			fmt.Fprintf(os.Stdout, "extended_reply=%s\n", hex.EncodeToString(parsed.ExtendedReply))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVar(&processFrameHex, "frame", "", "Hex-encoded protected TC frame")
	processCmd.Flags().BoolVar(&processExtendedProcs, "extended-procedures", false, "Enable the Extended-Procedure Bridge demo dispatcher")
	_ = processCmd.MarkFlagRequired("frame")
}
