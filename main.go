// SPDX-FileCopyrightText: (C) 2025 Red Hat Inc.
// SPDX-License-Identifier: Apache 2.0

package main

import "github.com/CCSDS-SDLS/go-sdls-tc/cmd"

func main() {
	cmd.Execute()
}
