// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package extproc is a minimal sdls.PduDispatcher suitable for the demo CLI
// server: it echoes back PDU values under a "ping" tag and otherwise
// reports the tag as unsupported. Implementing real SDLS Extended Procedure
// commands (key management, SA status reporting, ...) is out of scope;
// this exists only so ProcessSecurity's Extended-Procedure Bridge has
// something concrete to call in cmd/serve.go.
package extproc

import "fmt"

// PingTag is the only extended-procedure command this dispatcher
// understands: it returns its input unchanged.
const PingTag uint8 = 0x01

// Dispatcher implements sdls.PduDispatcher.
type Dispatcher struct{}

// Dispatch implements sdls.PduDispatcher.
func (Dispatcher) Dispatch(tag uint8, value []byte) ([]byte, error) {
	switch tag {
	case PingTag:
		return value, nil
	default:
		return nil, fmt.Errorf("extproc: unsupported PDU tag %#x", tag)
	}
}
