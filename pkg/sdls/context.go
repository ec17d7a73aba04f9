// Package sdls implements the TC ApplySecurity and ProcessSecurity
// pipelines, the status codes and errors they return, and the
// Extended-Procedure Bridge invoked once ProcessSecurity validates an
// SDLS-PDU-bearing frame.
//
// Everything here is threaded through a Context instead of the process-
// wide globals the original C source used (crypto_config,
// gvcid_managed_parameters, ek_ring, ...).
package sdls

import (
	"fmt"

	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/keyring"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/managedparams"
	"github.com/CCSDS-SDLS/go-sdls-tc/pkg/sa"
)

// ManagedParamEntry pairs a GVCID key with its managed-parameter entry, for
// bulk configuration in Config.
type ManagedParamEntry struct {
	Key   managedparams.Key
	Entry managedparams.Entry
}

// Config holds the library behavior flags set during the "configure" phase
// of the two-phase configure/initialize lifecycle.
type Config struct {
	// ProcessSdlsPdus enables the Extended-Procedure Bridge: when true,
	// ProcessSecurity hands designated SDLS PDUs to the attached
	// Dispatcher after successful validation.
	ProcessSdlsPdus bool
	// HasPusHdr indicates the payload carries a PUS packet header, used by
	// the Extended-Procedure Bridge to locate the APID that designates an
	// SDLS PDU.
	HasPusHdr bool
	// IgnoreSaState is carried as part of the configuration surface.
	// ApplySecurity does not read it: it always selects its SA through
	// Repository.GetOperational, so the OPERATIONAL requirement is not
	// relaxed by this flag.
	IgnoreSaState bool
	// IgnoreAntiReplay disables the anti-replay window check in
	// ProcessSecurity.
	IgnoreAntiReplay bool
	// UniqueSaPerMapId requires SA lookups to key on MAP-ID in addition to
	// the GVCID triple (always true in this implementation; retained as a
	// named flag because the library's configuration surface names it
	// explicitly).
	UniqueSaPerMapId bool
	// CheckFecf enables FECF verification in ProcessSecurity.
	CheckFecf bool
	// CreateFecf enables FECF computation in ApplySecurity.
	CreateFecf bool
	// VcidBitmask masks the primary header's VCID field before GVCID
	// lookups.
	VcidBitmask uint8
	// ManagedParams seeds the managed-parameters registry at configure
	// time.
	ManagedParams []ManagedParamEntry
}

// PduDispatcher is the Extended-Procedure Bridge's external collaborator:
// it receives a parsed SDLS PDU value and returns the
// dispatcher's reply, which ProcessSecurity propagates to its caller
// unmodified. The core never interprets PDU contents.
type PduDispatcher interface {
	Dispatch(tag uint8, value []byte) ([]byte, error)
}

// Context is the single object that replaces the source's process-wide
// mutable state: managed parameters, attached SA repository, key ring,
// behavior flags, and the Extended-Procedure Bridge's dispatcher. It is
// built in two phases: Configure (via NewContext) then Init.
type Context struct {
	cfg        Config
	params     *managedparams.Registry
	repo       sa.Repository
	keys       keyring.Ring
	dispatcher PduDispatcher
	stats      Stats

	configured  bool
	initialized bool
}

// NewContext performs the "configure" phase: it validates and seeds the
// managed-parameters registry from cfg but does not yet attach an SA
// repository or key ring. ApplySecurity/ProcessSecurity fail with NoInit
// until Init is also called.
func NewContext(cfg Config) (*Context, error) {
	params := managedparams.NewRegistry()
	for _, mp := range cfg.ManagedParams {
		if err := params.Add(mp.Key, mp.Entry); err != nil {
			return nil, fmt.Errorf("sdls: configure: %w", err)
		}
	}
	return &Context{cfg: cfg, params: params, configured: true}, nil
}

// Init performs the "initialize" phase: it attaches the SA repository, key
// ring, and (optionally) the Extended-Procedure dispatcher, and freezes the
// managed-parameters registry. repo must be non-nil.
func (c *Context) Init(repo sa.Repository, keys keyring.Ring, dispatcher PduDispatcher) error {
	if !c.configured {
		return newError(NoConfig, fmt.Errorf("Init called before configuration"))
	}
	if repo == nil {
		return newError(NoInit, fmt.Errorf("a non-nil SA repository is required"))
	}
	c.params.Freeze()
	c.repo = repo
	c.keys = keys
	c.dispatcher = dispatcher
	c.initialized = true
	return nil
}

// NewTestContext is a test-initialization convenience: it configures and
// initializes a Context in one call.
func NewTestContext(cfg Config, repo sa.Repository, keys keyring.Ring) (*Context, error) {
	ctx, err := NewContext(cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Init(repo, keys, nil); err != nil {
		return nil, err
	}
	return ctx, nil
}

// Shutdown releases the managed-parameter list and detaches the repository,
// key ring, and dispatcher, and marks the Context unconfigured, so later
// pipeline calls fail with NoConfig. The stored Config and the event
// counters are kept. A fresh Context is built via NewContext.
func (c *Context) Shutdown() {
	c.params = managedparams.NewRegistry()
	c.repo = nil
	c.keys = nil
	c.dispatcher = nil
	c.configured = false
	c.initialized = false
}

// Stats returns a snapshot of this Context's event counters.
func (c *Context) Stats() StatsSnapshot {
	return c.stats.Snapshot()
}

// ManagedParams exposes the registry; after Init it is frozen, so only its
// read methods succeed.
func (c *Context) ManagedParams() *managedparams.Registry {
	return c.params
}

func (c *Context) checkReady() error {
	if !c.configured {
		return newError(NoConfig, fmt.Errorf("context not configured"))
	}
	if !c.initialized {
		return newError(NoInit, fmt.Errorf("context not initialized"))
	}
	return nil
}
