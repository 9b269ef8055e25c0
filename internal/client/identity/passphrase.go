package identity

import (
	"sync"

	"github.com/dmitrijs2005/zeroos/internal/common"
)

// Passphrase holds the keystore secret. Prompt asks for it once, outside
// any deadline; Get hands out copies without blocking, so a keystore
// factory built on Get never waits on the terminal.
type Passphrase struct {
	mu    sync.Mutex
	read  func() ([]byte, error)
	pass  []byte
	err   error
	asked bool
}

func NewPassphrase(read func() ([]byte, error)) *Passphrase {
	return &Passphrase{read: read}
}

// Prompt reads the secret. Only the first call reads.
func (p *Passphrase) Prompt() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.asked {
		p.asked = true
		p.pass, p.err = p.read()
	}
	return p.err
}

// Get returns a copy of the secret read by Prompt. Before Prompt, or once
// wiped, it fails with ErrNoPassphrase.
func (p *Passphrase) Get() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return nil, p.err
	}
	if p.pass == nil {
		return nil, ErrNoPassphrase
	}
	return append([]byte(nil), p.pass...), nil
}

// Wipe zeroes and drops the held secret.
func (p *Passphrase) Wipe() {
	p.mu.Lock()
	defer p.mu.Unlock()

	common.WipeByteArray(p.pass)
	p.pass = nil
}
