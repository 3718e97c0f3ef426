// Package identity provides the stable anonymous per-device user identifier.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

const idFileName = "user_id"

// ErrStorageUnavailable reports that the durable local store could not be
// read or written. Callers degrade to remote-only persistence rather than
// fabricating a fresh identity per call.
var ErrStorageUnavailable = errors.New("identity storage unavailable")

var anonIDPattern = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)

// Provider hands out the per-device user ID. The ID is resolved once per
// process: either loaded from the data dir or generated and persisted there.
type Provider struct {
	path string
	once sync.Once
	id   string
	err  error
}

// NewProvider creates a provider storing its identifier under dataDir.
func NewProvider(dataDir string) *Provider {
	return &Provider{path: filepath.Join(dataDir, idFileName)}
}

// UserID returns the stable identifier, generating and persisting one on
// first use. The result (or failure) is memoized for the process lifetime,
// so a flaky store can never hand out two different identities.
func (p *Provider) UserID() (string, error) {
	p.once.Do(p.resolve)
	return p.id, p.err
}

func (p *Provider) resolve() {
	if raw, err := os.ReadFile(p.path); err == nil {
		id := strings.TrimSpace(string(raw))
		if isValidAnonID(id) {
			p.id = id
			return
		}
		// Corrupt content falls through to regeneration.
	} else if !errors.Is(err, os.ErrNotExist) {
		p.err = fmt.Errorf("read identity file %s: %w: %v", p.path, ErrStorageUnavailable, err)
		return
	}

	id, err := generateAnonID()
	if err != nil {
		p.err = err
		return
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		p.err = fmt.Errorf("create identity dir: %w: %v", ErrStorageUnavailable, err)
		return
	}
	if err := os.WriteFile(p.path, []byte(id+"\n"), 0600); err != nil {
		p.err = fmt.Errorf("write identity file: %w: %v", ErrStorageUnavailable, err)
		return
	}

	p.id = id
}

func generateAnonID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	return "anon_" + hex.EncodeToString(buf), nil
}

func isValidAnonID(id string) bool {
	return anonIDPattern.MatchString(id)
}
