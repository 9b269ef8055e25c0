package identity

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/common"
	"github.com/dmitrijs2005/zeroos/internal/cryptox"
	"github.com/dmitrijs2005/zeroos/internal/filex"
	"github.com/dmitrijs2005/zeroos/internal/netx"
	"github.com/golang-jwt/jwt/v5"
)

const keystoreFileName = "identity.json"

// keystoreFile is the on-disk layout of the keystore.
type keystoreFile struct {
	Seed       cryptox.Sealed `json:"seed"`
	Delegation string         `json:"delegation,omitempty"`
}

type delegateRequest struct {
	PublicKey string `json:"public_key"`
	Principal string `json:"principal"`
}

type delegateResponse struct {
	Delegation string `json:"delegation"`
}

// KeystoreProvider keeps an ed25519 identity key sealed on disk and trades
// its public key for a delegation token at the identity provider.
type KeystoreProvider struct {
	mu         sync.Mutex
	path       string
	sealed     cryptox.Sealed
	key        ed25519.PrivateKey
	principal  string
	delegation string
	expires    time.Time
	httpClient *http.Client
	now        func() time.Time
}

// OpenKeystore loads the keystore in dir, creating a fresh identity key if
// none exists yet. A wrong passphrase fails with cryptox.ErrDecrypt.
func OpenKeystore(dir string, passphrase []byte, httpClient *http.Client) (*KeystoreProvider, error) {
	if len(passphrase) == 0 {
		return nil, ErrNoPassphrase
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}

	p := &KeystoreProvider{
		path:       filepath.Join(dir, keystoreFileName),
		httpClient: httpClient,
		now:        time.Now,
	}

	data, err := os.ReadFile(p.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := p.create(passphrase); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read keystore: %w", err)
	default:
		if err := p.load(data, passphrase); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *KeystoreProvider) create(passphrase []byte) error {
	_, key, err := ed25519.GenerateKey(nil)
	if err != nil {
		return err
	}
	seed := key.Seed()
	defer common.WipeByteArray(seed)

	sealed, err := cryptox.Seal(seed, passphrase)
	if err != nil {
		return fmt.Errorf("seal identity key: %w", err)
	}

	p.sealed = *sealed
	p.setKey(key)
	return p.save()
}

func (p *KeystoreProvider) load(data, passphrase []byte) error {
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return fmt.Errorf("decode keystore: %w", err)
	}

	seed, err := cryptox.Open(&kf.Seed, passphrase)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(seed)
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("keystore seed has %d bytes, want %d", len(seed), ed25519.SeedSize)
	}

	p.sealed = kf.Seed
	p.setKey(ed25519.NewKeyFromSeed(seed))

	if kf.Delegation != "" {
		// A stale or foreign delegation is dropped, not fatal.
		if exp, err := p.checkDelegation(kf.Delegation); err == nil {
			p.delegation, p.expires = kf.Delegation, exp
		}
	}
	return nil
}

func (p *KeystoreProvider) setKey(key ed25519.PrivateKey) {
	p.key = key
	p.principal = PrincipalFromKey(key.Public().(ed25519.PublicKey))
}

func (p *KeystoreProvider) save() error {
	data, err := json.Marshal(keystoreFile{Seed: p.sealed, Delegation: p.delegation})
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(p.path, data, 0o600)
}

// checkDelegation reads the delegation claims. The signature is checked by
// the service, not here; the client only needs subject and expiry.
func (p *KeystoreProvider) checkDelegation(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDelegation, err)
	}
	if claims.Subject != p.principal {
		return time.Time{}, fmt.Errorf("%w: issued for %q", ErrInvalidDelegation, claims.Subject)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(p.now()) {
		return time.Time{}, fmt.Errorf("%w: expired", ErrInvalidDelegation)
	}
	return claims.ExpiresAt.Time, nil
}

func (p *KeystoreProvider) IsAuthenticated(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.delegation != "" && p.expires.After(p.now())
}

func (p *KeystoreProvider) Identity() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.delegation == "" || !p.expires.After(p.now()) {
		return nil
	}
	return p.identityLocked()
}

func (p *KeystoreProvider) identityLocked() *Identity {
	return &Identity{
		principal:  p.principal,
		key:        p.key,
		delegation: p.delegation,
		expires:    p.expires,
	}
}

// Login posts the public key to <providerURL>/delegate and keeps the
// returned delegation.
func (p *KeystoreProvider) Login(ctx context.Context, providerURL string) (*Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	req := delegateRequest{
		PublicKey: base64.StdEncoding.EncodeToString(p.key.Public().(ed25519.PublicKey)),
		Principal: p.principal,
	}
	var resp delegateResponse
	url := strings.TrimRight(providerURL, "/") + "/delegate"
	if err := netx.PostJSON(ctx, p.httpClient, url, req, &resp); err != nil {
		return nil, fmt.Errorf("identity provider: %w", err)
	}

	exp, err := p.checkDelegation(resp.Delegation)
	if err != nil {
		return nil, err
	}

	p.delegation, p.expires = resp.Delegation, exp
	if err := p.save(); err != nil {
		return nil, fmt.Errorf("save keystore: %w", err)
	}
	return p.identityLocked(), nil
}

// Logout forgets the delegation; the identity key stays.
func (p *KeystoreProvider) Logout(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.delegation == "" {
		return nil
	}
	p.delegation, p.expires = "", time.Time{}
	return p.save()
}

// NewKeystoreFactory returns a Factory that opens the keystore in dir with a
// passphrase obtained from passphrase().
func NewKeystoreFactory(dir string, passphrase func() ([]byte, error), httpClient *http.Client) Factory {
	return func(ctx context.Context) (Provider, error) {
		pass, err := passphrase()
		if err != nil {
			return nil, err
		}
		defer common.WipeByteArray(pass)
		return OpenKeystore(dir, pass, httpClient)
	}
}
