// Package identity provides the signing identities the workspace client
// attaches to remote calls, and the providers that obtain them.
package identity

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"hash/crc32"
	"strings"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/common"
)

// Identity is a principal together with the key that signs its calls and,
// for provider-issued identities, the delegation token that vouches for it.
type Identity struct {
	principal  string
	key        ed25519.PrivateKey
	delegation string
	expires    time.Time
	mock       bool
}

func (id *Identity) Principal() string            { return id.principal }
func (id *Identity) PublicKey() ed25519.PublicKey { return id.key.Public().(ed25519.PublicKey) }
func (id *Identity) Delegation() string           { return id.delegation }
func (id *Identity) Expires() time.Time           { return id.expires }
func (id *Identity) IsMock() bool                 { return id.mock }

// Sign signs msg with the identity key.
func (id *Identity) Sign(msg []byte) []byte {
	return ed25519.Sign(id.key, msg)
}

// Mock returns the fixed development identity. Its key is derived from the
// principal, so every process gets the same identity.
func Mock() *Identity {
	seed := sha256.Sum256([]byte(common.MockPrincipal))
	return &Identity{
		principal: common.MockPrincipal,
		key:       ed25519.NewKeyFromSeed(seed[:]),
		mock:      true,
	}
}

var principalEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// PrincipalFromKey renders the textual principal of a public key: a crc32
// checksum followed by a 28-byte key digest, base32 lowercase, grouped in
// fives.
func PrincipalFromKey(pub ed25519.PublicKey) string {
	digest := sha256.Sum224(pub)

	raw := make([]byte, 4, 4+len(digest))
	binary.BigEndian.PutUint32(raw, crc32.ChecksumIEEE(digest[:]))
	raw = append(raw, digest[:]...)

	enc := strings.ToLower(principalEncoding.EncodeToString(raw))

	var b strings.Builder
	for i := 0; i < len(enc); i += 5 {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(enc[i:min(i+5, len(enc))])
	}
	return b.String()
}
