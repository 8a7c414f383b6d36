// Package keys stores and loads the Ed25519 signing keys parcels are
// built and verified with.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"

	"github.com/pkg/errors"

	"github.com/homeland-social/parcel/internal/atomicio"
)

// permission is the mode bits a key file is created with: owner
// read/write only.
const permission = 0o600

// ErrInvalidKeyFile is raised when a key file's contents aren't a valid
// Ed25519 seed.
var ErrInvalidKeyFile = errors.New("keys: invalid key file")

// Generate returns a fresh Ed25519 keypair.
func Generate() (ed25519.PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "keys: generating key")
	}
	return priv, nil
}

// Save writes key's seed to path with owner-only permissions. Unless
// force is true, path must not already exist.
func Save(path string, key ed25519.PrivateKey, force bool) error {
	w, err := atomicio.Create(path, permission, force)
	if err != nil {
		return errors.Wrapf(err, "keys: creating %s", path)
	}
	if _, err := w.Write(key.Seed()); err != nil {
		_ = w.Rollback()
		return errors.Wrapf(err, "keys: writing %s", path)
	}
	return errors.Wrapf(w.Close(), "keys: closing %s", path)
}

// Load reads an Ed25519 private key back from path.
func Load(path string) (ed25519.PrivateKey, error) {
	seed, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "keys: reading %s", path)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(ErrInvalidKeyFile, "%s: expected %d bytes, got %d", path, ed25519.SeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}
