// Package envelope implements the signed nested-archive container that
// parcels are distributed as: a gzip-compressed outer TAR holding
// `message` (the inner TAR bytes), `signature` (an Ed25519 detached
// signature over message), and `pubkey` (the verification key) —
// wrapping an inner TAR of `manifest.json` plus the manifest's embedded
// files.
package envelope

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/homeland-social/parcel/internal/atomicio"
	"github.com/homeland-social/parcel/manifest"
)

// ErrEnvelopeIntegrity is raised when the outer TAR is malformed, is
// missing a required member, or fails signature verification. It is
// raised *before* any inner bytes are parsed — verify-before-parse is a
// hard invariant.
var ErrEnvelopeIntegrity = errors.New("envelope: integrity check failed")

const (
	memberMessage   = "message"
	memberSignature = "signature"
	memberPubkey    = "pubkey"
	manifestEntry   = "manifest.json"

	// filePermission is the mode bits used for regular entries written
	// into both the inner and outer TARs. Reproducible archives aren't
	// required, so wall-clock mtimes are fine.
	filePermission = 0o644
)

// Parcel is a Manifest plus the signing artifacts populated once it has
// been written or verified: the Ed25519 public key and detached
// signature over the inner TAR bytes.
type Parcel struct {
	Manifest  *manifest.Manifest
	PubKey    ed25519.PublicKey
	Signature []byte
}

// Write builds the signed envelope for m at path. If key is nil, a fresh
// Ed25519 keypair is generated; the (possibly freshly generated) signing
// key is always returned so a caller can persist it. Unless overwrite is
// true, path must not already exist.
func Write(path string, m *manifest.Manifest, key ed25519.PrivateKey, overwrite bool) (ed25519.PrivateKey, error) {
	inner, err := buildInnerTar(m)
	if err != nil {
		return nil, err
	}

	if key == nil {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, errors.Wrap(err, "envelope: generating signing key")
		}
		key = priv
	}

	signature := ed25519.Sign(key, inner)
	pub := key.Public().(ed25519.PublicKey)

	w, err := atomicio.CreateAtomic(path, 0o644, overwrite)
	if err != nil {
		return nil, errors.Wrapf(err, "envelope: opening %s", path)
	}
	if err := writeOuter(w, inner, signature, pub); err != nil {
		_ = w.Rollback()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrapf(err, "envelope: closing %s", path)
	}

	return key, nil
}

// WriteTo builds the signed envelope for m and writes the outer
// gzipped TAR to w, for callers (such as tests) that want an in-memory
// archive rather than a file on disk.
func WriteTo(w io.Writer, m *manifest.Manifest, key ed25519.PrivateKey) (ed25519.PrivateKey, error) {
	inner, err := buildInnerTar(m)
	if err != nil {
		return nil, err
	}
	if key == nil {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, errors.Wrap(err, "envelope: generating signing key")
		}
		key = priv
	}
	signature := ed25519.Sign(key, inner)
	pub := key.Public().(ed25519.PublicKey)
	if err := writeOuter(w, inner, signature, pub); err != nil {
		return nil, err
	}
	return key, nil
}

func buildInnerTar(m *manifest.Manifest) ([]byte, error) {
	doc, err := m.Document()
	if err != nil {
		return nil, errors.Wrap(err, "envelope: serializing manifest")
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	if err := addTarFile(tw, manifestEntry, doc); err != nil {
		return nil, err
	}
	for _, f := range m.Files() {
		if err := addTarFile(tw, f.Name, f.Bytes); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, errors.Wrap(err, "envelope: closing inner tar")
	}

	return buf.Bytes(), nil
}

func writeOuter(w io.Writer, message, signature, pubkey []byte) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	if err := addTarFile(tw, memberMessage, message); err != nil {
		return err
	}
	if err := addTarFile(tw, memberSignature, signature); err != nil {
		return err
	}
	if err := addTarFile(tw, memberPubkey, pubkey); err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(err, "envelope: closing outer tar")
	}
	return gz.Close()
}

func addTarFile(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Mode:     filePermission,
		Size:     int64(len(data)),
		ModTime:  time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "envelope: writing tar header for %s", name)
	}
	if _, err := tw.Write(data); err != nil {
		return errors.Wrapf(err, "envelope: writing tar content for %s", name)
	}
	return nil
}

// Read opens and parses the envelope at path. If verify is true, the
// outer signature is checked before any inner bytes are interpreted; on
// failure ErrEnvelopeIntegrity is returned and no Parcel is constructed.
func Read(path string, verify bool) (*Parcel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "envelope: opening %s", path)
	}
	defer f.Close()

	return ReadFrom(f, verify)
}

// ReadFrom parses an envelope from r, applying the same verify-before-
// parse sequencing as Read.
func ReadFrom(r io.Reader, verify bool) (*Parcel, error) {
	message, signature, pubkey, err := readOuter(r)
	if err != nil {
		return nil, err
	}

	if verify {
		if len(pubkey) != ed25519.PublicKeySize {
			return nil, errors.Wrapf(ErrEnvelopeIntegrity, "invalid public key size %d", len(pubkey))
		}
		if !ed25519.Verify(ed25519.PublicKey(pubkey), message, signature) {
			return nil, errors.Wrap(ErrEnvelopeIntegrity, "signature verification failed")
		}
	}

	m, err := parseInnerTar(message)
	if err != nil {
		return nil, err
	}

	return &Parcel{
		Manifest:  m,
		PubKey:    ed25519.PublicKey(pubkey),
		Signature: signature,
	}, nil
}

func readOuter(r io.Reader) (message, signature, pubkey []byte, err error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, nil, errors.Wrap(ErrEnvelopeIntegrity, err.Error())
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	members := map[string][]byte{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, errors.Wrap(ErrEnvelopeIntegrity, err.Error())
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(ErrEnvelopeIntegrity, "reading member %s: %s", hdr.Name, err)
		}
		members[hdr.Name] = data
	}

	// Read to the end of the gzip stream so its checksum and length
	// trailer are checked as well.
	if _, err := io.Copy(io.Discard, gz); err != nil {
		return nil, nil, nil, errors.Wrap(ErrEnvelopeIntegrity, err.Error())
	}

	for _, name := range []string{memberMessage, memberSignature, memberPubkey} {
		if _, ok := members[name]; !ok {
			return nil, nil, nil, errors.Wrapf(ErrEnvelopeIntegrity, "missing outer member %q", name)
		}
	}

	return members[memberMessage], members[memberSignature], members[memberPubkey], nil
}

func parseInnerTar(message []byte) (*manifest.Manifest, error) {
	tr := tar.NewReader(bytes.NewReader(message))
	members := map[string][]byte{}
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(manifest.ErrManifestMalformed, err.Error())
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, errors.Wrapf(manifest.ErrManifestMalformed, "reading member %s: %s", hdr.Name, err)
		}
		members[hdr.Name] = data
	}

	raw, ok := members[manifestEntry]
	if !ok {
		return nil, errors.Wrapf(manifest.ErrManifestMalformed, "missing %s", manifestEntry)
	}

	m, err := manifest.ParseDocument(raw)
	if err != nil {
		return nil, err
	}

	names, serviceDefinition, err := manifest.ListedFiles(raw)
	if err != nil {
		return nil, err
	}
	if serviceDefinition != "" && !contains(names, serviceDefinition) {
		names = append(names, serviceDefinition)
	}

	for _, f := range names {
		data, ok := members[f]
		if !ok {
			return nil, errors.Wrapf(manifest.ErrManifestMalformed, "missing file member %q", f)
		}
		if err := m.AddFile(manifest.NewFileFromBytes(f, data)); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
