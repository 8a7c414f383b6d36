package envelope_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homeland-social/parcel/envelope"
	"github.com/homeland-social/parcel/manifest"
	"github.com/homeland-social/parcel/version"
)

func exampleManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	m := manifest.New("example", version.MustParse("0.9.8"))
	m.SetServiceDefinition(manifest.NewFileFromBytes("example.yml", []byte("configs:\n  main:\n    file: example.cfg\n")))
	require.NoError(t, m.AddFile(manifest.NewFileFromBytes("example.cfg", []byte("shanty:\n  oauth_token: x\n"))))
	return m
}

func TestWriteToReadFromRoundTrip(t *testing.T) {
	m := exampleManifest(t)

	var buf bytes.Buffer
	key, err := envelope.WriteTo(&buf, m, nil)
	require.NoError(t, err)
	require.Len(t, key.Seed(), 32)

	p, err := envelope.ReadFrom(&buf, true)
	require.NoError(t, err)

	require.Equal(t, m.Name(), p.Manifest.Name())
	require.True(t, m.Version().Equal(p.Manifest.Version()))
	require.Equal(t, m.ServiceDefinition(), p.Manifest.ServiceDefinition())

	files := p.Manifest.Files()
	require.Len(t, files, 2)
	got := p.Manifest.GetFile("example.cfg")
	require.NotNil(t, got)
	require.Equal(t, "shanty:\n  oauth_token: x\n", string(got.Bytes))
}

func TestReadFromDetectsTampering(t *testing.T) {
	m := exampleManifest(t)

	var buf bytes.Buffer
	_, err := envelope.WriteTo(&buf, m, nil)
	require.NoError(t, err)

	tampered := buf.Bytes()
	for i := len(tampered) - 1; i >= 0; i-- {
		if tampered[i] != 0xff {
			tampered[i] ^= 0xff
			break
		}
	}

	_, err = envelope.ReadFrom(bytes.NewReader(tampered), true)
	require.Error(t, err)
}

func TestReadFromSkipsVerificationWhenAsked(t *testing.T) {
	m := exampleManifest(t)

	var buf bytes.Buffer
	_, err := envelope.WriteTo(&buf, m, nil)
	require.NoError(t, err)

	p, err := envelope.ReadFrom(&buf, false)
	require.NoError(t, err)
	require.Equal(t, m.Name(), p.Manifest.Name())
}

func TestWriteRefusesToOverwriteWithoutForce(t *testing.T) {
	m := exampleManifest(t)
	dir := t.TempDir() + "/out.pcl"

	_, err := envelope.Write(dir, m, nil, false)
	require.NoError(t, err)

	_, err = envelope.Write(dir, m, nil, false)
	require.Error(t, err)

	_, err = envelope.Write(dir, m, nil, true)
	require.NoError(t, err)
}
