package artifact_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/pageverify/internal/artifact"
)

func fakePNG(payload string) []byte {
	return append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, payload...)
}

func TestSave_CreatesParentDirs(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()

	n, err := artifact.Save(fs, artifact.DefaultPath, fakePNG("first"))
	require.NoError(t, err)
	assert.Equal(t, 13, n)

	got, err := afero.ReadFile(fs, artifact.DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, fakePNG("first"), got)
}

func TestSave_OverwritesPreviousRun(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()

	_, err := artifact.Save(fs, artifact.DefaultPath, fakePNG("a much longer first screenshot"))
	require.NoError(t, err)
	_, err = artifact.Save(fs, artifact.DefaultPath, fakePNG("second"))
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, artifact.DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, fakePNG("second"), got)
}

func TestSave_FileInWorkingDir(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()

	_, err := artifact.Save(fs, "shot.png", fakePNG("x"))
	require.NoError(t, err)

	ok, err := afero.Exists(fs, "shot.png")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSave_RejectsBadData(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()

	_, err := artifact.Save(fs, "empty.png", nil)
	assert.ErrorIs(t, err, artifact.ErrEmpty)

	_, err = artifact.Save(fs, "jpeg.png", []byte{0xff, 0xd8, 0xff, 0xe0})
	assert.ErrorIs(t, err, artifact.ErrNotPNG)

	ok, _ := afero.Exists(fs, "jpeg.png")
	assert.False(t, ok)
}

func TestSave_ReadOnlyFs(t *testing.T) {
	t.Parallel()
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := artifact.Save(fs, artifact.DefaultPath, fakePNG("x"))
	assert.Error(t, err)
}
