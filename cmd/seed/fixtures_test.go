package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simple-social-service/internal/infrastructure/config"
	"simple-social-service/internal/infrastructure/logger"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "posts.yaml", `
posts:
  - user: alice
    text: "hi"
    image:
      color: "#ff0000"
      width: 4
      height: 2
  - user: bob
    image:
      path: cat.jpg
`)

	fixtures, err := loadFixtures(path)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	assert.Equal(t, "alice", fixtures[0].User)
	assert.Equal(t, "hi", fixtures[0].Text)
	assert.Equal(t, 4, fixtures[0].Image.Width)
	assert.Equal(t, "cat.jpg", fixtures[1].Image.Path)
	assert.Empty(t, fixtures[1].Text)
}

func TestLoadFixtures_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadFixtures(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = loadFixtures(writeFile(t, dir, "empty.yaml", "posts: []\n"))
	assert.Error(t, err)

	_, err = loadFixtures(writeFile(t, dir, "broken.yaml", "posts: [\n"))
	assert.Error(t, err)
}

func TestFixturePost_ToDTO_RendersColour(t *testing.T) {
	f := fixturePost{User: "carol", Text: "lunch", Image: fixtureImage{Color: "#4caf50", Width: 3, Height: 5}}

	dto, err := f.toDTO()
	require.NoError(t, err)
	assert.Equal(t, "carol", dto.User)
	assert.Equal(t, "lunch", dto.Text)
	require.NotNil(t, dto.Image)
	assert.Equal(t, "image/png", dto.Image.ContentType)

	img, err := png.Decode(bytes.NewReader(dto.Image.Data))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())
	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{0x4c, 0xaf, 0x50, 0xff}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestFixturePost_ToDTO_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "raw.bin", "\x89PNG\r\n\x1a\nrest")

	dto, err := fixturePost{User: "bob", Image: fixtureImage{Path: path}}.toDTO()
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\nrest"), dto.Image.Data)
	assert.Empty(t, dto.Image.ContentType)

	_, err = fixturePost{User: "bob", Image: fixtureImage{Path: filepath.Join(dir, "nope")}}.toDTO()
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#0a0b0c")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x0a), c.R)
	assert.Equal(t, uint8(0x0b), c.G)
	assert.Equal(t, uint8(0x0c), c.B)
	assert.Equal(t, uint8(0xff), c.A)

	for _, bad := range []string{"", "#fff", "zzzzzz", "#1234567"} {
		_, err := parseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestRun_RejectsBeforeTouchingDatabase(t *testing.T) {
	tests := []struct {
		name     string
		storage  string
		fixtures string
	}{
		{name: "memory storage", storage: config.StorageMemory, fixtures: "seed/posts.yaml"},
		{name: "missing fixture file", storage: config.StoragePostgres, fixtures: filepath.Join(t.TempDir(), "none.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Database: config.Database{Storage: tt.storage}}
			assert.Equal(t, 1, run(context.Background(), cfg, logger.New("test"), tt.fixtures))
		})
	}
}
