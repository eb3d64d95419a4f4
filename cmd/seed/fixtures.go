package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	model "simple-social-service/internal/domain/models"
)

const defaultSide = 64

type fixtureFile struct {
	Posts []fixturePost `yaml:"posts"`
}

type fixturePost struct {
	User  string       `yaml:"user"`
	Text  string       `yaml:"text"`
	Image fixtureImage `yaml:"image"`
}

// fixtureImage is either a file on disk or a solid-colour PNG rendered on the fly.
type fixtureImage struct {
	Path   string `yaml:"path"`
	Color  string `yaml:"color"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func loadFixtures(path string) ([]fixturePost, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing fixtures: %w", err)
	}
	if len(file.Posts) == 0 {
		return nil, fmt.Errorf("no posts in %s", path)
	}
	return file.Posts, nil
}

func (f fixturePost) toDTO() (*model.CreatePostDTO, error) {
	data, contentType, err := f.Image.bytes()
	if err != nil {
		return nil, fmt.Errorf("image for %q: %w", f.User, err)
	}
	return &model.CreatePostDTO{
		User: f.User,
		Text: f.Text,
		Image: &model.ImageInput{
			ContentType: contentType,
			Data:        data,
		},
	}, nil
}

func (i fixtureImage) bytes() ([]byte, string, error) {
	if i.Path != "" {
		data, err := os.ReadFile(i.Path)
		if err != nil {
			return nil, "", err
		}
		// content type is sniffed by model.NewImage
		return data, "", nil
	}

	c, err := parseHexColor(i.Color)
	if err != nil {
		return nil, "", err
	}
	w, h := i.Width, i.Height
	if w <= 0 {
		w = defaultSide
	}
	if h <= 0 {
		h = defaultSide
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/png", nil
}

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
