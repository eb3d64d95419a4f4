package model

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
)

const imageRefPrefix = "sha256:"

// Image is an immutable blob addressed by the hash of its bytes.
type Image struct {
	Ref         string `json:"ref"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"data"`
}

type ImageInput struct {
	ContentType string
	Data        []byte
}

// ImageRefFor returns the content address of data. Equal bytes always yield the same ref.
func ImageRefFor(data []byte) string {
	sum := sha256.Sum256(data)
	return imageRefPrefix + hex.EncodeToString(sum[:])
}

// NewImage builds the stored form of an upload, sniffing the content type when the
// client did not send one.
func NewImage(in *ImageInput) *Image {
	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(in.Data)
	}
	return &Image{
		Ref:         ImageRefFor(in.Data),
		ContentType: contentType,
		Size:        int64(len(in.Data)),
		Data:        in.Data,
	}
}
