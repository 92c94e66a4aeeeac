package nft

import (
	"path/filepath"
	"strings"
)

var imageTypes = map[string][]string{
	"image/svg+xml": {".svg"},
	"image/png":     {".png"},
	"image/jpeg":    {".jpeg", ".jpg"},
	"image/gif":     {".gif"},
}

type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

func (img *Image) Validate() error {
	ve := &ValidationError{}
	if len(img.Data) == 0 {
		ve.Add("file", "File is empty!")
	} else if len(img.Data) > ImageMaxSize {
		ve.Add("file", "File is larger than 20MB!")
	}
	ext := strings.ToLower(filepath.Ext(img.Name))
	ct := strings.ToLower(strings.TrimSpace(strings.Split(img.ContentType, ";")[0]))
	if !allowedImage(ct, ext) {
		ve.Add("file", "Only SVG, PNG, JPG and GIF images are accepted!")
	}
	return ve.orNil()
}

func allowedImage(contentType, ext string) bool {
	for ct, exts := range imageTypes {
		if contentType != "" && contentType != ct && contentType != "application/octet-stream" {
			continue
		}
		for _, e := range exts {
			if e == ext {
				return true
			}
		}
	}
	return false
}
