package nft

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`(?i)^(https?|ftp)://[^\s/$.?#].[^\s]*$`)

// Metadata is the ERC-721 metadata JSON uploaded before minting.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ExternalURL string `json:"external_url,omitempty"`
}

type MintForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ExternalURL string `json:"external_url"`
}

func IsValidURL(s string) bool {
	return urlPattern.MatchString(s)
}

func (f *MintForm) Validate() error {
	ve := &ValidationError{}
	if strings.TrimSpace(f.Name) == "" {
		ve.Add("name", "Name is required!")
	}
	if strings.TrimSpace(f.Description) == "" {
		ve.Add("description", "Description is required!")
	}
	if f.ExternalURL != "" && !IsValidURL(f.ExternalURL) {
		ve.Add("external_url", "External url is not valid!")
	}
	return ve.orNil()
}

func BuildMetadata(f *MintForm, image string) (*Metadata, error) {
	err := f.Validate()
	if err != nil {
		return nil, err
	}
	if !IsContentAddress(image) {
		ve := &ValidationError{}
		ve.Add("image", "Image URL must start with '"+ContentScheme+"'")
		return nil, ve
	}
	return &Metadata{
		Name:        f.Name,
		Description: f.Description,
		Image:       image,
		ExternalURL: f.ExternalURL,
	}, nil
}

func (m *Metadata) Matches(search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), strings.ToLower(search))
}
