package types

import (
	"encoding/json"
	"fmt"
)

// InputItem is one piece of a UserInput submission: text, a remote image
// referenced by URL, or a local image referenced by filesystem path.
type InputItem interface {
	InputItemType() string
}

// TextInput carries plain user-authored text.
type TextInput struct {
	Text string `json:"text"`
}

func (TextInput) InputItemType() string { return "text" }

// ImageInput references an image hosted at a URL.
type ImageInput struct {
	ImageURL string `json:"image_url"`
}

func (ImageInput) InputItemType() string { return "image" }

// LocalImageInput references an image on the local filesystem; the
// orchestrator reads and base64-encodes it before it reaches the model
// client.
type LocalImageInput struct {
	Path string `json:"path"`
}

func (LocalImageInput) InputItemType() string { return "local_image" }

type rawInputItem struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Path     string `json:"path,omitempty"`
}

// MarshalInputItem renders an InputItem in its tagged-variant wire form.
func MarshalInputItem(item InputItem) ([]byte, error) {
	switch v := item.(type) {
	case TextInput:
		return json.Marshal(rawInputItem{Type: "text", Text: v.Text})
	case ImageInput:
		return json.Marshal(rawInputItem{Type: "image", ImageURL: v.ImageURL})
	case LocalImageInput:
		return json.Marshal(rawInputItem{Type: "local_image", Path: v.Path})
	default:
		return nil, fmt.Errorf("marshal input item: unknown variant %T", item)
	}
}

// UnmarshalInputItem parses a tagged-variant InputItem.
func UnmarshalInputItem(data []byte) (InputItem, error) {
	var raw rawInputItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal input item: %w", err)
	}
	switch raw.Type {
	case "text":
		return TextInput{Text: raw.Text}, nil
	case "image":
		return ImageInput{ImageURL: raw.ImageURL}, nil
	case "local_image":
		return LocalImageInput{Path: raw.Path}, nil
	default:
		return nil, fmt.Errorf("unmarshal input item: unknown type %q", raw.Type)
	}
}
