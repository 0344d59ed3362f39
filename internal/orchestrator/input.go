package orchestrator

import "github.com/agentcore/agentcore/pkg/types"

// userInputToResponseItem collapses one UserInput submission's items into
// a single user-role message. Image items carry no text representation in
// ContentItem (see pkg/types/response.go), so they're noted by name rather
// than silently dropped.
func userInputToResponseItem(items []types.InputItem) types.ResponseItem {
	content := make([]types.ContentItem, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case types.TextInput:
			content = append(content, types.ContentItem{Type: types.ContentInputText, Text: v.Text})
		case types.ImageInput:
			content = append(content, types.ContentItem{Type: types.ContentInputText, Text: "[image: " + v.ImageURL + "]"})
		case types.LocalImageInput:
			content = append(content, types.ContentItem{Type: types.ContentInputText, Text: "[image: " + v.Path + "]"})
		}
	}
	return types.ResponseItem{Type: types.ResponseItemMessage, Role: "user", Content: content}
}
