// Package fxml indexes FXML view files: their fx:controller reference and the
// elements carrying an fx:id.
package fxml

// DefaultTagName is used when an id cannot be mapped back to its element.
const DefaultTagName = "Node"

// Element is one tag carrying an fx:id attribute.
type Element struct {
	TagName string `json:"tag_name"`
	ID      string `json:"id"`
}

// ViewDescriptor is the parsed form of one FXML file. The controller fields are
// empty when the view declares no fx:controller.
type ViewDescriptor struct {
	Path                string    `json:"path"`
	WorkspaceRoot       string    `json:"workspace_root"`
	ControllerClassName string    `json:"controller_class_name,omitempty"`
	ControllerFilePath  string    `json:"controller_file_path,omitempty"`
	Elements            []Element `json:"elements"`
}

// HasController reports whether the view names a controller class.
func (d ViewDescriptor) HasController() bool {
	return d.ControllerClassName != ""
}

// ElementIDs returns the set of ids declared in the view.
func (d ViewDescriptor) ElementIDs() map[string]bool {
	ids := make(map[string]bool, len(d.Elements))
	for _, el := range d.Elements {
		ids[el.ID] = true
	}
	return ids
}

// TagFor returns the tag name of the first element with the given id, or
// DefaultTagName.
func (d ViewDescriptor) TagFor(id string) string {
	for _, el := range d.Elements {
		if el.ID == id {
			return el.TagName
		}
	}
	return DefaultTagName
}

func (d ViewDescriptor) clone() ViewDescriptor {
	out := d
	out.Elements = append([]Element(nil), d.Elements...)
	return out
}
