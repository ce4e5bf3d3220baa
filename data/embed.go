package data

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"songsmith/backend/models"
)

//go:embed templates.json
var TemplatesJSON []byte

//go:embed block_types.json
var BlockTypesJSON []byte

// Templates decodes the embedded song structure presets.
func Templates() ([]models.SongTemplate, error) {
	var templates []models.SongTemplate
	if err := json.Unmarshal(TemplatesJSON, &templates); err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}
	return templates, nil
}

// Template returns the preset with the given id.
func Template(id string) (models.SongTemplate, bool, error) {
	templates, err := Templates()
	if err != nil {
		return models.SongTemplate{}, false, err
	}
	for _, t := range templates {
		if t.ID == id {
			return t, true, nil
		}
	}
	return models.SongTemplate{}, false, nil
}

// BlockTypes decodes the embedded block type catalogue.
func BlockTypes() ([]models.BlockTypeInfo, error) {
	var infos []models.BlockTypeInfo
	if err := json.Unmarshal(BlockTypesJSON, &infos); err != nil {
		return nil, fmt.Errorf("could not parse block types: %w", err)
	}
	return infos, nil
}

// BlockLabel returns the catalogue label for t, falling back to the capitalized type.
func BlockLabel(t models.BlockType) string {
	infos, err := BlockTypes()
	if err == nil {
		for _, info := range infos {
			if info.Type == t {
				return info.Label
			}
		}
	}
	return t.Capitalized()
}
