package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Templates []seedTemplate `yaml:"templates"`
}

type seedTemplate struct {
	TypeKey                  string                          `yaml:"typeKey"`
	DisplayName              string                          `yaml:"displayName"`
	Class                    constant.DocumentClass          `yaml:"class"`
	ConcursoVisibility       constant.ConcursoVisibility     `yaml:"concursoVisibility"`
	UniquePerRecord          bool                            `yaml:"uniquePerRecord"`
	SignerCanSign            bool                            `yaml:"signerCanSign"`
	SignerCanUploadSigned    bool                            `yaml:"signerCanUploadSigned"`
	AdminCanSign             bool                            `yaml:"adminCanSign"`
	AdminCanSendForSignature bool                            `yaml:"adminCanSendForSignature"`
	VisibilityRules          map[constant.DocumentState]Rule `yaml:"visibilityRules"`
	OnDraftCreated           model.Effect                    `yaml:"onDraftCreated"`
	OnFullySigned            model.Effect                    `yaml:"onFullySigned"`
	TemplateFileID           string                          `yaml:"templateFileId"`
	FileNamePattern          string                          `yaml:"fileNamePattern"`
	IsActive                 *bool                           `yaml:"isActive"`
}

// ParseSeed decodes a YAML list of template configurations.
func ParseSeed(data []byte) ([]model.TemplateConfig, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding template seed: %w", err)
	}

	seen := map[string]bool{}
	out := make([]model.TemplateConfig, 0, len(f.Templates))
	for i, t := range f.Templates {
		if t.TypeKey == "" {
			return nil, fmt.Errorf("template %d: typeKey is required", i)
		}
		if seen[t.TypeKey] {
			return nil, fmt.Errorf("template %s: duplicate typeKey", t.TypeKey)
		}
		seen[t.TypeKey] = true

		rules := t.VisibilityRules
		if rules == nil {
			rules = map[constant.DocumentState]Rule{}
		}
		for state := range rules {
			if !state.Valid() {
				return nil, fmt.Errorf("template %s: unknown state %q in visibility rules", t.TypeKey, state)
			}
		}
		raw, err := json.Marshal(rules)
		if err != nil {
			return nil, err
		}

		visibility := t.ConcursoVisibility
		if visibility == "" {
			visibility = constant.VisibilityBoth
		}
		active := true
		if t.IsActive != nil {
			active = *t.IsActive
		}

		cfg := model.TemplateConfig{
			TypeKey:                  t.TypeKey,
			DisplayName:              t.DisplayName,
			Class:                    t.Class,
			ConcursoVisibility:       visibility,
			UniquePerRecord:          t.UniquePerRecord,
			SignerCanSign:            t.SignerCanSign,
			SignerCanUploadSigned:    t.SignerCanUploadSigned,
			AdminCanSign:             t.AdminCanSign,
			AdminCanSendForSignature: t.AdminCanSendForSignature,
			VisibilityRules:          string(raw),
			OnDraftCreated:           t.OnDraftCreated,
			OnFullySigned:            t.OnFullySigned,
			TemplateFileID:           t.TemplateFileID,
			FileNamePattern:          t.FileNamePattern,
			IsActive:                 active,
		}
		out = append(out, normalize(cfg))
	}
	return out, nil
}

func LoadSeed(path string) ([]model.TemplateConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template seed: %w", err)
	}
	return ParseSeed(data)
}
