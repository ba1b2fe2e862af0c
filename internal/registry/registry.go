package registry

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/SeakMengs/AutoActa/internal/apperror"
	"github.com/SeakMengs/AutoActa/internal/constant"
	"github.com/SeakMengs/AutoActa/internal/model"
	"go.uber.org/zap"
)

// TemplateSource is the read side of the template configuration table.
type TemplateSource interface {
	GetTemplateConfig(ctx context.Context, typeKey string) (*model.TemplateConfig, error)
	ListTemplateConfigs(ctx context.Context, activeOnly bool) ([]model.TemplateConfig, error)
}

// Rule lists who may see a document in one state. Empty lists allow anyone.
type Rule struct {
	Roles  []string `json:"roles" yaml:"roles"`
	Groups []string `json:"groups" yaml:"groups"`
}

type Rules map[constant.DocumentState]Rule

// Registry answers per-type questions for the composer and the state machine.
type Registry struct {
	source TemplateSource
	logger *zap.SugaredLogger
}

func New(source TemplateSource, logger *zap.SugaredLogger) *Registry {
	return &Registry{source: source, logger: logger}
}

// ClassOf returns the configured class, or derives it from the type key marker.
func ClassOf(cfg model.TemplateConfig) constant.DocumentClass {
	if cfg.Class != "" && cfg.Class != constant.ClassOther {
		return cfg.Class
	}

	key := strings.ToUpper(cfg.TypeKey)
	switch {
	case strings.Contains(key, "RESOLUCION"), strings.Contains(key, "RESOLUTION"):
		return constant.ClassResolution
	case strings.Contains(key, "ACTA"), strings.Contains(key, "MINUTES"):
		return constant.ClassMinutes
	case strings.Contains(key, "CERTIFICADO"), strings.Contains(key, "CERTIFICATE"):
		return constant.ClassCertificate
	}
	return constant.ClassOther
}

func normalize(cfg model.TemplateConfig) model.TemplateConfig {
	cfg.Class = ClassOf(cfg)
	return cfg
}

// Get returns the active configuration of typeKey.
func (r *Registry) Get(ctx context.Context, typeKey string) (model.TemplateConfig, error) {
	cfg, err := r.source.GetTemplateConfig(ctx, typeKey)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return model.TemplateConfig{}, apperror.NotConfigured("document type %s is not configured", typeKey)
		}
		return model.TemplateConfig{}, err
	}
	if cfg == nil || !cfg.IsActive {
		return model.TemplateConfig{}, apperror.NotConfigured("document type %s is not configured", typeKey)
	}
	return normalize(*cfg), nil
}

// GetFor is Get restricted to templates visible for the record kind.
func (r *Registry) GetFor(ctx context.Context, typeKey string, kind constant.RecordKind) (model.TemplateConfig, error) {
	cfg, err := r.Get(ctx, typeKey)
	if err != nil {
		return cfg, err
	}
	if !IsVisibleFor(cfg, kind) {
		return model.TemplateConfig{}, apperror.NotConfigured("document type %s is not available for %s records", typeKey, kind)
	}
	return cfg, nil
}

func IsVisibleFor(cfg model.TemplateConfig, kind constant.RecordKind) bool {
	if cfg.ConcursoVisibility == constant.VisibilityBoth {
		return true
	}
	return string(cfg.ConcursoVisibility) == string(kind)
}

func (r *Registry) List(ctx context.Context, activeOnly bool) ([]model.TemplateConfig, error) {
	cfgs, err := r.source.ListTemplateConfigs(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	out := make([]model.TemplateConfig, 0, len(cfgs))
	for _, c := range cfgs {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, normalize(c))
	}
	return out, nil
}

// ListFor returns the active templates a record of the given kind may use.
func (r *Registry) ListFor(ctx context.Context, kind constant.RecordKind) ([]model.TemplateConfig, error) {
	cfgs, err := r.List(ctx, true)
	if err != nil {
		return nil, err
	}

	out := make([]model.TemplateConfig, 0, len(cfgs))
	for _, c := range cfgs {
		if IsVisibleFor(c, kind) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ParseRules decodes the visibility JSON. A blank document means no rules.
func ParseRules(raw string) (Rules, error) {
	rules := Rules{}
	if strings.TrimSpace(raw) == "" {
		return rules, nil
	}
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return Rules{}, apperror.MalformedRules(err, "visibility rules could not be parsed")
	}
	return rules, nil
}

func matches(allowed []string, v string) bool {
	if len(allowed) == 0 {
		return true
	}
	return slices.ContainsFunc(allowed, func(a string) bool {
		return strings.EqualFold(a, v)
	})
}

// IsVisibleTo reports whether a member with role and group may see a document of cfg in state.
// Malformed rules make the document invisible.
func (r *Registry) IsVisibleTo(cfg model.TemplateConfig, state constant.DocumentState, role, group string) bool {
	rules, err := ParseRules(cfg.VisibilityRules)
	if err != nil {
		r.logger.Warnw("ignoring malformed visibility rules", "typeKey", cfg.TypeKey, "error", err)
		return false
	}

	rule, ok := rules[state]
	if !ok {
		return false
	}
	return matches(rule.Roles, role) && matches(rule.Groups, group)
}
