package sentinel

import (
	"regexp"
	"strings"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

const autogeneratedTitle = "Autogenerated Microsoft Sentinel Rule"

func defaultRule() map[string]any {
	return map[string]any{
		"displayName":         autogeneratedTitle,
		"description":         autogeneratedTitle,
		"severity":            "medium",
		"enabled":             true,
		"query":               "",
		"queryFrequency":      "PT30M",
		"queryPeriod":         "PT30M",
		"triggerOperator":     "GreaterThan",
		"triggerThreshold":    0,
		"suppressionDuration": "PT2H30M",
		"suppressionEnabled":  true,
		"tactics":             []any{},
		"techniques":          []any{},
	}
}

var severities = map[ast.Severity]string{
	ast.SeverityCritical:      "high",
	ast.SeverityHigh:          "high",
	ast.SeverityMedium:        "medium",
	ast.SeverityLow:           "low",
	ast.SeverityInformational: "informational",
}

var techniqueTag = regexp.MustCompile(`^attack\.(t\d{4}(\.\d{3})?)$`)

// attack splits ATT&CK tags into Sentinel tactics and techniques.
// `attack.t1059.001` is a technique, `attack.defense_evasion` is the tactic
// DefenseEvasion.
func attack(tags []string) (tactics, techniques []any) {
	tactics, techniques = []any{}, []any{}
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		if m := techniqueTag.FindStringSubmatch(tag); m != nil {
			techniques = append(techniques, strings.ToUpper(m[1]))
			continue
		}
		name, ok := strings.CutPrefix(tag, "attack.")
		if !ok || name == "" || strings.HasPrefix(name, "g") || strings.HasPrefix(name, "s0") {
			continue
		}
		var sb strings.Builder
		for _, part := range strings.Split(name, "_") {
			if part == "" {
				continue
			}
			sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
		tactics = append(tactics, sb.String())
	}
	return tactics, techniques
}

func populate(doc map[string]any, c render.RuleContent) []error {
	doc["displayName"] = c.Title
	doc["description"] = c.Description
	doc["severity"] = c.Severity
	doc["query"] = c.Query
	doc["tactics"], doc["techniques"] = attack(c.Meta.Tags)
	return nil
}

// NewRule builds the analytics rule renderer. The rule query is the KQL query
// of NewQuery.
func NewRule() (*render.QueryRender, error) {
	cfg, err := queryConfig(RuleDetails)
	if err != nil {
		return nil, err
	}

	rule, err := render.NewRuleRender(render.RuleConfig{
		Template:           defaultRule(),
		Severities:         severities,
		AutogeneratedTitle: autogeneratedTitle,
		Populate:           populate,
	})
	if err != nil {
		return nil, err
	}
	cfg.Finalizer = rule

	return render.NewQueryRender(cfg)
}
