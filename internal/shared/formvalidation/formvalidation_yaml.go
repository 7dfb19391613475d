package formvalidation

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

type ruleSetDocument struct {
	Fields map[string]Rule `yaml:"fields"`
}

// ParseRuleSets decodes a YAML document of named rule sets:
//
//	account_password:
//	  fields:
//	    password: {required: true, min_length: 8}
//	    confirmPassword: {required: true, match: password}
func ParseRuleSets(data []byte) (map[string]*RuleSet, error) {
	var docs map[string]ruleSetDocument
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode rule sets: %w", err)
	}

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]*RuleSet, len(docs))
	for _, name := range names {
		rs, err := NewRuleSet(docs[name].Fields)
		if err != nil {
			return nil, fmt.Errorf("rule set %s: %w", name, err)
		}
		out[name] = rs
	}
	return out, nil
}
