// Package responder answers free text with canned responses chosen by
// keyword. Rules are loaded once and never change afterwards.
package responder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// Placeholder in a response template is replaced with the matched keyword.
const Placeholder = "%keyword%"

var ErrInvalidConfig = errors.New("invalid responder configuration")

const configSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "prio", "keywords", "response"],
    "properties": {
      "name": {"type": "string"},
      "prio": {"type": "integer"},
      "keywords": {"type": "array", "items": {"type": "string"}},
      "response": {"type": "string"}
    }
  }
}`

// Rule binds a keyword set to a response template.
type Rule struct {
	Name     string
	Prio     int
	Response string
	keywords map[string]struct{}
	order    int
}

// Keywords returns the normalized keywords of the rule, sorted.
func (r Rule) Keywords() []string {
	out := make([]string, 0, len(r.keywords))
	for k := range r.keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r Rule) render(keyword string) string {
	return strings.ReplaceAll(r.Response, Placeholder, keyword)
}

type ruleConfig struct {
	Name     string   `json:"name"`
	Prio     int      `json:"prio"`
	Keywords []string `json:"keywords"`
	Response string   `json:"response"`
}

type Responder struct {
	rules []Rule
}

// Load reads the rule file at path.
func Load(path string, logger *zap.Logger) (*Responder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read responder configuration %s: %w", path, err)
	}
	r, err := Parse(data, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse validates data against the configuration schema and builds the
// rule table ordered by (prio, declaration order).
func Parse(data []byte, logger *zap.Logger) (*Responder, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	var configs []ruleConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	rules := make([]Rule, 0, len(configs))
	for i, c := range configs {
		rule := Rule{
			Name:     c.Name,
			Prio:     c.Prio,
			Response: c.Response,
			keywords: make(map[string]struct{}, len(c.Keywords)),
			order:    i,
		}
		for _, k := range c.Keywords {
			upper := strings.ToUpper(k)
			if normalize(upper) != upper {
				logger.Warn("Keyword can never match",
					zap.String("rule", c.Name),
					zap.String("keyword", k),
				)
			}
			rule.keywords[upper] = struct{}{}
		}
		rules = append(rules, rule)

		logger.Info("Responder rule loaded",
			zap.String("rule", rule.Name),
			zap.Int("prio", rule.Prio),
			zap.Strings("keywords", rule.Keywords()),
		)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Prio != rules[j].Prio {
			return rules[i].Prio < rules[j].Prio
		}
		return rules[i].order < rules[j].order
	})

	return &Responder{rules: rules}, nil
}

// Rules returns the rules in match order.
func (r *Responder) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Match returns the response for the first token of text that belongs to a
// rule, trying rules in order for each token. It returns "" if nothing
// matches.
func (r *Responder) Match(text string) string {
	for _, token := range strings.Fields(normalize(text)) {
		for _, rule := range r.rules {
			if _, ok := rule.keywords[token]; ok {
				return rule.render(token)
			}
		}
	}
	return ""
}

// normalize uppercases letters and digits and turns every other rune into a
// space.
func normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return ' '
	}, text)
}
