package probe

import (
	"regexp"

	"github.com/huangsam/stylemetrics/schema"
)

// PHPStanMaxLevel is the level reported as maximum static analysis.
const PHPStanMaxLevel = "8"

var levelRe = regexp.MustCompile(`level:\s*(\d+)`)

// PHPStan probes the static-analysis configuration.
func PHPStan() Probe {
	return Probe{
		ID:          schema.SectionPHPStan,
		Description: "PHPStan level and rule-set add-ons",
		Candidates:  []string{"phpstan.neon.dist", "phpstan.neon"},
		Fields: []Field{
			{Name: "level", Kind: Capture, Pattern: levelRe, Default: schema.UnknownValue},
			{Name: "strict_rules", Kind: Presence, Substring: "phpstan-strict-rules"},
			{Name: "deprecation_rules", Kind: Presence, Substring: "phpstan-deprecation-rules"},
		},
		Conclude: func(fields *schema.Tree) string {
			level, _ := fields.Text("level")
			if level == PHPStanMaxLevel {
				return "maximum level static analysis"
			}
			return "level " + level + " static analysis"
		},
	}
}

// CSFixer probes the code-style fixer configuration.
func CSFixer() Probe {
	return Probe{
		ID:          schema.SectionCSFixer,
		Description: "PHP-CS-Fixer presets and rules",
		Candidates:  []string{".php-cs-fixer.php", ".php-cs-fixer.dist.php"},
		Fields: []Field{
			{Name: "has_psr2", Kind: Presence, Substring: "@PSR2"},
			{Name: "has_psr12", Kind: Presence, Substring: "@PSR12"},
			{Name: "has_strict_types", Kind: Presence, Substring: "declare_strict_types"},
			{Name: "has_array_syntax", Kind: Presence, Substring: "array_syntax"},
			{Name: "rules_count", Kind: Tally, Substring: "=>"},
		},
		Conclude: func(*schema.Tree) string {
			return "custom rules configured"
		},
	}
}

// Builtins returns the probes run on every extraction, in emission order.
func Builtins() []Probe {
	return []Probe{PHPStan(), CSFixer()}
}
