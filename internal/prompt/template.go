package prompt

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Variables holds the data injected into an instruction template.
type Variables struct {
	Title      string // Chosen title
	Topic      string // Chosen topic
	Minutes    string // Target length in minutes
	Chars      string // Target character count (narrative)
	Tone       string // Resolved tone instruction
	Persona    string // Persona rules
	Female     string // Female protagonist
	Male       string // Male protagonist
	Supporting string // Supporting cast, comma separated
}

// Render replaces {{variable}} placeholders in template with actual values.
// Supports the following variables:
// - {{title}} - Chosen title
// - {{topic}} - Chosen topic
// - {{minutes}} - Target length in minutes
// - {{chars}} - Target character count
// - {{tone}} - Tone instruction
// - {{persona}} - Persona rules (empty if none)
// - {{female}}, {{male}} - Protagonists (narrative only)
// - {{supporting}} - Supporting cast (empty if none)
//
// Unknown placeholders are left as written.
func Render(template string, vars Variables) string {
	replacements := map[string]string{
		"{{title}}":      vars.Title,
		"{{topic}}":      vars.Topic,
		"{{minutes}}":    vars.Minutes,
		"{{chars}}":      vars.Chars,
		"{{tone}}":       vars.Tone,
		"{{persona}}":    vars.Persona,
		"{{female}}":     vars.Female,
		"{{male}}":       vars.Male,
		"{{supporting}}": vars.Supporting,
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// LoadFromFile loads an instruction template from a file.
func LoadFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read instruction template %s: %w", path, err)
	}
	return string(data), nil
}

func variablesFor(in GenerationInput, toneText string) Variables {
	return Variables{
		Title:      in.Title,
		Topic:      in.Topic,
		Minutes:    strconv.Itoa(in.TargetMinutes),
		Chars:      strconv.Itoa(TargetChars(in.TargetMinutes)),
		Tone:       toneText,
		Persona:    in.PersonaRules,
		Female:     in.Characters.FemaleProtagonist,
		Male:       in.Characters.MaleProtagonist,
		Supporting: strings.Join(in.Characters.Supporting, ", "),
	}
}
