package promptcatalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var promptArgumentPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// PromptFromSkillFile converts one SKILL.md into a prompt definition.
func PromptFromSkillFile(path string) (Prompt, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Prompt{}, fmt.Errorf("read skill file %s: %w", path, err)
	}
	return parseSkill(string(content), filepath.Base(filepath.Dir(path)), filepath.Clean(path))
}

// skillFrontmatter is the YAML block between the leading "---" lines.
type skillFrontmatter struct {
	Name        string     `yaml:"name"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Required    stringList `yaml:"required"`
}

// stringList accepts a YAML sequence or a comma-separated scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var out []string
		for _, part := range strings.Split(node.Value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		*l = out
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("required: expected a list or string at line %d", node.Line)
	}
}

// parseSkill builds a prompt from SKILL.md content. dirName is the fallback
// prompt name.
func parseSkill(content, dirName, sourcePath string) (Prompt, error) {
	rawFrontmatter, body := parseFrontmatterAndBody(content)

	var meta skillFrontmatter
	if strings.TrimSpace(rawFrontmatter) != "" {
		if err := yaml.Unmarshal([]byte(rawFrontmatter), &meta); err != nil {
			return Prompt{}, fmt.Errorf("parse frontmatter in %s: %w", sourcePath, err)
		}
	}

	name := firstNonEmpty(meta.Name, dirName)
	description := strings.TrimSpace(meta.Description)
	if description == "" {
		description = fmt.Sprintf("Prompt loaded from %s", dirName)
	}

	template := strings.TrimSpace(body)
	if template == "" {
		template = fmt.Sprintf("Use skill %s to complete the task.", name)
	}

	args := extractPromptArguments(template)
	for _, required := range meta.Required {
		for i := range args {
			if args[i].Name == required {
				args[i].Required = true
			}
		}
	}

	return Prompt{
		Name:        name,
		Title:       strings.TrimSpace(meta.Title),
		Description: description,
		Arguments:   args,
		Template:    template,
		SourcePath:  sourcePath,
	}, nil
}

// parseFrontmatterAndBody splits content into the raw frontmatter text and
// the body. Content without a closed "---" block is all body.
func parseFrontmatterAndBody(raw string) (string, string) {
	normalized := normalizeLineEndings(strings.TrimPrefix(raw, "\ufeff"))
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", normalized
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return "", normalized
}

func normalizeLineEndings(input string) string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	return strings.ReplaceAll(input, "\r", "\n")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func normalizePrompt(prompt Prompt) Prompt {
	prompt.Name = strings.TrimSpace(prompt.Name)
	prompt.Title = strings.TrimSpace(prompt.Title)
	prompt.Description = strings.TrimSpace(prompt.Description)
	prompt.Template = strings.TrimSpace(prompt.Template)
	prompt.Arguments = normalizePromptArguments(prompt.Arguments)
	return prompt
}

// normalizePromptArguments drops blanks and exact duplicates and sorts by
// name. Argument names are case-sensitive.
func normalizePromptArguments(args []PromptArgument) []PromptArgument {
	if len(args) == 0 {
		return nil
	}

	normalized := make([]PromptArgument, 0, len(args))
	seen := make(map[string]int, len(args))
	for _, arg := range args {
		name := strings.TrimSpace(arg.Name)
		if name == "" {
			continue
		}
		if idx, ok := seen[name]; ok {
			normalized[idx].Required = normalized[idx].Required || arg.Required
			continue
		}
		seen[name] = len(normalized)
		normalized = append(normalized, PromptArgument{
			Name:     name,
			Required: arg.Required,
		})
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Name < normalized[j].Name
	})
	return normalized
}

func extractPromptArguments(template string) []PromptArgument {
	matches := promptArgumentPattern.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}

	args := make([]PromptArgument, 0, len(matches))
	for _, match := range matches {
		if len(match) < 2 {
			continue
		}
		args = append(args, PromptArgument{Name: strings.TrimSpace(match[1])})
	}
	return normalizePromptArguments(args)
}
