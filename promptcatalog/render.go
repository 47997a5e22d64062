package promptcatalog

import (
	"fmt"
	"strings"
)

const maxRenderedPromptBytes = 128 * 1024

// Render substitutes {{key}} placeholders with arguments. Unknown
// placeholders are left as written. The output is capped at 128 KiB.
func Render(template string, arguments map[string]string) (string, error) {
	if template == "" || len(arguments) == 0 {
		return template, nil
	}

	normalizedArgs := make(map[string]string, len(arguments))
	for key, value := range arguments {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		normalizedArgs[trimmedKey] = strings.ReplaceAll(value, "\x00", "")
	}

	matches := promptArgumentPattern.FindAllStringSubmatchIndex(template, -1)
	if len(matches) == 0 || len(normalizedArgs) == 0 {
		return template, nil
	}

	var b strings.Builder
	b.Grow(len(template))
	last := 0

	for _, match := range matches {
		start, end := match[0], match[1]
		key := template[match[2]:match[3]]

		if err := appendBounded(&b, template[last:start]); err != nil {
			return "", err
		}
		replacement, ok := normalizedArgs[key]
		if !ok {
			replacement = template[start:end]
		}
		if err := appendBounded(&b, replacement); err != nil {
			return "", err
		}
		last = end
	}

	if err := appendBounded(&b, template[last:]); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MissingRequired returns required arguments of prompt that are absent or
// blank in args.
func MissingRequired(prompt Prompt, args map[string]string) []string {
	var missing []string
	for _, arg := range prompt.Arguments {
		if !arg.Required {
			continue
		}
		if strings.TrimSpace(args[arg.Name]) == "" {
			missing = append(missing, arg.Name)
		}
	}
	return missing
}

func appendBounded(builder *strings.Builder, segment string) error {
	if builder.Len()+len(segment) > maxRenderedPromptBytes {
		return fmt.Errorf("rendered prompt exceeds %d bytes", maxRenderedPromptBytes)
	}
	builder.WriteString(segment)
	return nil
}
