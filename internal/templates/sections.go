package templates

import (
	"fmt"
	"strings"
)

// sections is a template source pulled apart before evaluation: the
// optional leading documentation comment, the annotation lines above
// the signature, and the method body between the braces. Each part is
// evaluated separately against the same context.
type sections struct {
	javadoc     string
	annotations []string
	body        string
}

// splitSections decomposes raw template source. The signature line
// itself is discarded; the generated method's signature comes from the
// MethodSpec. Missing body braces are a template error.
func splitSections(src string) (sections, error) {
	var s sections

	rest := strings.TrimLeft(src, " \t\r\n")
	if strings.HasPrefix(rest, "/**") {
		end := strings.Index(rest, "*/")
		if end < 0 {
			return s, fmt.Errorf("unterminated documentation comment")
		}
		s.javadoc = rest[:end+2]
		rest = strings.TrimLeft(rest[end+2:], " \t\r\n")
	}

	lines := strings.Split(rest, "\n")
	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@") {
			s.annotations = append(s.annotations, line)
			continue
		}
		break
	}

	remainder := strings.Join(lines[i:], "\n")
	open, last := braceBounds(remainder)
	if open < 0 {
		return s, fmt.Errorf("template has no method body: missing opening brace")
	}
	if last <= open {
		return s, fmt.Errorf("template has no method body: missing closing brace")
	}

	body := remainder[open+1 : last]
	body = strings.TrimPrefix(body, "\r\n")
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimRight(body, " \t")
	body = strings.TrimSuffix(body, "\n")
	s.body = body
	return s, nil
}

// braceBounds returns the first opening brace and the last closing
// brace outside of template actions. Braces inside {{...}} belong to
// the action syntax, not the generated method.
func braceBounds(s string) (open, last int) {
	open, last = -1, -1
	i := 0
	for i < len(s) {
		if strings.HasPrefix(s[i:], "{{") {
			end := strings.Index(s[i+2:], "}}")
			if end < 0 {
				return open, last
			}
			i += 2 + end + 2
			continue
		}
		switch s[i] {
		case '{':
			if open < 0 {
				open = i
			}
		case '}':
			last = i
		}
		i++
	}
	return open, last
}
