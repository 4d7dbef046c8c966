package sitecode

import "strings"

// Extract splits free text into tagged values and untagged remainder. Long
// labels are rewritten to short tags first, so both catalog text and
// previously rendered reports are accepted. A multi-line tag collects its
// inline value and the following lines up to a blank line or the next tag.
// Repeated single-line tags are joined with ", ".
func Extract(text string) (map[Code]string, string) {
	tags := make(map[Code]string)
	if strings.TrimSpace(text) == "" {
		return tags, ""
	}

	text = strings.ReplaceAll(ReplaceLongNames(text), "\r\n", "\n")
	var (
		remainder []string
		collect   = Unknown
		collected []string
	)
	flush := func() {
		if collect != Unknown && len(collected) > 0 {
			appendTag(tags, collect, strings.Join(collected, "\n"))
		}
		collect = Unknown
		collected = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		code, value, tagged := splitTagged(line)
		if tagged {
			flush()
			switch {
			case code.IsBoolean():
				tags[code] = "true"
			case code.IsMultiLine():
				collect = code
				if value != "" {
					collected = append(collected, value)
				}
			default:
				appendTag(tags, code, value)
			}
			continue
		}
		if collect != Unknown {
			if line == "" {
				flush()
				continue
			}
			collected = append(collected, line)
			continue
		}
		remainder = append(remainder, raw)
	}
	flush()

	return tags, strings.TrimSpace(strings.Join(remainder, "\n"))
}

func splitTagged(line string) (Code, string, bool) {
	if !strings.HasPrefix(line, "[T:") {
		return Unknown, "", false
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return Unknown, "", false
	}
	code, ok := FromShortName(line[:end+1])
	if !ok {
		return Unknown, "", false
	}
	return code, strings.TrimSpace(line[end+1:]), true
}

func appendTag(tags map[Code]string, code Code, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	existing, ok := tags[code]
	if !ok || existing == "" {
		tags[code] = value
		return
	}
	sep := ", "
	if code.IsMultiLine() {
		sep = "\n"
	}
	tags[code] = existing + sep + value
}
