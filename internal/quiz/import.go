package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// Bulk text format, one question per line:
//
//	content|optA|optB|optC|optD|correct(1-4)|[imageURL]|[rationale]
//
// The correct answer is one-indexed on the wire and zero-based internally.
// Lines with fewer than six fields are skipped, not fatal; each skip is
// reported with its line number and reason.

// ImportError records one rejected import line.
type ImportError struct {
	Line   int    `json:"line"` // 1-based
	Reason string `json:"reason"`
}

// ParsedQuestion couples an imported question with the 1-based source line
// it came from, so a failure after parsing (a refused insert, say) can still
// be reported against the right line of the input.
type ParsedQuestion struct {
	Question Question
	Line     int
}

// ParseBank parses the bulk text into Question records filed under the given
// subject/volume/unit. Blank lines are ignored. The returned questions carry
// no ID or timestamp; the caller assigns those on insert.
func ParseBank(text, subject, volume, unit string) ([]ParsedQuestion, []ImportError) {
	var (
		questions []ParsedQuestion
		errs      []ImportError
	)
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		q, err := parseLine(line, subject, volume, unit)
		if err != nil {
			errs = append(errs, ImportError{Line: i + 1, Reason: err.Error()})
			continue
		}
		questions = append(questions, ParsedQuestion{Question: q, Line: i + 1})
	}
	return questions, errs
}

func parseLine(line, subject, volume, unit string) (Question, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 6 {
		return Question{}, fmt.Errorf("expected at least 6 fields, got %d", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	oneIndexed, err := strconv.Atoi(parts[5])
	if err != nil {
		return Question{}, fmt.Errorf("answer field %q is not a number", parts[5])
	}
	if oneIndexed < 1 || oneIndexed > OptionCount {
		return Question{}, fmt.Errorf("answer %d out of range 1-%d", oneIndexed, OptionCount)
	}

	q := Question{
		Subject:      subject,
		Volume:       volume,
		Unit:         unit,
		Content:      parts[0],
		Options:      []string{parts[1], parts[2], parts[3], parts[4]},
		CorrectIndex: oneIndexed - 1,
	}
	if len(parts) > 6 {
		q.ImageURL = parts[6]
	}
	if len(parts) > 7 {
		q.Rationale = parts[7]
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// ExportBank renders the bank back into the bulk text format, one line per
// question, round-trippable through ParseBank.
func ExportBank(bank []Question) string {
	var b strings.Builder
	for i, q := range bank {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(q.Content)
		for _, opt := range q.Options {
			b.WriteString("|")
			b.WriteString(opt)
		}
		b.WriteString("|")
		b.WriteString(strconv.Itoa(q.CorrectIndex + 1))
		b.WriteString("|")
		b.WriteString(q.ImageURL)
		b.WriteString("|")
		b.WriteString(q.Rationale)
	}
	return b.String()
}
