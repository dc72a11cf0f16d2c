// Package sheet renders a stored attempt's mistake records as a printable
// answer-sheet PDF for the teacher. Pure templated substitution over the
// record; no grading logic lives here.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
)

var optionLabels = []string{"A", "B", "C", "D"}

// Options configures rendering. FontPath points at a TTF with CJK coverage;
// when empty the built-in Helvetica is used (ASCII content only).
type Options struct {
	FontPath string
	FontName string
}

// Generate renders the mistake review sheet for one attempt. An attempt
// with no mistakes has nothing to print and is rejected.
func Generate(res quiz.AttemptResult, opts Options) ([]byte, error) {
	if len(res.Mistakes) == 0 {
		return nil, errors.New("attempt has no mistakes to print")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	font := "Helvetica"
	if opts.FontPath != "" {
		font = opts.FontName
		if font == "" {
			font = "review"
		}
		pdf.AddUTF8Font(font, "", opts.FontPath)
		pdf.AddUTF8Font(font, "B", opts.FontPath)
	}
	pdf.AddPage()

	pdf.SetFont(font, "B", 18)
	pdf.CellFormat(0, 12, "錯題複習卷", "", 1, "C", false, 0, "")

	pdf.SetFont(font, "", 11)
	pdf.CellFormat(0, 7,
		fmt.Sprintf("姓名：%s    單元：%s    得分：%d", res.StudentName, res.Unit, res.Score),
		"", 1, "C", false, 0, "")
	pdf.SetFont(font, "", 8)
	pdf.CellFormat(0, 6, "列印時間："+time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for i, m := range res.Mistakes {
		pdf.SetFont(font, "B", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, m.Content), "", "L", false)

		pdf.SetFont(font, "", 10)
		for j, opt := range m.Options {
			pdf.MultiCell(0, 5.5, fmt.Sprintf("(%s) %s", label(j), opt), "", "L", false)
		}

		student := "未作答"
		if m.StudentAnswerIndex != quiz.Unanswered {
			student = label(m.StudentAnswerIndex)
		}
		pdf.SetFont(font, "", 9)
		pdf.MultiCell(0, 5.5,
			fmt.Sprintf("你的答案：%s    正確答案：%s", student, label(m.CorrectIndex)),
			"", "L", false)
		if m.Rationale != "" {
			pdf.MultiCell(0, 5.5, "【詳解】"+m.Rationale, "", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func label(i int) string {
	if i < 0 || i >= len(optionLabels) {
		return "?"
	}
	return optionLabels[i]
}
