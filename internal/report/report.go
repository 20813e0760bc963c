// Package report renders a translation result as a .docx document:
// the plain-language text followed by a red-flag findings section.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/simplylegal/simplylegal/internal/normalize"
)

const (
	fontName    = "Times New Roman"
	fontSize    = 12
	titleSize   = 16
	headingSize = 14
)

func severityColor(s normalize.Severity) string {
	switch s {
	case normalize.SeverityHigh:
		return "C00000"
	case normalize.SeverityMedium:
		return "E36C0A"
	default:
		return "538135"
	}
}

// Write renders the report and saves it at path.
func Write(path, title, text string, flags []normalize.RedFlag) error {
	doc, err := render(title, text, flags)
	if err != nil {
		return err
	}
	return doc.SaveTo(path)
}

// Build renders the report and returns the raw .docx bytes. The
// library only saves to a path, so it goes through a throwaway temp
// file.
func Build(title, text string, flags []normalize.RedFlag) ([]byte, error) {
	doc, err := render(title, text, flags)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "simplylegal-report-*.docx")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := doc.SaveTo(tmpPath); err != nil {
		return nil, err
	}
	return os.ReadFile(tmpPath)
}

func render(title, text string, flags []normalize.RedFlag) (*docx.RootDoc, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)
	doc.AddParagraph("")

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		doc.AddParagraph("").AddText(para).Font(fontName).Size(fontSize).Color("000000")
	}

	if len(flags) > 0 {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), "Red Flags", true, headingSize)

		for i, flag := range flags {
			doc.AddParagraph("")

			p := doc.AddParagraph("")
			p.AddText(fmt.Sprintf("%d. ", i+1)).Font(fontName).Size(fontSize).Color("000000")
			label := "[" + strings.ToUpper(string(flag.Severity)) + "] "
			p.AddText(label).Font(fontName).Size(fontSize).Color(severityColor(flag.Severity)).Bold(true)
			p.AddText("\"" + flag.Quote + "\"").Font(fontName).Size(fontSize).Color("000000").Bold(true)

			if flag.Risk != "" {
				doc.AddParagraph("").AddText("Risk: " + flag.Risk).Font(fontName).Size(fontSize).Color("000000")
			}
			if flag.WorstCase != "" {
				doc.AddParagraph("").AddText("Worst case: " + flag.WorstCase).Font(fontName).Size(fontSize).Color("000000")
			}
		}
	}

	return doc, nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
