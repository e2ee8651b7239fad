// syntax.go spells CommonMark constructs for LaTeX, plain text, man and Texinfo.
package md

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

var latexSyntax = syntax{
	escape:      latexEscaper.Replace,
	literalLine: identity,
	heading: func(level int, _ string) (string, string) {
		cmds := []string{`\section{`, `\subsection{`, `\subsubsection{`}
		if level <= len(cmds) {
			return cmds[level-1], "}\n\n"
		}
		return `\paragraph{`, "}\n\n"
	},
	paragraph: [2]string{"", "\n\n"},
	emphasis: func(level int) (string, string) {
		if level >= 2 {
			return `\textbf{`, "}"
		}
		return `\emph{`, "}"
	},
	codeSpan:   [2]string{`\texttt{`, "}"},
	codeBlock:  [2]string{"\\begin{verbatim}\n", "\\end{verbatim}\n\n"},
	blockquote: [2]string{"\\begin{quote}\n", "\\end{quote}\n\n"},
	list: func(ordered bool) (string, string) {
		if ordered {
			return "\\begin{enumerate}\n", "\\end{enumerate}\n\n"
		}
		return "\\begin{itemize}\n", "\\end{itemize}\n\n"
	},
	item:          func(bool, int) string { return `\item ` },
	thematicBreak: "\\noindent\\rule{\\linewidth}{0.4pt}\n\n",
	link: func(dest string) (string, string) {
		return `\href{` + latexEscaper.Replace(dest) + "}{", "}"
	},
	hardBreak: "\\\\\n",
	message: func(d Diagnostic) string {
		return fmt.Sprintf("%% System Message: %s (line %d): %s\n\n", d.Level, d.Line, d.Message)
	},
	preamble: func(meta map[string]interface{}) string {
		var sb strings.Builder
		sb.WriteString("\\documentclass{article}\n")
		sb.WriteString("\\usepackage[utf8]{inputenc}\n")
		sb.WriteString("\\usepackage{hyperref}\n")
		if title := metaString(meta, "title", ""); title != "" {
			sb.WriteString(`\title{` + latexEscaper.Replace(title) + "}\n")
		}
		if date := metaString(meta, "date", ""); date != "" {
			sb.WriteString(`\date{` + latexEscaper.Replace(date) + "}\n")
		}
		sb.WriteString("\\begin{document}\n")
		if metaString(meta, "title", "") != "" {
			sb.WriteString("\\maketitle\n")
		}
		sb.WriteString("\n")
		return sb.String()
	},
	postamble: func(map[string]interface{}) string {
		return "\\end{document}\n"
	},
}

var textSyntax = syntax{
	escape: identity,
	literalLine: func(s string) string {
		return "    " + s
	},
	heading: func(level int, title string) (string, string) {
		underline := "~"
		switch level {
		case 1:
			underline = "="
		case 2:
			underline = "-"
		}
		return "", "\n" + strings.Repeat(underline, len([]rune(title))) + "\n\n"
	},
	paragraph: [2]string{"", "\n\n"},
	emphasis: func(level int) (string, string) {
		if level >= 2 {
			return "**", "**"
		}
		return "*", "*"
	},
	codeSpan:    [2]string{"``", "``"},
	codeBlock:   [2]string{"", "\n"},
	blockquote:  [2]string{"", "\n"},
	quoteIndent: "    ",
	list: func(bool) (string, string) {
		return "", "\n"
	},
	item: func(ordered bool, number int) string {
		if ordered {
			return fmt.Sprintf("%d. ", number)
		}
		return "- "
	},
	itemIndent:    "  ",
	thematicBreak: strings.Repeat("-", 72) + "\n\n",
	link: func(dest string) (string, string) {
		return "", " <" + dest + ">"
	},
	hardBreak: "\n",
	message: func(d Diagnostic) string {
		return fmt.Sprintf("System Message: %s (line %d)\n    %s\n\n", d.Level, d.Line, d.Message)
	},
	preamble: func(meta map[string]interface{}) string {
		title := metaString(meta, "title", "")
		if title == "" {
			return ""
		}
		rule := strings.Repeat("=", len([]rune(title)))
		return rule + "\n" + title + "\n" + rule + "\n\n"
	},
}

var manEscaper = strings.NewReplacer(`\`, `\e`, `-`, `\-`)

func manEscape(s string) string {
	s = manEscaper.Replace(s)
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "'") {
		s = `\&` + s
	}
	return s
}

var manSyntax = syntax{
	escape: manEscape,
	literalLine: func(s string) string {
		return manEscape(s)
	},
	heading: func(level int, _ string) (string, string) {
		if level == 1 {
			return ".SH ", "\n"
		}
		return ".SS ", "\n"
	},
	paragraph: [2]string{".PP\n", "\n"},
	emphasis: func(level int) (string, string) {
		if level >= 2 {
			return `\fB`, `\fR`
		}
		return `\fI`, `\fR`
	},
	codeSpan:   [2]string{`\fB`, `\fR`},
	codeBlock:  [2]string{".PP\n.RS 4\n.nf\n", ".fi\n.RE\n"},
	blockquote: [2]string{".RS 4\n", ".RE\n"},
	list: func(bool) (string, string) {
		return "", ""
	},
	item: func(ordered bool, number int) string {
		if ordered {
			return fmt.Sprintf(".IP %d. 4\n", number)
		}
		return ".IP \\(bu 2\n"
	},
	thematicBreak: ".sp\n",
	link: func(dest string) (string, string) {
		return "", ` \fI<` + manEscape(dest) + `>\fR`
	},
	hardBreak: "\n.br\n",
	message: func(d Diagnostic) string {
		return fmt.Sprintf(".\\\" System Message: %s (line %d): %s\n", d.Level, d.Line, d.Message)
	},
	preamble: func(meta map[string]interface{}) string {
		title := cases.Upper(language.English).String(metaString(meta, "title", "untitled"))
		section := metaString(meta, "section", "1")
		date := metaString(meta, "date", "")
		version := metaString(meta, "version", "")
		return fmt.Sprintf(".TH %q %q %q %q\n", manEscape(title), section, date, version)
	},
}

var texinfoEscaper = strings.NewReplacer(`@`, `@@`, `{`, `@{`, `}`, `@}`)

var texinfoSyntax = syntax{
	escape:      texinfoEscaper.Replace,
	literalLine: texinfoEscaper.Replace,
	heading: func(level int, _ string) (string, string) {
		cmds := []string{"@chapter ", "@section ", "@subsection "}
		if level <= len(cmds) {
			return cmds[level-1], "\n\n"
		}
		return "@subsubsection ", "\n\n"
	},
	paragraph: [2]string{"", "\n\n"},
	emphasis: func(level int) (string, string) {
		if level >= 2 {
			return "@strong{", "}"
		}
		return "@emph{", "}"
	},
	codeSpan:   [2]string{"@code{", "}"},
	codeBlock:  [2]string{"@example\n", "@end example\n\n"},
	blockquote: [2]string{"@quotation\n", "@end quotation\n\n"},
	list: func(ordered bool) (string, string) {
		if ordered {
			return "@enumerate\n", "@end enumerate\n\n"
		}
		return "@itemize @bullet\n", "@end itemize\n\n"
	},
	item:          func(bool, int) string { return "@item\n" },
	thematicBreak: "@sp 1\n\n",
	link: func(dest string) (string, string) {
		return "@uref{" + texinfoEscaper.Replace(dest) + ", ", "}"
	},
	hardBreak: "@*\n",
	message: func(d Diagnostic) string {
		return fmt.Sprintf("@c System Message: %s (line %d): %s\n", d.Level, d.Line, d.Message)
	},
	preamble: func(meta map[string]interface{}) string {
		title := cases.Title(language.English, cases.NoLower).String(metaString(meta, "title", "Untitled"))
		title = texinfoEscaper.Replace(title)
		return "\\input texinfo\n@settitle " + title + "\n\n@node Top\n@top " + title + "\n\n"
	},
	postamble: func(map[string]interface{}) string {
		return "@bye\n"
	},
}

// syntaxes maps the non-HTML formats to their host syntax.
var syntaxes = map[Format]syntax{
	FormatLaTeX:   latexSyntax,
	FormatText:    textSyntax,
	FormatMan:     manSyntax,
	FormatTexinfo: texinfoSyntax,
}

func identity(s string) string {
	return s
}
