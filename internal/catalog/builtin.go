package catalog

var environments = []string{
	// Document structure
	"document", "abstract",
	"appendix", "frontmatter", "mainmatter", "backmatter",

	// Floats
	"figure", "figure*", "table", "table*", "wrapfigure", "subfigure",

	// Alignment and quotes
	"center", "flushleft", "flushright", "quote", "quotation", "verse",

	// Lists
	"itemize", "enumerate", "description", "list",

	// Verbatim
	"verbatim", "verbatim*", "lstlisting", "minted", "Verbatim", "comment",

	// Math
	"math", "displaymath", "equation", "equation*", "align", "align*",
	"gather", "gather*", "multline", "multline*", "flalign", "flalign*",
	"alignat", "alignat*", "array", "cases", "split",

	// Tables
	"tabular", "tabular*", "tabularx", "longtable", "xltabular",

	// Theorems
	"theorem", "lemma", "corollary", "proposition", "definition", "example", "proof",

	// TikZ
	"tikzpicture", "scope",

	"minipage",
}

var commands = []string{
	// Document structure
	`\documentclass`, `\usepackage`, `\title`, `\author`, `\date`, `\maketitle`,
	`\tableofcontents`, `\appendix`, `\bibliography`, `\bibliographystyle`,

	// Sectioning
	`\part`, `\chapter`, `\section`, `\subsection`, `\subsubsection`, `\paragraph`, `\subparagraph`,

	`\begin`, `\end`,

	// References
	`\label`, `\ref`, `\pageref`, `\cite`, `\nocite`, `\bibitem`,

	// Text formatting
	`\textbf`, `\textit`, `\texttt`, `\textsf`, `\textrm`, `\textsc`, `\emph`, `\underline`,
	`\textcolor`, `\colorbox`,

	// Lists
	`\item`, `\itemize`, `\enumerate`,

	// Graphics
	`\includegraphics`, `\caption`, `\figure`,

	// Math
	`\frac`, `\sqrt`, `\sum`, `\int`, `\prod`, `\lim`, `\infty`, `\partial`,
	`\alpha`, `\beta`, `\gamma`, `\delta`, `\epsilon`, `\varepsilon`, `\zeta`, `\eta`, `\theta`,
	`\iota`, `\kappa`, `\lambda`, `\mu`, `\nu`, `\xi`, `\pi`, `\rho`, `\sigma`, `\tau`,
	`\upsilon`, `\phi`, `\varphi`, `\chi`, `\psi`, `\omega`,
	`\Gamma`, `\Delta`, `\Theta`, `\Lambda`, `\Xi`, `\Pi`, `\Sigma`, `\Upsilon`, `\Phi`, `\Psi`, `\Omega`,

	// Special characters and spacing
	`\&`, `\%`, `\$`, `\#`, `\_`, `\{`, `\}`, `\\`, `\quad`, `\qquad`, `\hspace`, `\vspace`,

	// Tables
	`\hline`, `\cline`, `\multicolumn`, `\multirow`, `\toprule`, `\midrule`, `\bottomrule`,

	// Definitions
	`\newcommand`, `\renewcommand`, `\newenvironment`, `\renewenvironment`, `\def`, `\let`,

	// Input
	`\input`, `\include`, `\includeonly`,
}

var mathCommands = []string{
	// Operators
	`\sin`, `\cos`, `\tan`, `\arcsin`, `\arccos`, `\arctan`,
	`\sinh`, `\cosh`, `\tanh`, `\log`, `\ln`, `\exp`,
	`\min`, `\max`, `\sup`, `\inf`, `\lim`, `\limsup`, `\liminf`,
	`\det`, `\dim`, `\mod`, `\gcd`, `\lcm`, `\mathop`,

	// Symbols
	`\rightarrow`, `\leftarrow`, `\Rightarrow`, `\Leftarrow`, `\mapsto`,
	`\approx`, `\sim`, `\simeq`, `\cong`, `\equiv`, `\prec`, `\succ`,
	`\neq`, `\geq`, `\leq`, `\ll`, `\gg`, `\subset`, `\subseteq`, `\in`, `\notin`,
	`\cap`, `\cup`, `\setminus`, `\emptyset`, `\varnothing`,
	`\forall`, `\exists`, `\nexists`,
	`\mathbb{R}`, `\mathbb{Z}`, `\mathbb{N}`, `\mathbb{Q}`, `\mathbb{C}`,

	// Decorations
	`\hat`, `\tilde`, `\bar`, `\vec`, `\dot`, `\ddot`, `\underline`, `\overline`,

	// Environments
	`\begin{equation}`, `\begin{align}`, `\begin{align*}`, `\begin{gather}`, `\begin{array}`,
	`\begin{cases}`, `\begin{matrix}`, `\begin{pmatrix}`, `\begin{bmatrix}`, `\begin{vmatrix}`,
}

var packages = []string{
	"amsmath", "amssymb", "amsfonts", "amsthm", "mathtools",
	"graphicx", "xcolor", "hyperref", "url",
	"geometry", "fancyhdr", "lastpage",
	"booktabs", "tabularx", "longtable", "multirow",
	"tikz", "pgfplots", "pgf",
	"babel", "inputenc", "fontenc",
	"natbib", "biblatex", "cite",
	"algorithm", "algorithmic", "listings", "minted",
	"enumitem", "cleveref", "microtype",
}

var snippets = []Snippet{
	{
		Label:    `\begin{...}`,
		Detail:   "LaTeX environment",
		Info:     "Create a LaTeX environment",
		Template: `\begin{}`,
	},
	{
		Label:    `\section{...}`,
		Detail:   "LaTeX section",
		Info:     "Create a section",
		Template: `\section{}`,
	},
	{
		Label:    `\subsection{...}`,
		Detail:   "LaTeX subsection",
		Info:     "Create a subsection",
		Template: `\subsection{}`,
	},
	{
		Label:  `\begin{figure}`,
		Detail: "LaTeX figure environment",
		Info:   "Create a figure environment",
		Template: "\\begin{figure}[htbp]\n" +
			"\t\\centering\n" +
			"\t\\includegraphics[width=0.8\\textwidth]{}\n" +
			"\t\\caption{}\n" +
			"\t\\label{fig:}\n" +
			"\\end{figure}",
	},
	{
		Label:  `\begin{table}`,
		Detail: "LaTeX table environment",
		Info:   "Create a table environment",
		Template: "\\begin{table}[htbp]\n" +
			"\t\\centering\n" +
			"\t\\begin{tabular}{ccc}\n" +
			"\t\theader1 & header2 & header3 \\\\\n" +
			"\t\t\\hline\n" +
			"\t\tdata1 & data2 & data3 \\\\\n" +
			"\t\\end{tabular}\n" +
			"\t\\caption{}\n" +
			"\t\\label{tab:}\n" +
			"\\end{table}",
	},
}

var commandInfo = map[string]Info{
	`\documentclass`: {
		Description: "Defines the type of document to be created.",
		Syntax:      `\documentclass[options]{class}`,
		Example:     `\documentclass[12pt,a4paper]{article}`,
	},
	`\usepackage`: {
		Description: "Loads a LaTeX package.",
		Syntax:      `\usepackage[options]{package}`,
		Example:     `\usepackage{graphicx}`,
	},
	`\begin`: {
		Description: "Begins an environment.",
		Syntax:      `\begin{environment}`,
		Example:     `\begin{document}`,
	},
	`\end`: {
		Description: "Ends an environment.",
		Syntax:      `\end{environment}`,
		Example:     `\end{document}`,
	},
	`\section`: {
		Description: "Creates a section heading.",
		Syntax:      `\section[short title]{title}`,
		Example:     `\section{Introduction}`,
	},
	`\subsection`: {
		Description: "Creates a subsection heading.",
		Syntax:      `\subsection[short title]{title}`,
		Example:     `\subsection{Method}`,
	},
	`\subsubsection`: {
		Description: "Creates a subsubsection heading.",
		Syntax:      `\subsubsection[short title]{title}`,
		Example:     `\subsubsection{Implementation details}`,
	},
	`\textbf`: {
		Description: "Sets text in bold font.",
		Syntax:      `\textbf{text}`,
		Example:     `\textbf{Important note}`,
	},
	`\textit`: {
		Description: "Sets text in italic font.",
		Syntax:      `\textit{text}`,
		Example:     `\textit{Emphasized term}`,
	},
	`\emph`: {
		Description: "Emphasizes text. Typically renders as italic.",
		Syntax:      `\emph{text}`,
		Example:     `\emph{Important}`,
	},
	`\cite`: {
		Description: "Creates a citation.",
		Syntax:      `\cite[text]{key}`,
		Example:     `\cite{smith2020}`,
	},
	`\ref`: {
		Description: "Creates a reference to a labeled element.",
		Syntax:      `\ref{label}`,
		Example:     `\ref{fig:sample}`,
	},
	`\label`: {
		Description: "Assigns a label to an element for referencing.",
		Syntax:      `\label{name}`,
		Example:     `\label{sec:introduction}`,
	},
	`\includegraphics`: {
		Description: "Includes a graphics file.",
		Syntax:      `\includegraphics[options]{filename}`,
		Example:     `\includegraphics[width=0.8\textwidth]{figure.png}`,
		Package:     "graphicx",
	},
	`\frac`: {
		Description: "Creates a fraction.",
		Syntax:      `\frac{numerator}{denominator}`,
		Example:     `\frac{a}{b}`,
		Package:     "amsmath (optional)",
	},
	`\item`: {
		Description: "Defines an item in a list environment.",
		Syntax:      `\item[optional label] content`,
		Example:     `\item First item in list`,
	},
	`\maketitle`: {
		Description: `Generates a title based on \title, \author, and \date commands.`,
		Syntax:      `\maketitle`,
		Example:     `\maketitle`,
	},
	`\title`: {
		Description: "Specifies the document title.",
		Syntax:      `\title{title}`,
		Example:     `\title{My Document}`,
	},
	`\author`: {
		Description: "Specifies the document author(s).",
		Syntax:      `\author{name}`,
		Example:     `\author{John Smith}`,
	},
	`\date`: {
		Description: "Specifies the document date.",
		Syntax:      `\date{date}`,
		Example:     `\date{\today}`,
	},
	`\caption`: {
		Description: "Adds a caption to a figure or table.",
		Syntax:      `\caption{text}`,
		Example:     `\caption{A sample figure}`,
	},
	`\hline`: {
		Description: "Draws a horizontal line in a table.",
		Syntax:      `\hline`,
		Example:     `\hline`,
	},
	`\newcommand`: {
		Description: "Defines a new command.",
		Syntax:      `\newcommand{\name}[args][default]{definition}`,
		Example:     `\newcommand{\mycommand}[1]{Hello #1!}`,
	},
}

var environmentInfo = map[string]Info{
	"document": {
		Description: "The main document environment. All visible content must be inside this environment.",
		Syntax:      `\begin{document}...\end{document}`,
		Example:     "\\begin{document}\nHello, world!\n\\end{document}",
	},
	"figure": {
		Description: "Environment for floating figures.",
		Syntax:      `\begin{figure}[placement]...\end{figure}`,
		Example:     "\\begin{figure}[ht]\n\\centering\n\\includegraphics{image.png}\n\\caption{A figure}\n\\label{fig:example}\n\\end{figure}",
	},
	"table": {
		Description: "Environment for floating tables.",
		Syntax:      `\begin{table}[placement]...\end{table}`,
		Example:     "\\begin{table}[ht]\n\\centering\n\\begin{tabular}{cc}\n...\n\\end{tabular}\n\\caption{A table}\n\\label{tab:example}\n\\end{table}",
	},
	"tabular": {
		Description: "Environment for creating tables.",
		Syntax:      `\begin{tabular}{columns}...\end{tabular}`,
		Example:     "\\begin{tabular}{|l|c|r|}\n\\hline\nLeft & Center & Right \\\\\n\\hline\n\\end{tabular}",
	},
	"itemize": {
		Description: "Environment for bulleted lists.",
		Syntax:      `\begin{itemize}...\end{itemize}`,
		Example:     "\\begin{itemize}\n\\item First item\n\\item Second item\n\\end{itemize}",
	},
	"enumerate": {
		Description: "Environment for numbered lists.",
		Syntax:      `\begin{enumerate}...\end{enumerate}`,
		Example:     "\\begin{enumerate}\n\\item First item\n\\item Second item\n\\end{enumerate}",
	},
	"equation": {
		Description: "Environment for numbered equations.",
		Syntax:      `\begin{equation}...\end{equation}`,
		Example:     "\\begin{equation}\nE = mc^2\n\\end{equation}",
	},
	"equation*": {
		Description: "Environment for unnumbered equations.",
		Syntax:      `\begin{equation*}...\end{equation*}`,
		Example:     "\\begin{equation*}\nE = mc^2\n\\end{equation*}",
	},
	"align": {
		Description: "Environment for aligning multiple equations, with equation numbers.",
		Syntax:      `\begin{align}...\end{align}`,
		Example:     "\\begin{align}\na &= b \\\\\nc &= d\n\\end{align}",
		Package:     "amsmath",
	},
	"align*": {
		Description: "Environment for aligning multiple equations, without equation numbers.",
		Syntax:      `\begin{align*}...\end{align*}`,
		Example:     "\\begin{align*}\na &= b \\\\\nc &= d\n\\end{align*}",
		Package:     "amsmath",
	},
	"verbatim": {
		Description: "Environment for verbatim text, where LaTeX commands are not processed.",
		Syntax:      `\begin{verbatim}...\end{verbatim}`,
		Example:     "\\begin{verbatim}\nThis is verbatim text.\n\\end{verbatim}",
	},
	"center": {
		Description: "Environment for centering text.",
		Syntax:      `\begin{center}...\end{center}`,
		Example:     "\\begin{center}\nCentered text\n\\end{center}",
	},
	"tikzpicture": {
		Description: "Environment for creating TikZ pictures.",
		Syntax:      `\begin{tikzpicture}...\end{tikzpicture}`,
		Example:     "\\begin{tikzpicture}\n\\draw (0,0) -- (1,1);\n\\end{tikzpicture}",
		Package:     "tikz",
	},
}
