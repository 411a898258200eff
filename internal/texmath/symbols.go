package texmath

// greek maps letter commands to characters.
var greek = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ϵ",
	"varepsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ",
	"omicron": "ο", "pi": "π", "varpi": "ϖ", "rho": "ρ", "varrho": "ϱ",
	"sigma": "σ", "varsigma": "ς", "tau": "τ", "upsilon": "υ", "phi": "ϕ",
	"varphi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ",
	"Pi": "Π", "Sigma": "Σ", "Upsilon": "Υ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",
}

// identSymbols render as identifiers.
var identSymbols = map[string]string{
	"infty": "∞", "aleph": "ℵ", "nabla": "∇", "partial": "∂", "hbar": "ℏ",
	"ell": "ℓ", "emptyset": "∅", "varnothing": "∅", "Re": "ℜ", "Im": "ℑ",
	"wp": "℘", "imath": "ı", "jmath": "ȷ",
}

// opSymbols render as operators, relations or punctuation.
var opSymbols = map[string]string{
	// binary
	"times": "×", "div": "÷", "pm": "±", "mp": "∓", "cdot": "⋅", "ast": "∗",
	"star": "⋆", "circ": "∘", "bullet": "∙", "oplus": "⊕", "ominus": "⊖",
	"otimes": "⊗", "odot": "⊙", "cup": "∪", "cap": "∩", "setminus": "∖",
	"wedge": "∧", "land": "∧", "vee": "∨", "lor": "∨", "neg": "¬", "lnot": "¬",
	// relations
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠",
	"equiv": "≡", "approx": "≈", "sim": "∼", "simeq": "≃", "cong": "≅",
	"propto": "∝", "ll": "≪", "gg": "≫", "subset": "⊂", "supset": "⊃",
	"subseteq": "⊆", "supseteq": "⊇", "in": "∈", "notin": "∉", "ni": "∋",
	"perp": "⊥", "parallel": "∥", "mid": "∣", "prec": "≺", "succ": "≻",
	"models": "⊨", "vdash": "⊢", "asymp": "≍", "doteq": "≐",
	// arrows
	"to": "→", "rightarrow": "→", "leftarrow": "←", "gets": "←",
	"leftrightarrow": "↔", "Rightarrow": "⇒", "Leftarrow": "⇐",
	"Leftrightarrow": "⇔", "implies": "⟹", "impliedby": "⟸", "iff": "⟺",
	"mapsto": "↦", "uparrow": "↑", "downarrow": "↓", "longrightarrow": "⟶",
	"longleftarrow": "⟵", "hookrightarrow": "↪",
	// logic and misc
	"forall": "∀", "exists": "∃", "nexists": "∄", "because": "∵", "therefore": "∴",
	"top": "⊤", "bot": "⊥", "angle": "∠", "triangle": "△", "prime": "′",
	"dots": "…", "ldots": "…", "cdots": "⋯", "vdots": "⋮", "ddots": "⋱",
	"langle": "⟨", "rangle": "⟩", "lfloor": "⌊", "rfloor": "⌋", "lceil": "⌈",
	"rceil": "⌉", "vert": "|", "Vert": "‖", "lbrace": "{", "rbrace": "}",
	"colon": ":", "degree": "°",
}

// functions are upright operator names.
var functions = map[string]string{
	"sin": "sin", "cos": "cos", "tan": "tan", "cot": "cot", "sec": "sec", "csc": "csc",
	"arcsin": "arcsin", "arccos": "arccos", "arctan": "arctan",
	"sinh": "sinh", "cosh": "cosh", "tanh": "tanh", "coth": "coth",
	"log": "log", "ln": "ln", "lg": "lg", "exp": "exp", "dim": "dim", "ker": "ker",
	"deg": "deg", "hom": "hom", "arg": "arg", "rank": "rank", "im": "im", "lcm": "lcm",
}

// limitFunctions take their scripts below in display mode.
var limitFunctions = map[string]string{
	"lim": "lim", "liminf": "lim inf", "limsup": "lim sup", "max": "max", "min": "min",
	"sup": "sup", "inf": "inf", "det": "det", "gcd": "gcd", "Pr": "Pr",
}

// bigOperator is a large operator symbol.
type bigOperator struct {
	symbol string
	limits bool
}

var bigOperators = map[string]bigOperator{
	"sum": {"∑", true}, "prod": {"∏", true}, "coprod": {"∐", true},
	"bigcup": {"⋃", true}, "bigcap": {"⋂", true}, "bigoplus": {"⨁", true},
	"bigotimes": {"⨂", true}, "bigvee": {"⋁", true}, "bigwedge": {"⋀", true},
	"int": {"∫", false}, "iint": {"∬", false}, "iiint": {"∭", false}, "oint": {"∮", false},
}

// accent describes an accent command.
type accent struct {
	char  string // spacing form used by MathML
	comb  string // combining form used by OMML
	under bool
}

var accents = map[string]accent{
	"hat": {"^", "\u0302", false}, "widehat": {"^", "\u0302", false},
	"bar": {"\u00af", "\u0305", false}, "overline": {"\u00af", "\u0305", false},
	"vec": {"\u2192", "\u20d7", false}, "overrightarrow": {"\u2192", "\u20d7", false},
	"dot": {"\u02d9", "\u0307", false}, "ddot": {"\u00a8", "\u0308", false},
	"tilde": {"~", "\u0303", false}, "widetilde": {"~", "\u0303", false},
	"check": {"\u02c7", "\u030c", false}, "breve": {"\u02d8", "\u0306", false},
	"acute": {"\u00b4", "\u0301", false}, "grave": {"`", "\u0300", false},
	"overbrace": {"\u23de", "\u23de", false},
	"underline": {"_", "\u0332", true}, "underbrace": {"\u23df", "\u23df", true},
}

// Font variants.
const (
	VariantNormal       = "normal"
	VariantBold         = "bold"
	VariantItalic       = "italic"
	VariantBoldItalic   = "bold-italic"
	VariantDoubleStruck = "double-struck"
	VariantScript       = "script"
	VariantFraktur      = "fraktur"
	VariantSansSerif    = "sans-serif"
	VariantMonospace    = "monospace"
)

var fonts = map[string]string{
	"mathrm": VariantNormal, "mathup": VariantNormal, "mathbf": VariantBold,
	"mathit": VariantItalic, "boldsymbol": VariantBoldItalic, "bm": VariantBoldItalic,
	"mathbb": VariantDoubleStruck, "mathcal": VariantScript, "mathscr": VariantScript,
	"mathfrak": VariantFraktur, "mathsf": VariantSansSerif, "mathtt": VariantMonospace,
}

// textCommands take a raw text argument.
var textCommands = map[string]bool{
	"text": true, "textrm": true, "textnormal": true, "textit": true,
	"textbf": true, "mbox": true, "textsf": true, "texttt": true,
}

// spaces maps spacing commands to em widths.
var spaces = map[string]string{
	",": "0.1667em", "thinspace": "0.1667em", ":": "0.2222em", ">": "0.2222em",
	"medspace": "0.2222em", ";": "0.2778em", "thickspace": "0.2778em",
	"!": "-0.1667em", "negthinspace": "-0.1667em", " ": "0.25em",
	"quad": "1em", "qquad": "2em", "enspace": "0.5em",
}

// ignored commands change style only and produce no output.
var ignored = map[string]bool{
	"displaystyle": true, "textstyle": true, "scriptstyle": true,
	"scriptscriptstyle": true, "nonumber": true, "notag": true,
}

// sizedDelimiters precede a delimiter and only change its size.
var sizedDelimiters = map[string]bool{
	"big": true, "Big": true, "bigg": true, "Bigg": true,
	"bigl": true, "Bigl": true, "biggl": true, "Biggl": true,
	"bigr": true, "Bigr": true, "biggr": true, "Biggr": true,
	"bigm": true, "Bigm": true,
}

// environments maps supported environments to their fences.
var environments = map[string][2]string{
	"matrix": {"", ""}, "pmatrix": {"(", ")"}, "bmatrix": {"[", "]"},
	"Bmatrix": {"{", "}"}, "vmatrix": {"|", "|"}, "Vmatrix": {"‖", "‖"},
	"smallmatrix": {"", ""}, "cases": {"{", ""}, "aligned": {"", ""},
	"align": {"", ""}, "align*": {"", ""}, "gathered": {"", ""},
	"split": {"", ""}, "array": {"", ""},
}

// singleCharOps are characters emitted as operators.
const singleCharOps = "+-=<>*/()[]|,;:!?.'\""

// operatorGlyph maps ASCII operators to their typeset forms.
var operatorGlyph = map[rune]string{
	'-': "−",
	'*': "∗",
}
