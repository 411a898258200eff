package normalize

// commandNames lists operator, relation and letter names that are written
// as commands. A bare occurrence inside a formula gets its missing backslash.
var commandNames = toSet(
	// limits and big operators
	"lim", "liminf", "limsup", "frac", "sqrt", "int", "sum", "prod", "max", "min",
	// functions
	"sin", "cos", "tan", "cot", "sec", "csc", "arcsin", "arccos", "arctan",
	"sinh", "cosh", "tanh", "log", "ln", "exp", "det", "rank", "ker", "im",
	"gcd", "lcm", "mod",
	// relations
	"equiv", "approx", "sim", "cong", "perp", "parallel", "leq", "geq", "ll", "gg",
	// sets
	"subset", "supset", "subseteq", "supseteq", "in", "notin", "ni", "cup", "cap", "setminus",
	// arithmetic
	"times", "div", "pm", "mp", "infty", "aleph", "nabla", "partial",
	// logic
	"forall", "exists", "neg", "land", "lor", "implies", "iff", "because", "therefore",
	// dots
	"dots", "cdots", "vdots", "ddots",
	// greek letter names
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota",
	"kappa", "lambda", "mu", "nu", "xi", "omicron", "pi", "rho", "sigma", "tau",
	"upsilon", "phi", "chi", "psi", "omega",
)

// limitNames are re-escaped after the arrow pass.
var limitNames = toSet("lim", "liminf", "limsup")

// greekCommands maps Unicode Greek letters to command names.
var greekCommands = map[rune]string{
	'Δ': `\Delta`,
	'δ': `\delta`,
	'π': `\pi`,
	'α': `\alpha`,
	'β': `\beta`,
	'γ': `\gamma`,
	'ε': `\epsilon`,
	'ζ': `\zeta`,
	'η': `\eta`,
	'θ': `\theta`,
	'ι': `\iota`,
	'κ': `\kappa`,
	'λ': `\lambda`,
	'μ': `\mu`,
	'ν': `\nu`,
	'ξ': `\xi`,
	'ο': `\omicron`,
	'ρ': `\rho`,
	'σ': `\sigma`,
	'τ': `\tau`,
	'υ': `\upsilon`,
	'φ': `\phi`,
	'χ': `\chi`,
	'ψ': `\psi`,
	'ω': `\omega`,
}

// IsCommandName reports whether name is a known operator or letter name.
func IsCommandName(name string) bool {
	_, ok := commandNames[name]
	return ok
}

func toSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
