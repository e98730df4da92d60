package pattern

import "github.com/vigil-sec/vigil/internal/model"

// Set weights are part of the static pattern metadata: one strong match
// from a set yields that set's confidence. Benchmark-informed rules are
// weighted slightly above the base set because they were distilled from
// labeled adversarial corpora.
const (
	baseWeight         = 0.90
	benchmarkWeight    = 0.92
	multilingualWeight = 0.90
)

// BuiltinSets returns the compiled-in pattern sets. Additional sets can
// be layered on top from a YAML file without touching this table.
func BuiltinSets() []Set {
	return []Set{
		{
			Name:    "base",
			Version: "1.2.0",
			Origin:  model.OriginBase,
			Weight:  baseWeight,
			Rules: []Rule{
				{ID: "ignore_instructions", Expr: `ignore\s+(all\s+|any\s+)?(previous|prior|above|earlier)\s+(instructions|prompts|directives|rules)`},
				{ID: "disregard_instructions", Expr: `disregard\s+(all\s+|any\s+)?(previous|prior|above|your)\s+(instructions|guidelines|rules)`},
				{ID: "forget_instructions", Expr: `forget\s+(all\s+|everything\s+)?(previous|prior|your)\s+(instructions|training|rules)`},
				{ID: "override_system", Expr: `override\s+(the\s+)?(system|safety)\s+(prompt|instructions|settings)`},
				{ID: "reveal_system_prompt", Expr: `(reveal|show|print|repeat|output)\s+(me\s+)?(the\s+|your\s+)?(system|initial|original|hidden)\s+(prompt|instructions|message)`},
				{ID: "new_persona", Expr: `you\s+are\s+(now|no\s+longer)\s+`},
				{ID: "not_bound_by", Expr: `(no\s+longer|not)\s+bound\s+by\s+(any\s+)?(rules|restrictions|guidelines|policies)`},
				{ID: "bypass_safety", Expr: `bypass\s+(the\s+|your\s+|all\s+)?(safety|security|content)\s*(filter|filters|measures|guidelines|restrictions)?`},
				{ID: "pretend_unrestricted", Expr: `pretend\s+(that\s+)?you\s+(have\s+no|don'?t\s+have\s+any|are\s+free\s+of)\s+(restrictions|limitations|rules|guidelines)`},
				{ID: "act_as_unfiltered", Expr: `act\s+as\s+(an?\s+)?(unfiltered|unrestricted|uncensored|amoral)\s+(ai|assistant|model|chatbot)`},
				{ID: "admin_mode", Expr: `(enable|activate|enter)\s+(admin|root|god|sudo)\s+mode`},
				{ID: "instruction_injection", Expr: `(new|updated|real)\s+instructions?\s*:\s*`},
				{ID: "prompt_leak_probe", Expr: `what\s+(were|are)\s+your\s+(original|initial|exact)\s+instructions`},
			},
		},
		{
			Name:    "benchmark_informed",
			Version: "1.1.0",
			Origin:  model.OriginBenchmarkInformed,
			Weight:  benchmarkWeight,
			Rules: []Rule{
				{ID: "dan", Expr: `do\s+anything\s+now|\bDAN\s+mode\b`},
				{ID: "jailbreak", Expr: `jail\s*break`},
				{ID: "developer_mode", Expr: `developer\s+mode\s+(enabled|activated|on)`},
				{ID: "no_restrictions", Expr: `(no|zero|without(\s+any)?)\s+(restrictions|limitations|censorship|filters)`},
				{ID: "no_ethics", Expr: `(no|without|free\s+(of|from))\s+(ethical|moral)\s+(guidelines|constraints|considerations|boundaries)`},
				{ID: "never_refuse", Expr: `(never|can'?t|don'?t)\s+(refuse|decline|deny)\s+(a\s+|any\s+|my\s+)?(request|order|command|prompt)`},
				{ID: "hypothetical_frame", Expr: `hypothetical\s+(response|reply|scenario)\s*:`},
				{ID: "fictional_disclaimer", Expr: `(purely|entirely|just)\s+(fictional|hypothetical)\s+(and|so)\s+(no|any)\s+(harm|rules)`},
				{ID: "stay_in_character", Expr: `stay\s+in\s+character\s+(at\s+all\s+times|no\s+matter\s+what)`},
				{ID: "evil_persona", Expr: `(evil|villain|rogue)\s+(ai|assistant|version|twin)`},
				{ID: "opposite_day", Expr: `opposite\s+day|answer\s+(as|like)\s+the\s+opposite`},
				{ID: "token_threat", Expr: `(lose|deduct)\s+\d+\s+tokens?`},
				{ID: "grandma_exploit", Expr: `(grandma|grandmother)\s+(used\s+to|would)\s+(tell|read)\s+me`},
				{ID: "base64_smuggle", Expr: `(decode|respond\s+in|answer\s+in)\s+base64`},
				{ID: "refusal_suppression", Expr: `do\s+not\s+(include|add|start\s+with)\s+(any\s+)?(warnings?|disclaimers?|apolog)`},
				{ID: "unlock_content", Expr: `unlock\s+(hidden|forbidden|restricted)\s+(content|capabilities|knowledge)`},
			},
		},
		{
			Name:    "multilingual",
			Version: "1.0.0",
			Origin:  model.OriginBase,
			Weight:  multilingualWeight,
			Rules: []Rule{
				// Finnish
				{ID: "fi_ignore_instructions", Language: "fi", Expr: `(ohita|unohda)\s+(kaikki\s+)?(aiemmat|edelliset)\s+(ohjeet|käskyt|säännöt)`},
				{ID: "fi_no_rules", Language: "fi", Expr: `ilman\s+(mitään\s+)?(rajoituksia|sääntöjä)`},
				// Swedish
				{ID: "sv_ignore_instructions", Language: "sv", Expr: `(ignorera|glöm)\s+(alla\s+)?(tidigare|föregående)\s+(instruktioner|regler)`},
				// German
				{ID: "de_ignore_instructions", Language: "de", Expr: `(ignoriere|vergiss)\s+(alle\s+)?(vorherigen|bisherigen)\s+(anweisungen|regeln)`},
				// French
				{ID: "fr_ignore_instructions", Language: "fr", Expr: `(ignore[zr]?|oublie[zr]?)\s+(toutes\s+)?les\s+(instructions|règles)\s+précédentes`},
				// Spanish
				{ID: "es_ignore_instructions", Language: "es", Expr: `(ignora|olvida)\s+(todas\s+)?las\s+instrucciones\s+(anteriores|previas)`},
				// Russian
				{ID: "ru_ignore_instructions", Language: "ru", Expr: `(игнорируй|забудь)\s+(все\s+)?(предыдущие|прежние)\s+(инструкции|правила)`},
			},
		},
	}
}
