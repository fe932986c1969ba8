package moderation

import "regexp"

// Content categories, matching the alert taxonomy.
const (
	CategorySuicidalIdeation      = "suicidal_ideation"
	CategorySelfHarm              = "self_harm"
	CategoryGrooming              = "grooming"
	CategoryCyberbullying         = "cyberbullying"
	CategorySexualContent         = "sexual_content"
	CategoryViolence              = "violence"
	CategoryDrugs                 = "drugs"
	CategoryHateSpeech            = "hate_speech"
	CategoryInappropriateLanguage = "inappropriate_language"
)

// rule is a single content pattern with its category and base severity.
type rule struct {
	re        *regexp.Regexp
	category  string
	baseScore int
}

// Pattern tables are loaded once at process start and never mutated.
// Within a tier, rules are evaluated in declaration order.

var criticalRules = []rule{
	{regexp.MustCompile(`(?i)kill\s+myself|suicide|end\s+it\s+all|can't\s+go\s+on`), CategorySuicidalIdeation, 85},
	{regexp.MustCompile(`(?i)cut\s+myself|self.?harm|hurt\s+myself`), CategorySelfHarm, 80},
	{regexp.MustCompile(`(?i)send\s+(?:nudes?|pics?)|meet\s+(?:up|somewhere)|don't\s+tell\s+(?:mom|dad|parents)`), CategoryGrooming, 75},
}

var highRules = []rule{
	{regexp.MustCompile(`(?i)hate\s+you|you're\s+ugly|everyone\s+hates\s+you|kill\s+yourself`), CategoryCyberbullying, 70},
	{regexp.MustCompile(`(?i)send\s+(?:address|phone|number)|how\s+old\s+are\s+you.*\?`), CategoryGrooming, 65},
}

var mediumRules = []rule{
	{regexp.MustCompile(`(?i)stupid|idiot|loser|shut\s+up`), CategoryInappropriateLanguage, 40},
	{regexp.MustCompile(`(?i)weed|drugs?|pills?|high`), CategoryDrugs, 45},
}
