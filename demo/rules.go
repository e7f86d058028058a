package demo

import (
	"github.com/kbukum/gorunnable/runnable"
	"github.com/kbukum/gorunnable/transform"
)

// Canned model responses.
const (
	KolkataResponse = "Kolkata is the capital of West Bengal. These two teams are from Kolkata."

	RivalryResponse = "The East Bengal–Mohun Bagan rivalry in the IFA Shield is one of Indian football’s most storied battles, " +
		"symbolizing passion, pride, and regional identity. Since their first clash in the early 20th century, their encounters " +
		"have transcended sport, capturing the emotions of millions across Bengal. Each IFA Shield duel between the Red and Gold " +
		"of East Bengal and the Green and Maroon of Mohun Bagan turns into a festival of fierce competition, unforgettable goals, " +
		"and iconic moments that continue to define the legacy of Kolkata football."

	SummaryResponse = `{"points": [` +
		`"The topic has a long history that shapes how it is understood today.", ` +
		`"Several parties hold competing interests and narratives.", ` +
		`"Recent events have drawn sustained international attention.", ` +
		`"Economic and humanitarian effects reach well beyond the region.", ` +
		`"Any lasting outcome depends on negotiation and trust."]}`

	ArticleResponse = "NEWS DESK: Officials confirmed on Monday that talks on the matter will resume next week, " +
		"after days of intense diplomatic activity. Analysts say the coming round could set the tone for the months ahead, " +
		"while residents in affected areas continue to call for stability and relief."

	TweetResponse = "BREAKING: Talks set to resume next week as diplomatic efforts intensify. Follow our live coverage for updates. #WorldNews"

	ParagraphResponse = "The subject has unfolded over many years and cannot be understood through a single event. " +
		"It grew from a tangle of history, geography and competing visions of security, and each side tells the story " +
		"in its own way. Early disputes over borders and influence hardened into mistrust, and that mistrust shaped " +
		"every later decision. Ordinary people have carried much of the cost, through displacement, disrupted trade " +
		"and the slow erosion of daily routines. Governments far from the front lines have also been pulled in, " +
		"balancing principle against economic pressure and domestic politics. Energy markets, grain supplies and " +
		"shipping routes all felt the shock. Diplomats continue to search for a formula that both sides can accept, " +
		"yet every proposal runs into the same questions about guarantees, accountability and the shape of a durable peace."

	FallbackResponse = "Sorry! I dont have enough context to answer this question."
)

// DefaultRules returns the stand-in model's rules in match order.
func DefaultRules() []transform.Rule {
	return []transform.Rule{
		{Match: transform.Contains("Bengal"), Output: transform.Response(KolkataResponse)},
		{Match: transform.Contains("IFA"), Output: transform.Response(RivalryResponse)},
		{Match: transform.Contains("5 pointer summary"), Output: transform.Response(SummaryResponse)},
		{Match: transform.Contains("news paper report"), Output: transform.Response(ArticleResponse)},
		{Match: transform.Contains("official tweet"), Output: transform.Response(TweetResponse)},
		{Match: transform.Contains("paragraph"), Output: transform.Response(ParagraphResponse)},
	}
}

// DefaultModel returns a Rules stage over DefaultRules.
func DefaultModel() *transform.Rules {
	return transform.NewRules("llm", transform.Response(FallbackResponse), DefaultRules()...)
}

// ModelFromConfig builds the stand-in from cfg, or DefaultModel when cfg has
// no rules.
func ModelFromConfig(cfg transform.RulesConfig) (runnable.Stage, error) {
	if len(cfg.Rules) == 0 {
		return DefaultModel(), nil
	}
	return transform.RulesFromConfig("llm", cfg)
}
