package sentiment

// Sentiment word lists for the lexicon method. Matching is exact on
// lowercased tokens.
var positiveWords = map[string]bool{
	"amazing": true, "awesome": true, "beautiful": true, "best": true,
	"comfortable": true, "durable": true, "easy": true, "excellent": true,
	"fantastic": true, "fast": true, "favorite": true, "good": true,
	"great": true, "happy": true, "helpful": true, "impressive": true,
	"love": true, "loved": true, "nice": true, "outstanding": true,
	"perfect": true, "pleasant": true, "premium": true, "quality": true,
	"quiet": true, "recommend": true, "recommended": true, "reliable": true,
	"satisfied": true, "sleek": true, "smooth": true, "solid": true,
	"sturdy": true, "superb": true, "superior": true, "top": true,
	"useful": true, "value": true, "wonderful": true, "worth": true,
}

var negativeWords = map[string]bool{
	"awful": true, "bad": true, "broke": true, "broken": true,
	"cheap": true, "defective": true, "disappointed": true,
	"disappointing": true, "expensive": true, "faulty": true, "flimsy": true,
	"fragile": true, "garbage": true, "hate": true, "hated": true,
	"horrible": true, "junk": true, "loud": true, "mediocre": true,
	"noisy": true, "overpriced": true, "poor": true, "problem": true,
	"refund": true, "return": true, "returned": true, "slow": true,
	"terrible": true, "uncomfortable": true, "unreliable": true,
	"unusable": true, "useless": true, "waste": true, "worst": true,
	"worthless": true,
}
