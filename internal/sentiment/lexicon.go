package sentiment

// Word valences on a -4..+4 scale, VADER-style. Slanted toward the
// vocabulary of finance and stock-market social media.
var defaultLexicon = map[string]float64{
	// general positive
	"good": 1.9, "great": 3.1, "greatest": 3.4, "excellent": 3.2,
	"amazing": 2.8, "awesome": 3.1, "fantastic": 3.0, "wonderful": 2.7,
	"best": 3.2, "love": 3.2, "loved": 2.9, "like": 1.5, "likes": 1.5,
	"win": 2.8, "winning": 2.4, "winner": 2.8, "happy": 2.7, "glad": 2.0,
	"nice": 1.8, "solid": 1.5, "strong": 2.3, "stronger": 2.5,
	"impressive": 2.3, "exciting": 2.2, "excited": 2.2, "perfect": 2.7,
	"success": 2.7, "successful": 2.8, "opportunity": 1.7, "confident": 2.2,
	"optimistic": 2.0, "promising": 1.9, "positive": 2.1,

	// general negative
	"bad": -2.5, "terrible": -3.1, "horrible": -2.9, "awful": -2.0,
	"worst": -3.1, "hate": -2.7, "hated": -2.7, "fear": -2.2,
	"worried": -1.9, "worry": -1.6, "risk": -1.1, "risky": -1.6,
	"lose": -2.4, "losing": -2.4, "loser": -2.5, "loss": -1.3,
	"losses": -1.3, "fail": -2.5, "failed": -2.3, "failure": -2.6,
	"weak": -1.9, "weaker": -2.1, "poor": -2.1, "disappointing": -2.2,
	"disappointed": -2.1, "negative": -1.8, "ugly": -2.3, "scared": -2.2,
	"problem": -1.7, "problems": -1.7, "doubt": -1.5, "pessimistic": -2.0,

	// market-specific positive
	"bull": 1.8, "bullish": 2.5, "moon": 2.9, "mooning": 2.9,
	"rocket": 2.4, "rally": 2.2, "rallied": 2.2, "breakout": 2.1,
	"surge": 2.3, "surged": 2.3, "soar": 2.5, "soared": 2.5,
	"gain": 1.9, "gains": 1.9, "profit": 2.1, "profits": 2.1,
	"beat": 1.8, "beats": 1.8, "upgrade": 2.0, "upgraded": 2.0,
	"buy": 1.4, "buying": 1.4, "undervalued": 1.6, "growth": 1.8,
	"recover": 1.7, "recovery": 1.8, "rebound": 1.9, "uptrend": 2.1,
	"outperform": 2.0, "record": 1.5, "dividend": 0.9, "hold": 0.4,
	"tendies": 2.2, "yolo": 0.8, "diamond": 1.2, "calls": 0.9,

	// market-specific negative
	"bear": -1.8, "bearish": -2.5, "crash": -3.0, "crashed": -3.0,
	"crashing": -3.0, "dump": -2.4, "dumped": -2.4, "dumping": -2.4,
	"tank": -2.3, "tanked": -2.5, "tanking": -2.5, "plunge": -2.6,
	"plunged": -2.6, "drop": -1.6, "dropped": -1.6, "selloff": -2.2,
	"sell": -1.2, "selling": -1.2, "short": -1.0, "shorting": -1.4,
	"downgrade": -2.0, "downgraded": -2.0, "miss": -1.7, "missed": -1.7,
	"overvalued": -1.6, "bubble": -1.8, "lawsuit": -2.1, "fraud": -3.0,
	"investigation": -1.7, "recall": -1.8, "bankruptcy": -3.2,
	"bankrupt": -3.1, "debt": -1.2, "layoffs": -2.2, "downtrend": -2.1,
	"bagholder": -2.3, "rekt": -2.7, "puts": -0.9, "correction": -1.3,
}

// Degree modifiers scale the valence of the word that follows them.
var boosters = map[string]float64{
	"very": 0.293, "really": 0.293, "extremely": 0.293, "absolutely": 0.293,
	"incredibly": 0.293, "totally": 0.293, "so": 0.293, "super": 0.293,
	"slightly": -0.293, "somewhat": -0.293, "kinda": -0.293,
	"barely": -0.293, "marginally": -0.293, "hardly": -0.293,
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nobody": {},
	"none": {}, "nor": {}, "nothing": {}, "without": {}, "isnt": {},
	"wasnt": {}, "wont": {}, "cant": {}, "cannot": {}, "dont": {},
	"doesnt": {}, "didnt": {}, "aint": {}, "couldnt": {}, "shouldnt": {},
	"wouldnt": {},
}
