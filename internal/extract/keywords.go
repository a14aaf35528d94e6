package extract

import "github.com/sells-group/pickwatch/internal/model"

// pickCues are recommendation signals. A candidate whose context contains
// none of these is discarded as a probable false positive; the matcher
// favors precision over recall.
var pickCues = []string{
	"pick",
	"picks",
	"bet",
	"bets",
	"take",
	"play",
	"plays",
	"lean",
	"recommend",
	"unit",
	"units",
	"lock",
	"spread",
	"money line",
	"moneyline",
	"wager",
}

// sideBlocklist rejects side names that are really site chrome, legal
// boilerplate, or bet-type labels scraped out of the page.
var sideBlocklist = []string{
	"subscribe",
	"sign up",
	"sign in",
	"log in",
	"login",
	"terms",
	"privacy",
	"copyright",
	"all rights reserved",
	"newsletter",
	"sportsline",
	"money line",
	"point spread",
	"over under",
	"total",
	"props",
	"analysis",
	"my account",
	"free trial",
}

// tierLadder is scanned in order; the first matching keyword wins. Order
// preserves the original tie-break: explicit best-bet markers outrank a
// bare "lock".
var tierLadder = []struct {
	keyword string
	tier    model.Tier
}{
	{"best bet", model.TierBest},
	{"five star", model.TierBest},
	{"5 star", model.TierBest},
	{"lock", model.TierLock},
	{"four star", model.TierStrong},
	{"4 star", model.TierStrong},
	{"three star", model.TierGood},
	{"3 star", model.TierGood},
}

// statusMarkers maps settlement keywords to pick status, scanned in order.
var statusMarkers = []struct {
	keyword string
	status  model.PickStatus
}{
	{"push", model.StatusPush},
	{"pushed", model.StatusPush},
	{"won", model.StatusWon},
	{"winner", model.StatusWon},
	{"cashed", model.StatusWon},
	{"lost", model.StatusLost},
	{"loser", model.StatusLost},
}

// leagueTable classifies a side name by league membership, scanned in
// order with first match winning. Names are lowercase.
var leagueTable = []struct {
	category string
	names    []string
}{
	{"nfl", []string{
		"patriots", "cowboys", "packers", "chiefs", "bills", "eagles",
		"49ers", "rams", "ravens", "bengals", "dolphins", "jets",
		"steelers", "browns", "texans", "colts", "jaguars", "titans",
		"broncos", "raiders", "chargers", "bears", "lions", "vikings",
		"falcons", "panthers", "saints", "buccaneers", "cardinals",
		"seahawks", "giants", "commanders",
	}},
	{"nba", []string{
		"lakers", "celtics", "warriors", "heat", "bulls", "knicks",
		"nets", "bucks", "suns", "nuggets", "mavericks", "clippers",
		"grizzlies", "pelicans", "kings", "spurs", "thunder", "jazz",
		"trail blazers", "timberwolves", "rockets", "hawks", "hornets",
		"magic", "pistons", "pacers", "cavaliers", "raptors", "wizards",
		"76ers",
	}},
	{"mlb", []string{
		"yankees", "red sox", "dodgers", "mets", "cubs", "braves",
		"astros", "phillies", "padres", "mariners", "orioles", "rangers",
		"blue jays", "rays", "twins", "guardians", "white sox", "royals",
		"tigers", "angels", "athletics", "diamondbacks", "rockies",
		"pirates", "reds", "brewers", "marlins", "nationals",
	}},
	{"college", []string{
		"alabama", "georgia", "byu", "ucla", "usc", "ohio state",
		"michigan", "clemson", "oklahoma", "texas a&m", "notre dame",
		"east carolina", "gonzaga", "duke", "kentucky", "kansas",
	}},
	{"soccer", []string{
		"chelsea", "manchester united", "manchester city", "liverpool",
		"arsenal", "tottenham", "barcelona", "real madrid", "bayern",
		"juventus", "inter milan", "psg",
	}},
}

// scholasticMarkers catch college programs not in the curated list.
var scholasticMarkers = []string{"state", "university", "tech", "a&m"}

// analysisCues mark where the handicapper's reasoning starts.
var analysisCues = []string{"analysis:", "analysis", "reasoning:", "why:", "the case:"}
