package taxonomy

import "strings"

// regionTable lists the 21 Swedish regions (län) with the 2-digit codes the
// JobTech search API expects in its region query parameter.
var regionTable = []struct {
	code string
	name string
}{
	{"01", "Stockholms län"},
	{"03", "Uppsala län"},
	{"04", "Södermanlands län"},
	{"05", "Östergötlands län"},
	{"06", "Jönköpings län"},
	{"07", "Kronobergs län"},
	{"08", "Kalmar län"},
	{"09", "Gotlands län"},
	{"10", "Blekinge län"},
	{"12", "Skåne län"},
	{"13", "Hallands län"},
	{"14", "Västra Götalands län"},
	{"17", "Värmlands län"},
	{"18", "Örebro län"},
	{"19", "Västmanlands län"},
	{"20", "Dalarnas län"},
	{"21", "Gävleborgs län"},
	{"22", "Västernorrlands län"},
	{"23", "Jämtlands län"},
	{"24", "Västerbottens län"},
	{"25", "Norrbottens län"},
}

// regionSlug derives the URL slug for a region name. The " län" suffix is
// dropped first so "Stockholms län" becomes "stockholms".
func regionSlug(name string) string {
	return Slugify(strings.TrimSuffix(name, " län"))
}
