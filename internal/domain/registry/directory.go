package registry

// nation describes a National Olympic Committee known to the directory.
type nation struct {
	code    string
	name    string
	iso2    string
	aliases []string
}

// nations lists the committees that appear in recent Winter Games medal
// tables. Aliases cover the spellings used by Wikipedia and olympics.com.
var nations = []nation{
	{code: "AND", name: "Andorra", iso2: "AD"},
	{code: "AUS", name: "Australia", iso2: "AU"},
	{code: "AUT", name: "Austria", iso2: "AT"},
	{code: "BEL", name: "Belgium", iso2: "BE"},
	{code: "BLR", name: "Belarus", iso2: "BY"},
	{code: "BRA", name: "Brazil", iso2: "BR"},
	{code: "BUL", name: "Bulgaria", iso2: "BG"},
	{code: "CAN", name: "Canada", iso2: "CA"},
	{code: "CHN", name: "China", iso2: "CN", aliases: []string{"People's Republic of China"}},
	{code: "CRO", name: "Croatia", iso2: "HR"},
	{code: "CZE", name: "Czech Republic", iso2: "CZ", aliases: []string{"Czechia"}},
	{code: "DEN", name: "Denmark", iso2: "DK"},
	{code: "ESP", name: "Spain", iso2: "ES"},
	{code: "EST", name: "Estonia", iso2: "EE"},
	{code: "FIN", name: "Finland", iso2: "FI"},
	{code: "FRA", name: "France", iso2: "FR"},
	{code: "GBR", name: "Great Britain", iso2: "GB", aliases: []string{"United Kingdom", "Britain"}},
	{code: "GER", name: "Germany", iso2: "DE"},
	{code: "HUN", name: "Hungary", iso2: "HU"},
	{code: "ITA", name: "Italy", iso2: "IT"},
	{code: "JPN", name: "Japan", iso2: "JP"},
	{code: "KAZ", name: "Kazakhstan", iso2: "KZ"},
	{code: "KOR", name: "South Korea", iso2: "KR", aliases: []string{"Korea", "Republic of Korea"}},
	{code: "LAT", name: "Latvia", iso2: "LV"},
	{code: "LIE", name: "Liechtenstein", iso2: "LI"},
	{code: "LTU", name: "Lithuania", iso2: "LT"},
	{code: "MON", name: "Monaco", iso2: "MC"},
	{code: "NED", name: "Netherlands", iso2: "NL", aliases: []string{"The Netherlands", "Holland"}},
	{code: "NOR", name: "Norway", iso2: "NO"},
	{code: "NZL", name: "New Zealand", iso2: "NZ"},
	{code: "POL", name: "Poland", iso2: "PL"},
	{code: "ROU", name: "Romania", iso2: "RO"},
	{code: "RUS", name: "Russia", iso2: "RU", aliases: []string{"ROC"}},
	{code: "SLO", name: "Slovenia", iso2: "SI"},
	{code: "SUI", name: "Switzerland", iso2: "CH"},
	{code: "SVK", name: "Slovakia", iso2: "SK"},
	{code: "SWE", name: "Sweden", iso2: "SE"},
	{code: "UKR", name: "Ukraine", iso2: "UA"},
	{code: "USA", name: "United States", iso2: "US", aliases: []string{"United States of America"}},
}

var (
	byCode = map[string]nation{}
	byName = map[string]string{}
)

func init() { //nolint:gochecknoinits // static lookup tables
	for _, n := range nations {
		byCode[n.code] = n
		byName[Fold(n.name)] = n.code
		for _, a := range n.aliases {
			byName[Fold(a)] = n.code
		}
	}
}
