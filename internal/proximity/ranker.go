package proximity

import (
	"math"
	"slices"
	"strings"

	"github.com/angelmondragon/deadstock-backend/internal/records"
)

// Unknown is the distance assigned whenever either city is not a governorate.
const Unknown = math.MaxInt

const earthRadiusKM = 6371.0

var (
	index  = make(map[string]int, len(governorates))
	matrix [][]int
)

func init() {
	for i, g := range governorates {
		index[normalize(g.name)] = i
	}
	matrix = make([][]int, len(governorates))
	for i := range governorates {
		matrix[i] = make([]int, len(governorates))
		for j := 0; j < i; j++ {
			d := approxKM(governorates[i], governorates[j])
			matrix[i][j] = d
			matrix[j][i] = d
		}
	}
}

// approxKM is an equirectangular estimate, coarse but symmetric and cheap.
func approxKM(a, b governorate) int {
	toRad := math.Pi / 180
	x := (b.lon - a.lon) * toRad * math.Cos((a.lat+b.lat)/2*toRad)
	y := (b.lat - a.lat) * toRad
	return int(math.Round(math.Sqrt(x*x+y*y) * earthRadiusKM))
}

func normalize(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}

// Distance returns the heuristic distance between two cities. Equal names are 0,
// an empty or unrecognised name yields Unknown.
func Distance(a, b string) int {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return Unknown
	}
	if na == nb {
		return 0
	}
	i, okA := index[na]
	j, okB := index[nb]
	if !okA || !okB {
		return Unknown
	}
	return matrix[i][j]
}

// Rank returns a new slice ordered by distance from viewerCity. The sort is
// stable, so equal distances keep their input order and unknown cities trail.
func Rank(offers []records.Offer, viewerCity string) []records.Offer {
	type ranked struct {
		offer records.Offer
		dist  int
	}
	tmp := make([]ranked, len(offers))
	for i, o := range offers {
		tmp[i] = ranked{offer: o, dist: Distance(viewerCity, o.City)}
	}
	slices.SortStableFunc(tmp, func(a, b ranked) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		default:
			return 0
		}
	})
	out := make([]records.Offer, len(tmp))
	for i, r := range tmp {
		out[i] = r.offer
	}
	return out
}
