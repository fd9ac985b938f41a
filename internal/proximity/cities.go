package proximity

type governorate struct {
	name     string
	lat, lon float64
}

// governorates lists Egypt's 27 governorates with the approximate coordinates of
// each capital. Kept in alphabetical order.
var governorates = []governorate{
	{"Alexandria", 31.20, 29.92},
	{"Assiut", 27.18, 31.18},
	{"Aswan", 24.09, 32.90},
	{"Beheira", 31.03, 30.47},
	{"Beni Suef", 29.07, 31.10},
	{"Cairo", 30.04, 31.24},
	{"Dakahlia", 31.04, 31.38},
	{"Damietta", 31.42, 31.81},
	{"Fayoum", 29.31, 30.84},
	{"Gharbia", 30.79, 31.00},
	{"Giza", 30.01, 31.21},
	{"Ismailia", 30.60, 32.27},
	{"Kafr El Sheikh", 31.11, 30.94},
	{"Luxor", 25.69, 32.64},
	{"Matrouh", 31.35, 27.24},
	{"Minya", 28.11, 30.74},
	{"Monufia", 30.55, 31.01},
	{"New Valley", 25.45, 30.55},
	{"North Sinai", 31.13, 33.80},
	{"Port Said", 31.26, 32.30},
	{"Qalyubia", 30.46, 31.18},
	{"Qena", 26.16, 32.73},
	{"Red Sea", 27.26, 33.81},
	{"Sharqia", 30.59, 31.50},
	{"Sohag", 26.56, 31.69},
	{"South Sinai", 28.24, 33.62},
	{"Suez", 29.97, 32.53},
}

// Cities returns the governorate names in alphabetical order.
func Cities() []string {
	out := make([]string, len(governorates))
	for i, g := range governorates {
		out[i] = g.name
	}
	return out
}

// IsKnown reports whether city names one of the governorates.
func IsKnown(city string) bool {
	_, ok := index[normalize(city)]
	return ok
}
