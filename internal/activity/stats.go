package activity

import (
	"sort"
	"strings"

	"github.com/odensebartech/dashboard/internal/remote"
)

const AllRecipes = "All Recipes"

type Point struct {
	Hour  string  `json:"hour"`
	Value float64 `json:"value"`
}

type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Series is what the activity charts draw: one value per hour for the line
// and bar charts, and the per recipe totals for the pie chart.
type Series struct {
	Points       []Point
	Distribution []Slice
}

// ChartData is the JSON shape of the chart data endpoint.
type ChartData struct {
	Hours        []string  `json:"hours"`
	Values       []float64 `json:"values"`
	Distribution []Slice   `json:"distribution"`
}

// normalizeRecipe makes "Rum & Cola" and "RumCola" the same recipe.
func normalizeRecipe(name string) string {
	return strings.NewReplacer(" ", "", "&", "").Replace(name)
}

func isAllRecipes(selected string) bool {
	n := normalizeRecipe(selected)
	return n == "" || n == normalizeRecipe(AllRecipes)
}

// RecipeNames lists the selectable recipes: AllRecipes first, then every name
// seen in the stats, sorted.
func RecipeNames(stats []remote.HourStat) []string {
	seen := map[string]bool{}
	for _, hs := range stats {
		for name := range hs.Counts {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return append([]string{AllRecipes}, names...)
}

// BuildSeries derives the chart series for the selected recipe. An empty
// selection or AllRecipes gives the hourly totals; a recipe missing from an
// hour counts as 0 there.
func BuildSeries(stats []remote.HourStat, selected string) Series {
	all := isAllRecipes(selected)
	want := normalizeRecipe(selected)

	series := Series{
		Points:       make([]Point, 0, len(stats)),
		Distribution: []Slice{},
	}
	totals := map[string]float64{}

	for _, hs := range stats {
		point := Point{Hour: hs.Hour}
		if all {
			point.Value = hs.Total
		}
		for name, count := range hs.Counts {
			totals[name] += count
			if !all && normalizeRecipe(name) == want {
				point.Value += count
			}
		}
		series.Points = append(series.Points, point)
	}

	for name, total := range totals {
		series.Distribution = append(series.Distribution, Slice{Name: name, Value: total})
	}
	sort.Slice(series.Distribution, func(i, j int) bool {
		return series.Distribution[i].Name < series.Distribution[j].Name
	})

	return series
}

func (s Series) ChartData() ChartData {
	data := ChartData{
		Hours:        make([]string, 0, len(s.Points)),
		Values:       make([]float64, 0, len(s.Points)),
		Distribution: s.Distribution,
	}
	for _, p := range s.Points {
		data.Hours = append(data.Hours, p.Hour)
		data.Values = append(data.Values, p.Value)
	}
	return data
}
