package charts

import (
	"mealmetrics/internal/engine"
	"mealmetrics/internal/models"
)

// Option is an ECharts option document, serialised as-is to the browser.
type Option map[string]any

// Node is one element of a sunburst or tree hierarchy.
type Node struct {
	Name     string `json:"name"`
	Value    int    `json:"value,omitempty"`
	Children []Node `json:"children,omitempty"`
}

func EBar(title, subtitle string, freq models.Frequency) Option {
	return Option{
		"title":   Option{"text": title, "subtext": subtitle, "left": "center"},
		"tooltip": Option{"trigger": "axis", "axisPointer": Option{"type": "shadow"}},
		"xAxis": Option{
			"type":      "category",
			"data":      freq.Labels(),
			"axisLabel": Option{"rotate": 25, "interval": 0},
		},
		"yAxis":  Option{"type": "value"},
		"series": []Option{{"data": seriesData(freq), "type": "bar"}},
	}
}

func EPie(title, subtitle, seriesName string, freq models.Frequency) Option {
	return Option{
		"title":   Option{"text": title, "subtext": subtitle, "left": "center"},
		"tooltip": Option{"trigger": "item"},
		"legend":  Option{"orient": "vertical", "left": "left"},
		"series": []Option{{
			"name":   seriesName,
			"type":   "pie",
			"radius": "50%",
			"data":   seriesData(freq),
			"emphasis": Option{
				"itemStyle": Option{"shadowBlur": 10, "shadowOffsetX": 0, "shadowColor": "rgba(0, 0, 0, 0.5)"},
			},
		}},
	}
}

// EDonut is a ring pie whose label shows in the centre on hover.
func EDonut(title, subtitle, seriesName string, freq models.Frequency) Option {
	return Option{
		"title":   Option{"text": title, "subtext": subtitle, "left": "center"},
		"tooltip": Option{"trigger": "item"},
		"legend":  Option{"top": "5%", "left": "left"},
		"series": []Option{{
			"name":              seriesName,
			"type":              "pie",
			"radius":            []string{"40%", "70%"},
			"avoidLabelOverlap": false,
			"itemStyle":         Option{"borderRadius": 10, "borderColor": "#fff", "borderWidth": 2},
			"label":             Option{"show": false, "position": "center"},
			"emphasis":          Option{"label": Option{"show": true, "fontSize": 40, "fontWeight": "bold"}},
			"labelLine":         Option{"show": false},
			"data":              seriesData(freq),
		}},
	}
}

func ESunburst(title, subtitle string, data []Node) Option {
	return Option{
		"title": Option{
			"text":         title,
			"subtext":      subtitle,
			"textStyle":    Option{"fontSize": 14, "align": "center"},
			"subtextStyle": Option{"align": "center"},
		},
		"series": Option{
			"type":     "sunburst",
			"data":     data,
			"radius":   []any{0, "95%"},
			"sort":     nil,
			"emphasis": Option{"focus": "ancestor"},
			"levels": []Option{
				{},
				{"r0": "15%", "r": "35%", "itemStyle": Option{"borderWidth": 2}, "label": Option{"rotate": "tangential"}},
				{"r0": "35%", "r": "70%", "label": Option{"align": "right"}},
				{"r0": "70%", "r": "72%", "label": Option{"position": "outside", "padding": 3, "silent": false}, "itemStyle": Option{"borderWidth": 3}},
			},
		},
	}
}

func ETree(root Node) Option {
	return Option{
		"tooltip": Option{"trigger": "item", "triggerOn": "mousemove"},
		"series": []Option{{
			"type":       "tree",
			"data":       []Node{root},
			"top":        "1%",
			"left":       "7%",
			"bottom":     "1%",
			"right":      "20%",
			"symbolSize": 7,
			"label": Option{
				"position": "left", "verticalAlign": "middle", "align": "right", "fontSize": 9,
			},
			"leaves": Option{
				"label": Option{"position": "right", "verticalAlign": "middle", "align": "left"},
			},
			"emphasis":                Option{"focus": "descendant"},
			"expandAndCollapse":       true,
			"animationDuration":       550,
			"animationDurationUpdate": 750,
		}},
	}
}

func seriesData(freq models.Frequency) []Option {
	out := make([]Option, 0, len(freq))
	for _, c := range freq {
		out = append(out, Option{"value": c.Value, "name": c.Name})
	}
	return out
}

// Interactive chart names served under /api/echarts/:name. Data-backed
// charts share the key their data notice is filed under.
var (
	EHealthConsciousness = engine.Slug(engine.QHealthConsciousness)
	EPriorities          = engine.KeyPriorities
	EWholeGrains         = engine.Slug(engine.QWholeGrains)
	EImproveDiet         = engine.Slug(engine.QStepsToImproveDiet)
)

const (
	EFoodSunburst = "food-sunburst"
	EDietTree     = "diet-tree"
)

// EOptions builds every interactive chart of the dashboard. Charts whose data
// failed to prepare are left out.
func EOptions(data *models.DashboardData) map[string]Option {
	out := map[string]Option{
		EFoodSunburst: ESunburst("Healthy Food vs Junk Food", "A Comparative Overview", FoodHierarchy()),
		EDietTree:     ETree(DietTypes()),
	}
	if data == nil {
		return out
	}

	if qc, ok := data.CountsFor(engine.QHealthConsciousness); ok {
		out[EHealthConsciousness] = EBar("Health Consciousness Analysis", "Distribution of Health Consciousness Responses", qc.Counts)
	}
	if _, failed := data.Errors[engine.KeyPriorities]; !failed {
		out[EPriorities] = EBar("Food Selection Priorities Analysis", "Distribution of Food Selection Priorities", data.Priorities)
	}
	if qc, ok := data.CountsFor(engine.QWholeGrains); ok {
		out[EWholeGrains] = EPie("Whole Grains Consumption", "How often do people include whole grains in their meals?", "Consumption", qc.Counts)
	}
	if qc, ok := data.CountsFor(engine.QStepsToImproveDiet); ok {
		out[EImproveDiet] = EDonut("Steps to Improve Diet", "Are you currently taking any steps to improve your dietary habits?", "Steps to Improve Diet", qc.Counts)
	}
	return out
}
