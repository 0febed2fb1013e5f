package dashboard

// HelpItem is one bullet of the guide, with optional sub-points.
type HelpItem struct {
	Text string   `json:"text"`
	Sub  []string `json:"sub,omitempty"`
}

type HelpSection struct {
	Title string     `json:"title"`
	Items []HelpItem `json:"items"`
}

// Help is the fixed guide shown under every result.
var Help = []HelpSection{
	{
		Title: "1. How does the average gain differ from the regression gain?",
		Items: []HelpItem{
			{
				Text: "Average gain (mean of Y/X): the ratio at each data point, averaged arithmetically.",
				Sub: []string{
					"Meaning: how many times the input each measurement produces as output, on average.",
					"Trait: useful when a proportional relationship through the origin (0,0) is assumed, but distorted by values near zero or by large spread.",
				},
			},
			{
				Text: "Regression gain (slope): the slope of the best-fit line that minimizes the distance to every data point.",
				Sub: []string{
					"Meaning: how much the output (Y) changes overall when the input (X) grows by one unit, i.e. the trend.",
					"Trait: captures the overall rate of change accurately even when the data carries a constant offset (y-intercept).",
				},
			},
		},
	},
	{
		Title: "2. How should the chart be read?",
		Items: []HelpItem{
			{Text: "Points gathered tightly on a line: the system is stable and predictable."},
			{Text: "The orange and green lines are close: the data is nearly proportional through the origin."},
			{Text: "The two lines are far apart: the data has a constant offset, or the gain changes sharply over some range."},
			{Text: "The blue original data fluctuates: there may be external noise or an unstable measurement setup."},
		},
	},
}
