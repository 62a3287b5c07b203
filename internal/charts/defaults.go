package charts

// seedDefaults installs the deck's built-in chart knowledge. CSV bootstrap
// can overwrite any of these with fresher series.
func (r *Registry) seedDefaults() {
	seed := map[string]map[string]*Knowledge{
		"mastersOfMain": {
			"crewCapacity": {
				Title:       "Velocity: Crew Capacity (2020-2050)",
				Description: "Projected crew capacity growth as the platform scales nationally.",
				AxisX:       "Year", AxisY: "Crew Capacity", UnitY: "crews",
				Series: []Series{
					{Name: "Mid-Atlantic Capacity", Points: []Point{
						{X: "2020", Y: 20}, {X: "2025", Y: 45}, {X: "2030", Y: 90},
						{X: "2035", Y: 160}, {X: "2040", Y: 230}, {X: "2045", Y: 300}, {X: "2050", Y: 380},
					}},
					{Name: "Midwest Capacity", Points: []Point{
						{X: "2020", Y: 15}, {X: "2025", Y: 28}, {X: "2030", Y: 50},
						{X: "2035", Y: 70}, {X: "2040", Y: 95}, {X: "2045", Y: 120}, {X: "2050", Y: 150},
					}},
				},
				KeyPoints: []KeyPoint{
					{Label: "Inflection ~2035", X: "2035", Y: 160, Takeaway: "Mid-Atlantic capacity roughly doubles from 2030 to 2035."},
					{Label: "Target 2050", X: "2050", Y: 380, Takeaway: "Long-run capacity goal as the platform scales."},
				},
			},
			"contractorSchedule": {
				Title:       "Contractor Schedule Progress",
				Description: "Percent complete over time (fallback when CSV not yet loaded).",
				AxisX:       "Date", AxisY: "% Complete", UnitY: "%",
				Series: []Series{
					{Name: "Progress", Points: []Point{
						{X: "2025-01", Y: 5}, {X: "2025-03", Y: 18}, {X: "2025-06", Y: 42},
						{X: "2025-09", Y: 67}, {X: "2025-12", Y: 85},
					}},
				},
				KeyPoints: []KeyPoint{
					{Label: "Mid-year ramp", X: "2025-06", Y: 42, Takeaway: "Schedule acceleration with added crews."},
				},
			},
		},
		"engineeringTomorrow": {
			"growthBridge": {
				Title:       "Financial Bridge: Path to $70M",
				Description: "Bridge components from current base to target, including organic growth and M&A.",
				AxisX:       "Component", AxisY: "Revenue", UnitY: "USD (M)",
				Series: []Series{
					{Name: "Bridge Components", Points: []Point{
						{X: "Base", Y: 37}, {X: "Organic", Y: 12}, {X: "Tech/Productivity", Y: 6}, {X: "M&A", Y: 15},
					}},
				},
				KeyPoints: []KeyPoint{
					{Label: "Base", X: "Base", Y: 37},
					{Label: "Target", X: "Total", Y: 70, Takeaway: "Sum of components reaches $70M."},
				},
			},
		},
		"throughTheTunnels": {
			"timeline": {
				Title:       "Historical Growth Timeline",
				Description: "Milestones and inflection points in company growth.",
				AxisX:       "Year", AxisY: "Milestones",
				Series: []Series{
					{Name: "Events", Points: []Point{
						{X: "1975", Y: 1, Label: "Founded in Pewaukee, WI"},
						{X: "1990", Y: 2, Label: "Early CCTV + hydro-jet adoption"},
						{X: "2005", Y: 3, Label: "Expanded trenchless rehab platform"},
						{X: "2023", Y: 4, Label: "Municipal momentum (HOVMSD award context)"},
						{X: "2025", Y: 5, Label: "MOR acquisition expands into PA/DE/NJ"},
					}},
				},
				KeyPoints: []KeyPoint{
					{Label: "Founding", X: "1975", Y: 1},
					{Label: "Mid-Atlantic Entry", X: "2025", Y: 5, Takeaway: "Platform expansion into three new states."},
				},
			},
		},
		"stewardsOfSewers": {
			"acquisitionMap": {
				Title:       "Footprint & Acquisitions Map",
				Description: "Geographic expansion across regions and major acquisitions.",
				AxisX:       "Region", AxisY: "Sites",
				Series: []Series{
					{Name: "Locations", Points: []Point{
						{X: "Midwest", Y: 1, Label: "Core platform"},
						{X: "Mid-Atlantic", Y: 1, Label: "Entry via MOR (PA/DE/NJ)"},
					}},
				},
			},
		},
		"eyeOnUnderground": {
			"cctv": {
				Title:       "CCTV Inspection Improvements",
				Description: "Manual vs AI-assisted review efficiency and accuracy.",
				AxisX:       "Segment", AxisY: "Time / Score",
				Series:      []Series{{Name: "Inspection"}},
			},
		},
		"savingCities": {
			"projectCosts": {
				Title:       "Project Costs: Trenchless vs Traditional",
				Description: "Cost and disruption comparisons by method.",
				AxisX:       "Year/Project", AxisY: "Cost",
				Series:      []Series{{Name: "Cost"}},
			},
		},
		"wiredForFuture": {
			"techStack": {
				Title:       "Technology Roadmap",
				Description: "Speed, risk, and optimization metrics over time.",
				AxisX:       "Phase", AxisY: "Impact",
				Series:      []Series{{Name: "Roadmap"}},
			},
		},
		"visionariesBelow": {
			"ecosystem": {
				Title:       "Leadership Ecosystem",
				Description: "Team composition and capability areas.",
				AxisX:       "Capability", AxisY: "Depth",
				Series:      []Series{{Name: "Leaders"}},
			},
		},
		"cleanStarts": {
			"evolution": {
				Title:       "Regional Expansion Playbook",
				Description: "Stages as new regions plug into the platform.",
				AxisX:       "Stage", AxisY: "Maturity",
				Series:      []Series{{Name: "Stages"}},
			},
		},
		"evolutionVelocity": {
			"aiSewersViz": {
				Title:       "AI Momentum in Sewers",
				Description: "AI adoption, cost savings, and workforce impact over time.",
				AxisX:       "Phase / Year", AxisY: "Impact Index", UnitY: "index (0-100)",
				Series: []Series{
					{Name: "AI Adoption Index", Points: []Point{
						{X: "Phase 1", Y: 45, Label: "Early pilots"},
						{X: "Phase 2", Y: 72, Label: "Production CCTV AI in core regions"},
						{X: "Phase 3", Y: 88, Label: "Predictive models across platform"},
					}},
					{Name: "Cost Savings Index", Points: []Point{
						{X: "Phase 1", Y: 40, Label: "Pipe Sleuth baseline"},
						{X: "Phase 2", Y: 70, Label: "70%+ inspection savings"},
						{X: "Phase 3", Y: 75, Label: "75%+ cloud savings"},
					}},
				},
			},
		},
		"innovationBelowGround": {
			"covenant": {
				Title:       "Safety Covenant Overview",
				Description: "Principles that govern trenchless operations and risk mitigation.",
				AxisX:       "Principle", AxisY: "Emphasis",
				Series:      []Series{{Name: "Emphasis"}},
			},
		},
		"evidenceLocker": {
			"evidence": {
				Title:       "Evidence Locker Overview",
				Description: "Catalog of documents and datasets.",
				AxisX:       "Type", AxisY: "Count",
				Series:      []Series{{Name: "Items"}},
			},
		},
		"closingChapter": {
			"closing": {
				Title:       "Closing: Commitment & Road Ahead",
				Description: "Wrap-up indicators and next steps.",
				AxisX:       "Theme", AxisY: "Emphasis",
				Series:      []Series{{Name: "Signals"}},
			},
		},
	}

	for slideID, charts := range seed {
		for chartID, k := range charts {
			r.Upsert(slideID, chartID, k)
		}
	}
}
