package deck

// DefaultStory returns the canonical fifteen-page Visu-Sewer presentation.
// Narration text doubles as retrieval corpus: the store ingests it at
// bootstrap so evidence search can quote the deck back at the user.
func DefaultStory() *Story {
	return &Story{
		AppTitle: "From Roots to Resilience: A Visu-Sewer Story",
		Tagline:  "A Visu-Sewer Story",
		NavItems: []NavItem{
			{ID: "home", Label: "Home"},
			{ID: "discover", Label: "Discover"},
			{ID: "spaces", Label: "Spaces"},
			{ID: "finance", Label: "Finance"},
			{ID: "account", Label: "Account"},
		},
		Slides: []Slide{
			{
				ID: "innovationBelowGround", NavItem: "home",
				Title: "Innovation Below Ground", Subtitle: "Title / Setup",
				ChartKind: "Covenant", PromptHint: "Set the stage.",
				Narration: NarrationBlock{
					Title: "Innovation Below Ground", Subtitle: "Title / Setup",
					Paragraphs: []string{
						"Good morning. I'm Agent Lee, your narrator for this Visu-Sewer story. Over the next few minutes, I'll walk you through who Visu-Sewer is, how the company grew, how AI and data are changing the work, and why the numbers behind this platform matter.",
						"On this opening page, you're seeing the title of the story and the core idea: progress that starts below ground but shows up in safer streets, fewer failures, and better use of public dollars.",
					},
				},
			},
			{
				ID: "stewardsOfSewers", NavItem: "home",
				Title: "Stewards of Sewers", Subtitle: "Who We Are / Footprint",
				ChartKind: "AcquisitionMap", PromptHint: "Describe footprint.",
				Narration: NarrationBlock{
					Title: "Stewards of Sewers", Subtitle: "Who We Are / Footprint",
					Paragraphs: []string{
						"This page is about who Visu-Sewer is. For almost fifty years, the company has focused on one thing: taking care of the underground systems that nobody sees but everybody depends on.",
						"The map shows where that work happens: Wisconsin, Illinois, Iowa, Minnesota, Missouri, and now Pennsylvania, Delaware, and New Jersey thanks to the MOR Construction acquisition.",
					},
				},
			},
			{
				ID: "throughTheTunnels", NavItem: "discover",
				Title: "Through the Tunnels", Subtitle: "History & Growth",
				ChartKind: "Timeline", PromptHint: "Narrate growth curve.",
				Narration: NarrationBlock{
					Title: "Through the Tunnels", Subtitle: "History & Growth",
					Paragraphs: []string{
						"We are looking at the timeline. From a single-market contractor in 1975 to a multi-state platform today. Note the inflection point in 2023 with the Fort Point Capital partnership.",
						"You'll see consistent growth, then a clear step-up in scale. The 2024 revenue estimate of $19.8M represents a significant jump, driven by the $18.1M HOVMSD contract.",
						"The pattern is steady, not random. This is durable growth.",
					},
				},
			},
			{
				ID: "eyeOnUnderground", NavItem: "discover",
				Title: "Eye on the Underground", Subtitle: "Inspection & CCTV / AI",
				ChartKind: "CCTV", PromptHint: "Explain AI inspection.",
				Narration: NarrationBlock{
					Title: "Eye on the Underground", Subtitle: "Inspection & CCTV / AI",
					Paragraphs: []string{
						"How does Visu-Sewer 'see' underground? This chart compares manual CCTV review with AI-assisted review. Inspection services make up 25% of revenue and carry a high 35% margin.",
						"AI tools are speeding up report generation and flagging risks more consistently. It's not replacing the operator; it's giving them a smarter toolset.",
					},
				},
			},
			{
				ID: "savingCities", NavItem: "spaces",
				Title: "Saving Cities Money", Subtitle: "Trenchless vs. Dig & Replace",
				ChartKind: "ProjectCosts", PromptHint: "Compare trenchless vs open cut.",
				Narration: NarrationBlock{
					Title: "Saving Cities Money", Subtitle: "Trenchless vs. Dig & Replace",
					Paragraphs: []string{
						"Here is the financial reality for cities. Trenchless repair vs. open-cut replacement. The data shows trenchless methods are not only less disruptive but significantly cheaper when factoring in restoration.",
						"Look at the HOVMSD project: Visu-Sewer came in $3.6M under the original budget. That is 16.8% in savings for the client.",
					},
				},
			},
			{
				ID: "mastersOfMain", NavItem: "spaces",
				Title: "Masters of the Main", Subtitle: "Crews, Capacity, and Schedule",
				ChartKind: "ContractorSchedule", PromptHint: "Describe capacity.",
				Narration: NarrationBlock{
					Title: "Masters of the Main", Subtitle: "Crews, Capacity, and Schedule",
					Paragraphs: []string{
						"This chart tracks crew capacity. As we acquire firms like MOR and Sheridan, our capacity to handle concurrent projects rises.",
						"We are projecting to reach $24.2M in revenue in 2025, supported by this expanded crew base in the Mid-Atlantic.",
					},
				},
			},
			{
				ID: "wiredForFuture", NavItem: "finance",
				Title: "Wired for the Future", Subtitle: "Technology & AI Roadmap",
				ChartKind: "TechStack", PromptHint: "Walk through roadmap.",
				Narration: NarrationBlock{
					Title: "Wired for the Future", Subtitle: "Technology & AI Roadmap",
					Paragraphs: []string{
						"This is the tech roadmap: Speed, Risk Reduction, Optimization. We are moving from simple inspection to predictive maintenance.",
						"The market is growing at 7.7% CAGR in North America. To capture that, we need these tech efficiencies.",
					},
				},
			},
			{
				ID: "engineeringTomorrow", NavItem: "finance",
				Title: "Engineering Tomorrow", Subtitle: "Financial Bridge",
				ChartKind: "GrowthBridge", PromptHint: "Explain revenue bridge.",
				Narration: NarrationBlock{
					Title: "Engineering Tomorrow", Subtitle: "Financial Bridge",
					Paragraphs: []string{
						"This bridge chart connects our field work to the P&L. We are looking at a trajectory from $19.8M in 2024 to potentially $28.5M by 2026 in our base case.",
						"Drivers: Organic growth, the MOR acquisition adding ~$4M/year, and margin expansion from our service mix.",
					},
				},
			},
			{
				ID: "visionariesBelow", NavItem: "spaces",
				Title: "Visionaries Below", Subtitle: "Leadership & Governance",
				ChartKind: "Ecosystem", PromptHint: "Introduce leadership.",
				Narration: NarrationBlock{
					Title: "Visionaries Below", Subtitle: "Leadership & Governance",
					Paragraphs: []string{
						"Leadership matters. The team here spans operations, finance, and growth. Many started in the field.",
						"With Fort Point Capital backing since 2023, we have the capital stack to execute the acquisition strategy we've discussed.",
					},
				},
			},
			{
				ID: "cleanStarts", NavItem: "spaces",
				Title: "Clean Starts", Subtitle: "New Regions & Programs",
				ChartKind: "Evolution", PromptHint: "Explain expansion strategy.",
				Narration: NarrationBlock{
					Title: "Clean Starts", Subtitle: "New Regions & Programs",
					Paragraphs: []string{
						"Here is where we take a clean look at our current and future dominance. At the top, you'll see the equation we operate on: DOMINANCE = SCALE x (AI) squared. That's not a tagline. That's how we run the company.",
						"Scale is our footprint and our throughput. But scale alone doesn't create dominance. AI in the product improves customer results; AI in operations cuts cycle time and cost-to-serve. When both engines improve together, the gains don't add up, they multiply.",
					},
				},
			},
			{
				ID: "evolutionVelocity", NavItem: "finance",
				Title: "Evolution Velocity", Subtitle: "Industry AI Landscape",
				ChartKind: "AISewersViz", PromptHint: "Position in AI landscape.",
				Narration: NarrationBlock{
					Title: "Evolution Velocity", Subtitle: "Industry AI Landscape",
					Paragraphs: []string{
						"Across these tabs, the charts collectively show a consistent operational narrative: AI-driven inspection increases throughput up to 10x over manual review while improving defect detection quality by 33%.",
						"The economic results stack directly on top of that engine. Payback periods span just 6-15 months with total savings reaching $1.872M.",
					},
				},
			},
			{
				ID: "evidenceLocker", NavItem: "account",
				Title: "Evidence Locker", Subtitle: "Operations & Finance",
				ChartKind: "Evidence", PromptHint: "Present evidence locker.",
				Narration: NarrationBlock{
					Title: "Evidence Locker", Subtitle: "Operations & Finance",
					Paragraphs: []string{
						"This is the Evidence Locker. Every claim we've made is backed here. You can see the Zippia revenue data, the HOVMSD contract PDF, and the Fort Point portfolio listing.",
						"We track our confidence in every number. 2022 Revenue? High confidence. 2025 Projections? Low confidence, labeled clearly as estimates.",
						"Transparency is our currency. If you want to check a source, the links are right here.",
					},
				},
			},
			{
				ID: "agentLeeSpeech", NavItem: "account",
				Title: "Intelligence Briefing", Subtitle: "Financial Intelligence Briefing",
				ChartKind: "Page13Speech", PromptHint: "Read the scripted narrative.",
				Narration: NarrationBlock{
					Title: "Intelligence Briefing", Subtitle: "Financial Intelligence Briefing",
					Paragraphs: []string{
						"Today I'm presenting a comprehensive financial intelligence analysis of Visu-Sewer, a 50-year-old wastewater infrastructure company that's quietly becoming one of the most compelling growth stories in the municipal services sector.",
						"Revenue trajectory: we're looking at $19.8 million in 2024, projected to reach $24.2 million in 2025 and $28.5 million by 2026 under our base case scenario. That's a 20.6% CAGR over the next two years.",
						"The global wastewater treatment market was valued at $93.56 billion in 2024 and is projected to reach $127.37 billion by 2030. Visu-Sewer currently holds about 0.021% market share. That's not a problem, that's a massive runway.",
					},
				},
			},
			{
				ID: "closingChapter", NavItem: "account",
				Title: "Closing Chapter", Subtitle: "Thank You & Q&A",
				ChartKind: "Closing", PromptHint: "Wrap and Q&A.",
				Narration: NarrationBlock{
					Title: "Closing Chapter", Subtitle: "Thank You & Q&A",
					Paragraphs: []string{
						"We've reached the final page. We started with innovation below ground, walked through the growth story, analyzed the data, and opened the evidence locker.",
						"The formal presentation is complete. Now it's your turn. You can ask to revisit any page, or query the specific numbers.",
						"Thank you for your time. I'm ready for your questions.",
					},
				},
			},
			{
				ID: "aiQAPage", NavItem: "account",
				Title: "AI Financial Analyst", Subtitle: "Interactive Intelligence Platform",
				ChartKind: "AIQA", PromptHint: "Open AI Q&A.",
				Narration: NarrationBlock{
					Title: "AI Financial Analyst", Subtitle: "Interactive Intelligence Platform",
					Paragraphs: []string{
						"This is the intelligence core. Beyond the slides, this page allows you to interact directly with the financial model.",
						"You can ask: 'Why was the HOVMSD project under budget?' or 'What is the 2030 revenue forecast?' and get instant, evidence-backed answers.",
					},
					Bullets: []string{
						"Ask about Revenue Trajectory",
						"Ask about Competitive Advantage",
						"Ask about Market Opportunity",
					},
				},
			},
		},
	}
}
