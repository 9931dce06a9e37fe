package segment

// DefaultBlockOrder returns the canonical order of the nine analytic blocks.
func DefaultBlockOrder() []string {
	return []string{
		Introduction,
		CaseDescription,
		Challenges,
		SolutionsFound,
		EffectivenessAnalysis,
		ResourcesAndTools,
		SelfAnalysis,
		GeneralConclusions,
		Audit,
	}
}

// DefaultKeywords returns the built-in keyword map. It mixes Ukrainian and
// English markers common in Diia.Business success stories.
func DefaultKeywords() KeywordMap {
	return KeywordMap{
		{Block: Introduction, Phrases: []string{
			"вступ", "коротка суть", "мета", "навіщо", "огляд",
			"introduction", "summary", "purpose",
		}},
		{Block: CaseDescription, Phrases: []string{
			"опис кейсу", "стартові умови", "передумови", "ринок", "інвестиції", "команда",
			"case description", "background", "initial conditions",
		}},
		{Block: Challenges, Phrases: []string{
			"труднощі", "виклики", "бар'єри",
			"obstacles", "challenges", "pain point",
		}},
		{Block: SolutionsFound, Phrases: []string{
			"рішення", "стратегія", "кроки", "дії",
			"implementation", "solutions",
		}},
		{Block: EffectivenessAnalysis, Phrases: []string{
			"аналіз ефективності", "результати", "невдачі",
			"success", "lessons", "impact",
		}},
		{Block: ResourcesAndTools, Phrases: []string{
			"ресурси", "інструменти", "технології", "платформи",
			"toolkit", "partners",
		}},
		{Block: SelfAnalysis, Phrases: []string{
			"самоаналіз", "цитати", "висновки підприємця",
			"reflection", "quote", "entrepreneur",
		}},
		{Block: GeneralConclusions, Phrases: []string{
			"узагальнені висновки", "висновки", "рекомендації", "тенденції",
			"conclusion", "advice", "recommendations",
		}},
		{Block: Audit, Phrases: []string{
			"аудит", "контрольні питання", "сліпі плями", "прогалини",
			"audit", "risks",
		}},
	}
}
