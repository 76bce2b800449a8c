package intent

import "strings"

// lexicalRule pairs a label with the keyword substrings that claim it.
// Rule order is load-bearing: earlier rules shadow later ones, so narrow
// vocabularies (demand, mod, iex) come before broad ones (plant_info).
type lexicalRule struct {
	label    Label
	keywords []string
}

var lexicalRules = []lexicalRule{
	{Demand, []string{
		"demand", "consumption", "average demand", "avg demand", "load",
		"forecast", "prediction", "predicted", "expected",
	}},
	{MOD, []string{
		"mod", "moment of dispatch", "dispatch price", "mod price", "mod rate",
		"dispatch rate", "moment of dispatch price", "moment of dispatch rate",
	}},
	{IEX, []string{
		"iex", "exchange rate", "exchange price", "market rate", "market price",
		"indian energy exchange",
	}},
	{Banking, []string{
		"banking", "banking unit", "banked", "banked unit",
		"banking contribution", "energy banked",
	}},
	{Procurement, []string{
		"procurement", "purchase", "power purchase cost", "ppc",
		"procurement price", "last price", "iex cost",
		"generated energy", "energy generation", "energy generated",
		"generated cost", "generation cost", "cost generated", "cost generation",
	}},
	{CostPerBlock, []string{
		"cost per block", "block cost", "block price", "rate per block",
		"cost rate", "block rate",
	}},
	{PlantInfo, []string{
		"plant", "plant details", "generation plant", "power plant", "generator",
		"plf", "paf", "variable cost", "aux consumption", "max power", "min power",
		"rated capacity", "type", "technical minimum", "auxiliary consumption",
		"aux usage", "auxiliary usage", "var cost", "plant load factor",
		"plant availability factor",
	}},
}

// ClassifyLexical scans the rule list in order and returns the first label
// whose keyword set hits the normalized text.
func ClassifyLexical(normalized string) (Label, bool) {
	for _, rule := range lexicalRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.label, true
			}
		}
	}
	return None, false
}
