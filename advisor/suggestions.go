package advisor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Language selects the message catalog used by Suggestions.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

// ParseLanguage falls back to English for anything it does not recognize.
func ParseLanguage(s string) Language {
	if Language(strings.ToLower(strings.TrimSpace(s))) == Spanish {
		return Spanish
	}
	return English
}

type catalog struct {
	highInterest  string // rate
	consolidation string // count
	quickWin      string // name, balance
	refinance     string // rate
}

var catalogs = map[Language]catalog{
	English: {
		highInterest:  "Consider prioritizing the debt with %s%% interest rate to minimize interest costs.",
		consolidation: "You have %d debts that could be consolidated to potentially lower your interest rates.",
		quickWin:      "Focus on paying off %s ($%s) for a quick motivational win.",
		refinance:     "Look into refinancing options for your debt with %s%% interest rate.",
	},
	Spanish: {
		highInterest:  "Considera priorizar la deuda con tasa de interés del %s%% para minimizar los costos de interés.",
		consolidation: "Tienes %d deudas que podrían consolidarse para potencialmente reducir tus tasas de interés.",
		quickWin:      "Concéntrate en pagar %s ($%s) para una victoria motivacional rápida.",
		refinance:     "Explora opciones de refinanciamiento para tu deuda con tasa de interés del %s%%.",
	},
}

// minConsolidation is how many candidates it takes before consolidation is suggested.
const minConsolidation = 2

// Suggestions renders the analysis as advisory sentences in lang.
func Suggestions(a Analysis, lang Language) []string {
	msg, ok := catalogs[lang]
	if !ok {
		msg = catalogs[English]
	}

	out := []string{}
	for _, d := range a.HighInterest {
		out = append(out, fmt.Sprintf(msg.highInterest, formatRate(d.InterestRate)))
	}
	if len(a.Consolidation) >= minConsolidation {
		out = append(out, fmt.Sprintf(msg.consolidation, len(a.Consolidation)))
	}
	for _, d := range a.QuickWins {
		balance := decimal.NewFromFloat(d.Balance).Round(0)
		out = append(out, fmt.Sprintf(msg.quickWin, d.Name, balance.String()))
	}
	for _, d := range a.Refinancing {
		out = append(out, fmt.Sprintf(msg.refinance, formatRate(d.InterestRate)))
	}
	return out
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
