// Package insight generates a short AI commentary on the current analysis.
package insight

import (
	"context"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"portfolioTracker/internal/portfolio"
)

const systemPrompt = `You are a financial analyst reviewing a personal stock portfolio. You will receive the portfolio's growth, sector allocation, dividend income and risk flags.

Reply with a short commentary (max 5 bullet points) covering:
- How the portfolio has performed against a 5% fixed-deposit baseline
- Whether the sector allocation looks balanced
- What the dividend income contributes
- Any raised risk flags and one concrete way to address each

Be direct and concise. Do not give personalized financial advice disclaimers.`

type Generator struct {
	cli oa.Client
}

func NewGenerator(apiKey string) *Generator {
	client := oa.NewClient(option.WithAPIKey(apiKey))
	return &Generator{cli: client}
}

// PortfolioInsight asks the model for a commentary on the analysis.
func (g *Generator) PortfolioInsight(ctx context.Context, a *portfolio.Analysis) (string, error) {
	resp, err := g.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: "gpt-4",
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(describe(a)),
		},
		MaxTokens: oa.Int(700),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// describe flattens the analysis into a compact text prompt.
func describe(a *portfolio.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current value: $%.2f, contributed: $%.2f", a.LatestValue, a.TotalContributed)
	if a.HasGrowth {
		fmt.Fprintf(&b, ", growth: %.2f%%", a.GrowthPercent)
	} else {
		b.WriteString(", growth: no data")
	}
	fmt.Fprintf(&b, ", held %.1f years.\n", a.YearsHeld)

	b.WriteString("Sector allocation:")
	for sector, pct := range a.SectorAllocation {
		fmt.Fprintf(&b, " %s %.1f%%", sector, pct)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Annual dividend income: $%.2f across %d holdings.\n",
		a.TotalDividendIncome, len(a.DividendIncome))

	if len(a.RiskFlags) > 0 {
		b.WriteString("Risk flags: " + strings.Join(a.RiskFlags, " "))
	} else {
		b.WriteString("No risk flags raised.")
	}
	return b.String()
}
