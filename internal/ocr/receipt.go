// Package ocr turns receipt photos and PDFs into draft transactions via
// Gemini. The model contract is strict JSON in, drafts out; nothing here
// writes to storage.
package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// DefaultModelName is the Gemini model used for receipt parsing.
const DefaultModelName = "gemini-2.0-flash"

// Parser extracts expenses from receipt images.
type Parser struct {
	model string
	log   zerolog.Logger
}

// NewParser creates a parser for the given model name; empty means
// DefaultModelName.
func NewParser(model string, log zerolog.Logger) *Parser {
	if model == "" {
		model = DefaultModelName
	}
	return &Parser{model: model, log: log.With().Str("component", "ocr").Logger()}
}

// receiptItem is the JSON shape the model must produce per expense.
type receiptItem struct {
	Date        string  `json:"data"`
	Description string  `json:"descricao"`
	Amount      float64 `json:"valor"`
	Category    string  `json:"categoria"`
}

// ParseReceipt sends the receipt to the model and returns draft transactions.
// The owner's categories constrain what the model may classify into; items
// the model cannot classify come back uncategorized.
func (p *Parser) ParseReceipt(ctx context.Context, data []byte, mimeType string, categories []domain.Category) ([]domain.Transaction, error) {
	prompt := buildReceiptPrompt(categories)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("ParseReceipt: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     data,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("ParseReceipt: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("ParseReceipt: empty response from model")
	}

	items, err := decodeItems(rawText)
	if err != nil {
		return nil, fmt.Errorf("ParseReceipt: %w", err)
	}

	drafts := transform(items, categories)
	p.log.Info().Int("items", len(drafts)).Msg("Receipt parsed")
	return drafts, nil
}

func buildReceiptPrompt(categories []domain.Category) string {
	var b strings.Builder
	b.WriteString("Você é um extrator de despesas de comprovantes e notas fiscais.\n\n")
	b.WriteString("Tarefa:\n")
	b.WriteString("- Extraia TODAS as despesas do comprovante anexo.\n")
	b.WriteString("- Responda APENAS com JSON estrito (sem comentários, sem texto extra).\n")
	b.WriteString("- Responda com um array JSON de objetos.\n\n")
	b.WriteString("Cada objeto deve ter os campos:\n")
	b.WriteString("- \"data\": string, formato ISO \"YYYY-MM-DD\"\n")
	b.WriteString("- \"descricao\": string\n")
	b.WriteString("- \"valor\": número positivo\n")
	b.WriteString("- \"categoria\": string (uma das categorias abaixo, ou \"\" se nenhuma servir)\n\n")

	b.WriteString("Categorias permitidas:\n")
	for _, c := range categories {
		if c.Kind != domain.CategoryExpense {
			continue
		}
		b.WriteString("  - " + c.Name + "\n")
	}

	b.WriteString("\nNão envolva a resposta em cercas de código.\n")
	b.WriteString("Não use ```json nem Markdown.\n")
	b.WriteString("A resposta deve começar com \"[\" e terminar com \"]\".\n")
	return b.String()
}

func decodeItems(raw string) ([]receiptItem, error) {
	clean := cleanModelJSON(raw)

	var items []receiptItem
	if err := json.Unmarshal([]byte(clean), &items); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w\nraw response: %s", err, raw)
	}
	return items, nil
}

// transform turns model items into expense drafts, resolving category names
// to ids. Items with unparsable dates get today's date; negative or zero
// amounts are dropped.
func transform(items []receiptItem, categories []domain.Category) []domain.Transaction {
	byName := make(map[string]string, len(categories))
	for _, c := range categories {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	var drafts []domain.Transaction
	for _, item := range items {
		if item.Amount <= 0 {
			continue
		}

		date, err := time.Parse("2006-01-02", item.Date)
		if err != nil {
			date = time.Now().UTC()
		}

		drafts = append(drafts, domain.Transaction{
			Description: strings.TrimSpace(item.Description),
			Amount:      item.Amount,
			Kind:        domain.KindExpense,
			Date:        date,
			CategoryID:  byName[strings.ToLower(strings.TrimSpace(item.Category))],
		})
	}

	return drafts
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
