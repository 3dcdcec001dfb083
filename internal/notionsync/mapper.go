package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/lmcosta/financas-familia/internal/domain"
)

// kindLabels translates transaction kinds for the Notion select column.
var kindLabels = map[domain.TransactionKind]string{
	domain.KindIncome:     "Receita",
	domain.KindExpense:    "Despesa",
	domain.KindTransfer:   "Transferência",
	domain.KindInvestment: "Investimento",
}

// TransactionToNotionProperties maps one transaction to the report database
// schema: Descrição (title), ID, Data, Valor, Tipo, Categoria, Membro.
func TransactionToNotionProperties(tx domain.Transaction, categoryNames map[string]string) notionapi.Properties {
	props := notionapi.Properties{
		"Descrição": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Description,
					},
				},
			},
		},
		"ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.ID,
					},
				},
			},
		},
		"Data": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: func() *notionapi.Date {
					d := notionapi.Date(time.Date(
						tx.Date.Year(), tx.Date.Month(), tx.Date.Day(),
						0, 0, 0, 0, time.UTC,
					))
					return &d
				}(),
			},
		},
		"Valor": notionapi.NumberProperty{
			Number: tx.Amount,
		},
	}

	if label, ok := kindLabels[tx.Kind]; ok {
		props["Tipo"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: label,
			},
		}
	}

	if name := categoryNames[tx.CategoryID]; name != "" {
		props["Categoria"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: name,
			},
		}
	}

	if tx.Member != "" {
		props["Membro"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Member,
			},
		}
	}

	return props
}

// extractTransactionID reads the ID property back out of a Notion page.
// Empty when the page was not created by this sync.
func extractTransactionID(page notionapi.Page) string {
	prop, ok := page.Properties["ID"]
	if !ok {
		return ""
	}
	richText, ok := prop.(*notionapi.RichTextProperty)
	if !ok || len(richText.RichText) == 0 {
		return ""
	}
	return richText.RichText[0].PlainText
}
