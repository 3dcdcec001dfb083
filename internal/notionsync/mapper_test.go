package notionsync

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"

	"github.com/lmcosta/financas-familia/internal/domain"
)

func TestTransactionToNotionProperties(t *testing.T) {
	tx := domain.Transaction{
		ID:          "t1",
		Description: "Mercado da semana",
		Amount:      320.40,
		Kind:        domain.KindExpense,
		Date:        time.Date(2026, 8, 12, 15, 30, 0, 0, time.UTC),
		CategoryID:  "c1",
		Member:      "Ana",
	}
	names := map[string]string{"c1": "Mercado"}

	props := TransactionToNotionProperties(tx, names)

	title, ok := props["Descrição"].(notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 || title.Title[0].Text.Content != "Mercado da semana" {
		t.Errorf("Descrição = %+v", props["Descrição"])
	}

	id, ok := props["ID"].(notionapi.RichTextProperty)
	if !ok || len(id.RichText) == 0 || id.RichText[0].Text.Content != "t1" {
		t.Errorf("ID = %+v", props["ID"])
	}

	amount, ok := props["Valor"].(notionapi.NumberProperty)
	if !ok || amount.Number != 320.40 {
		t.Errorf("Valor = %+v", props["Valor"])
	}

	kind, ok := props["Tipo"].(notionapi.SelectProperty)
	if !ok || kind.Select.Name != "Despesa" {
		t.Errorf("Tipo = %+v", props["Tipo"])
	}

	cat, ok := props["Categoria"].(notionapi.SelectProperty)
	if !ok || cat.Select.Name != "Mercado" {
		t.Errorf("Categoria = %+v", props["Categoria"])
	}
}

func TestTransactionToNotionPropertiesOmitsUnknowns(t *testing.T) {
	tx := domain.Transaction{ID: "t2", Description: "sem vínculos", Amount: 10, Kind: domain.KindExpense, Date: time.Now()}

	props := TransactionToNotionProperties(tx, nil)

	if _, ok := props["Categoria"]; ok {
		t.Error("unlinked transaction must not carry a Categoria property")
	}
	if _, ok := props["Membro"]; ok {
		t.Error("transaction without member must not carry a Membro property")
	}
}

func TestExtractTransactionID(t *testing.T) {
	page := notionapi.Page{
		Properties: notionapi.Properties{
			"ID": &notionapi.RichTextProperty{
				RichText: []notionapi.RichText{{PlainText: "t1"}},
			},
		},
	}
	if got := extractTransactionID(page); got != "t1" {
		t.Errorf("extractTransactionID = %q", got)
	}

	if got := extractTransactionID(notionapi.Page{Properties: notionapi.Properties{}}); got != "" {
		t.Errorf("missing property must yield empty id, got %q", got)
	}
}
