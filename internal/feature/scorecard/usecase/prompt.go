package usecase

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// DefaultInstruction はGeminiに渡すシステム指示です。JSONスキーマとスコアリング基準を記述します。
const DefaultInstruction = `
Sei un Senior Private Banker Corporate.
Analizza il PDF (Scheda Azimut) e restituisci un JSON per guidare l'azione commerciale.

**LOGICA SCORE (PRIORITÀ DI VISITA):**
Lo score (0-100) indica L'URGENZA.
- 0-30: Bassa Priorità (Azienda statica/sana).
- 31-70: Media Priorità (Spunti di miglioramento).
- 71-100: ALTA PRIORITÀ (Urgenza di intervento: eccesso liquidità, troppo debito breve, rischi soci).

**FORMATO JSON RICHIESTO:**
{
  "anagrafica": {
    "ragione_sociale": "Nome completo azienda SRL/SPA",
    "fatturato_milioni": "Es. € 4.8M (converti valore in Milioni)",
    "trend_fatturato": "Crescente/Decrescente/Stabile",
    "rating": "Rating esterno se presente nel documento, altrimenti N/A"
  },
  "sintesi_executive": "Descrizione dettagliata (minimo 3 righe) delle azioni pratiche da fare.",
  "scorecard": [
    {"area": "Gestione Tesoreria", "priorita_score": 0, "colore": "rosso/giallo/verde", "kpi_elenco": ["Liquidità: € ...", "Ciclo cassa: ... giorni"], "analisi_consulente": "Breve commento tecnico."},
    {"area": "Debito Corporate", "priorita_score": 0, "colore": "rosso/giallo/verde", "kpi_elenco": ["PFN/EBITDA: ...x", "Debiti Breve: € ..."], "analisi_consulente": "Breve commento tecnico."},
    {"area": "Assetti Proprietari", "priorita_score": 0, "colore": "rosso/giallo/verde", "kpi_elenco": ["Holding: Si/No", "Età Soci Key: ..."], "analisi_consulente": "Breve commento tecnico."},
    {"area": "Wealth Planning", "priorita_score": 0, "colore": "rosso/giallo/verde", "kpi_elenco": ["Utile Netto: € ...", "Riserve/PN: ..."], "analisi_consulente": "Breve commento tecnico."},
    {"area": "TFR e Previdenza", "priorita_score": 0, "colore": "rosso/giallo/verde", "kpi_elenco": ["Stock TFR: € ...", "Num Dipendenti: ..."], "analisi_consulente": "Breve commento tecnico."}
  ]
}
`

// DefaultClosing は添付PDFの後に置く短い締めの指示です。
const DefaultClosing = "Genera il JSON."

// Prompt はモデルへ送る指示テキストの組です。
type Prompt struct {
	Instruction string `yaml:"instruction"`
	Closing     string `yaml:"closing"`
}

// DefaultPrompt は組み込みのプロンプトを返します。
func DefaultPrompt() Prompt {
	return Prompt{Instruction: DefaultInstruction, Closing: DefaultClosing}
}

// LoadPrompt はYAMLファイルからプロンプトを読み込みます。
// pathが空の場合は組み込みのプロンプトを返し、ファイル内で省略された項目も組み込み値で補います。
func LoadPrompt(path string) (Prompt, error) {
	p := DefaultPrompt()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}
	var override Prompt
	if err := yaml.Unmarshal(data, &override); err != nil {
		return p, fmt.Errorf("failed to parse prompt file %s: %w", path, err)
	}
	if strings.TrimSpace(override.Instruction) != "" {
		p.Instruction = override.Instruction
	}
	if strings.TrimSpace(override.Closing) != "" {
		p.Closing = override.Closing
	}
	return p, nil
}
