package constants

// DocumentType is the closed set of document classifications used across
// the extraction pipeline and the documents API.
type DocumentType string

const (
	TypeCertidao     DocumentType = "certidao"
	TypeAtestado     DocumentType = "atestado"
	TypeProposta     DocumentType = "proposta"
	TypeOrcamento    DocumentType = "orcamento"
	TypeCronograma   DocumentType = "cronograma"
	TypeBDI          DocumentType = "bdi"
	TypeConstitutivo DocumentType = "documento_constitutivo"
	TypeBalanco      DocumentType = "balanco"
	TypeOutro        DocumentType = "outro"
)

// ClassificationOrder is the priority order the classifier walks. The first
// type whose keyword set reaches KeywordThreshold hits wins.
var ClassificationOrder = []DocumentType{
	TypeCertidao,
	TypeAtestado,
	TypeProposta,
	TypeOrcamento,
	TypeCronograma,
	TypeBDI,
	TypeConstitutivo,
	TypeBalanco,
}

// KeywordThreshold is the minimum number of distinct keyword hits for a
// type to be selected.
const KeywordThreshold = 2

// Keywords maps each classifiable type to its keyword set. Keywords are
// matched as substrings against folded (lowercased, deaccented) text.
// Note: the proposta set has 4 entries while its siblings have 5; the
// taxonomy is kept as inherited.
var Keywords = map[DocumentType][]string{
	TypeCertidao:     {"certidao", "negativa", "debito", "tributo", "regularidade"},
	TypeAtestado:     {"atestado", "capacidade", "tecnica", "servico", "fornecimento"},
	TypeProposta:     {"proposta", "tecnica", "comercial", "preco"},
	TypeOrcamento:    {"orcamento", "planilha", "custo", "valor", "preco unitario"},
	TypeCronograma:   {"cronograma", "fisico", "financeiro", "prazo", "etapa"},
	TypeBDI:          {"bdi", "bonificacao", "despesa", "indireta"},
	TypeConstitutivo: {"contrato", "social", "estatuto", "cnpj", "constituicao"},
	TypeBalanco:      {"balanco", "patrimonial", "demonstracao", "contabil"},
}

// CategoryOutros is the fallback category slug.
const CategoryOutros = "outros"

var typeToCategory = map[DocumentType]string{
	TypeCertidao:     "fiscal",
	TypeAtestado:     "tecnico",
	TypeProposta:     "propostas",
	TypeOrcamento:    "propostas",
	TypeCronograma:   "propostas",
	TypeBDI:          "propostas",
	TypeConstitutivo: "juridico",
	TypeBalanco:      "economico",
	TypeOutro:        CategoryOutros,
}

// CategoryFor maps a document type to its category slug. Unknown types fall
// back to "outros".
func CategoryFor(t DocumentType) string {
	if c, ok := typeToCategory[t]; ok {
		return c
	}
	return CategoryOutros
}

// DefaultCategories is the category taxonomy seeded into the database.
var DefaultCategories = []struct {
	Slug string
	Name string
}{
	{"fiscal", "Documentação Fiscal"},
	{"tecnico", "Documentação Técnica"},
	{"propostas", "Propostas e Orçamentos"},
	{"juridico", "Documentação Jurídica"},
	{"economico", "Documentação Econômico-Financeira"},
	{CategoryOutros, "Outros Documentos"},
}

// TagRule adds Tag when Needle occurs in the document's raw text. Needles
// keep their original accented/uppercase forms on purpose: the checks run
// against unfolded text.
type TagRule struct {
	Needle string
	Tag    string
}

// TagRules holds the per-type heuristic tag rules. Types without an entry
// get no heuristic tags.
var TagRules = map[DocumentType][]TagRule{
	TypeCertidao: {
		{"federal", "federal"},
		{"estadual", "estadual"},
		{"municipal", "municipal"},
		{"trabalhista", "trabalhista"},
		{"FGTS", "fgts"},
	},
	TypeAtestado: {
		{"técnica", "tecnica"},
		{"capacidade", "capacidade"},
		{"operacional", "operacional"},
	},
	TypeProposta: {
		{"técnica", "tecnica"},
		{"comercial", "comercial"},
		{"preço", "preco"},
	},
}

// Issuers lists issuing-authority name fragments scanned in priority order
// when extracting certidão metadata.
var Issuers = []string{
	"Receita Federal",
	"Fazenda",
	"Caixa",
	"INSS",
	"Ministério",
	"Prefeitura",
	"Secretaria",
	"Tribunal",
	"Justiça",
}
